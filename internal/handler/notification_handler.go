package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gymman/internal/model"
)

// NotificationServiceInterface はお知らせハンドラーが必要とするサービスインターフェース。
type NotificationServiceInterface interface {
	// Create はお知らせを作成する。
	Create(ctx context.Context, title, description string) (*model.Notification, error)
	// List は全お知らせを返す。
	List(ctx context.Context) ([]*model.Notification, error)
	// Delete は指定IDのお知らせを削除する。
	Delete(ctx context.Context, id string) error
}

// NotificationHandler はお知らせ管理のHTTPハンドラー。
type NotificationHandler struct {
	service NotificationServiceInterface
}

// NewNotificationHandler はNotificationHandlerを生成する。
func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// createNotificationRequest はお知らせ作成リクエストのボディ。
type createNotificationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// notificationResponse はお知らせのAPIレスポンス。
type notificationResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toNotificationResponse(n *model.Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
	}
}

// Create はお知らせ作成を処理する。
// POST /api/notifications
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	n, err := h.service.Create(r.Context(), req.Title, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNotificationResponse(n))
}

// List は全お知らせの一覧を返す。
// GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]notificationResponse, len(notifications))
	for i, n := range notifications {
		results[i] = toNotificationResponse(n)
	}
	writeJSON(w, http.StatusOK, results)
}

// Delete はお知らせを削除する。
// DELETE /api/notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
