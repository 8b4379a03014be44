package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/subscription"
)

// SubscriptionServiceInterface は会員ライフサイクルハンドラーが必要とするサービスインターフェース。
type SubscriptionServiceInterface interface {
	// ProcessExpiredMemberships は期限切れ会員のアーカイブ処理を実行する。
	ProcessExpiredMemberships(ctx context.Context) (*subscription.SweepResult, error)
	// SendExpiryReminders は期限切れが近い会員へのリマインダー送信を実行する。
	SendExpiryReminders(ctx context.Context) (*subscription.SweepResult, error)
	// RenewMembership は会員資格を更新する。
	RenewMembership(ctx context.Context, memberID, packageType string) (*subscription.RenewalResult, error)
	// Status は会員資格の現在状態を返す。
	Status(ctx context.Context, memberID string) (*subscription.MembershipStatus, error)
	// ListArchivedMembers は期限切れアーカイブの全件を返す。
	ListArchivedMembers(ctx context.Context) ([]*model.ArchivedMember, error)
}

// SubscriptionHandler は会員ライフサイクル管理のHTTPハンドラー。
type SubscriptionHandler struct {
	service SubscriptionServiceInterface
}

// NewSubscriptionHandler はSubscriptionHandlerを生成する。
func NewSubscriptionHandler(service SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// renewMembershipRequest は会員資格更新リクエストのボディ。
type renewMembershipRequest struct {
	PackageType string `json:"packageType"`
}

// archivedMemberResponse はアーカイブ会員のAPIレスポンス。
type archivedMemberResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PackageType    string     `json:"packageType"`
	Status         string     `json:"status"`
	ExpiryDate     *time.Time `json:"expiryDate"`
	ArchivedAt     time.Time  `json:"archivedAt"`
	PreviousStatus string     `json:"previousStatus"`
}

func toArchivedMemberResponse(a *model.ArchivedMember) archivedMemberResponse {
	return archivedMemberResponse{
		ID:             a.ID,
		Email:          a.Email,
		Name:           a.Name,
		PackageType:    a.PackageType,
		Status:         a.Status,
		ExpiryDate:     a.ExpiryDate,
		ArchivedAt:     a.ArchivedAt,
		PreviousStatus: a.PreviousStatus,
	}
}

// ProcessExpired は期限切れ会員の一括アーカイブ処理を実行する。
// POST /api/subscription/process-expired
func (h *SubscriptionHandler) ProcessExpired(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ProcessExpiredMemberships(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SendReminders はリマインダーメールの一括送信を実行する。
// POST /api/subscription/send-reminders
func (h *SubscriptionHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SendExpiryReminders(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListExpiredMembers はアーカイブ済み会員の一覧を返す。
// GET /api/subscription/expired-members
func (h *SubscriptionHandler) ListExpiredMembers(w http.ResponseWriter, r *http.Request) {
	archived, err := h.service.ListArchivedMembers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]archivedMemberResponse, len(archived))
	for i, a := range archived {
		results[i] = toArchivedMemberResponse(a)
	}
	writeJSON(w, http.StatusOK, results)
}

// Renew は会員資格を更新する。
// PUT /api/subscription/renew/{memberId}
func (h *SubscriptionHandler) Renew(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberId")

	var req renewMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	result, err := h.service.RenewMembership(r.Context(), memberID, req.PackageType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Status は会員資格の現在状態を返す。
// GET /api/subscription/status/{memberId}
func (h *SubscriptionHandler) Status(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberId")

	status, err := h.service.Status(r.Context(), memberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
