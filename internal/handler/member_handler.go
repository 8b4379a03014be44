package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gymman/internal/member"
	"github.com/hitoshi/gymman/internal/model"
)

// MemberServiceInterface は会員ハンドラーが必要とするサービスインターフェース。
type MemberServiceInterface interface {
	// Create は会員を登録する。
	Create(ctx context.Context, in member.CreateMemberInput) (*model.Member, error)
	// Get は指定IDの会員を取得する。
	Get(ctx context.Context, memberID string) (*model.Member, error)
	// List は全会員を返す。
	List(ctx context.Context) ([]*model.Member, error)
	// Delete は指定IDの会員を削除する。
	Delete(ctx context.Context, memberID string) error
	// UpdateDiet は会員の食事メモを更新する。
	UpdateDiet(ctx context.Context, memberID, dietDetails string) (*model.Member, error)
	// GetDiet は会員の食事メモを返す。
	GetDiet(ctx context.Context, memberID string) (string, *time.Time, error)
}

// MemberHandler は会員管理のHTTPハンドラー。
type MemberHandler struct {
	service MemberServiceInterface
}

// NewMemberHandler はMemberHandlerを生成する。
func NewMemberHandler(service MemberServiceInterface) *MemberHandler {
	return &MemberHandler{service: service}
}

// createMemberRequest は会員登録リクエストのボディ。
type createMemberRequest struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PackageType string `json:"packageType"`
}

// updateDietRequest は食事メモ更新リクエストのボディ。
type updateDietRequest struct {
	DietDetails string `json:"dietDetails"`
}

// memberResponse は会員情報のAPIレスポンス。
type memberResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	PackageType     string     `json:"packageType"`
	Status          string     `json:"status"`
	JoinedAt        time.Time  `json:"joinedAt"`
	ExpiryDate      *time.Time `json:"expiryDate"`
	LastRenewalDate *time.Time `json:"lastRenewalDate,omitempty"`
	DietDetails     string     `json:"dietDetails,omitempty"`
	DietUpdatedAt   *time.Time `json:"dietUpdatedAt,omitempty"`
}

// dietResponse は食事メモのAPIレスポンス。
type dietResponse struct {
	DietDetails   string     `json:"dietDetails"`
	DietUpdatedAt *time.Time `json:"dietUpdatedAt"`
}

func toMemberResponse(m *model.Member) memberResponse {
	return memberResponse{
		ID:              m.ID,
		Email:           m.Email,
		Name:            m.Name,
		PackageType:     m.PackageType,
		Status:          m.Status,
		JoinedAt:        m.JoinedAt,
		ExpiryDate:      m.ExpiryDate,
		LastRenewalDate: m.LastRenewalDate,
		DietDetails:     m.DietDetails,
		DietUpdatedAt:   m.DietUpdatedAt,
	}
}

// Create は会員登録を処理する。
// POST /api/members
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	m, err := h.service.Create(r.Context(), member.CreateMemberInput{
		ID:          req.ID,
		Email:       req.Email,
		Name:        req.Name,
		PackageType: req.PackageType,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(m))
}

// List は全会員の一覧を返す。
// GET /api/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]memberResponse, len(members))
	for i, m := range members {
		results[i] = toMemberResponse(m)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は会員詳細を取得する。
// GET /api/members/{id}
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	m, err := h.service.Get(r.Context(), memberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

// Delete は会員を削除する。
// DELETE /api/members/{id}
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), memberID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateDiet は会員の食事メモを更新する。
// PUT /api/members/{id}/diet
func (h *MemberHandler) UpdateDiet(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req updateDietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	m, err := h.service.UpdateDiet(r.Context(), memberID, req.DietDetails)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dietResponse{
		DietDetails:   m.DietDetails,
		DietUpdatedAt: m.DietUpdatedAt,
	})
}

// GetDiet は会員の食事メモを取得する。
// GET /api/members/{id}/diet
func (h *MemberHandler) GetDiet(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	diet, updatedAt, err := h.service.GetDiet(r.Context(), memberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dietResponse{
		DietDetails:   diet,
		DietUpdatedAt: updatedAt,
	})
}
