package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/supplement"
)

// SupplementServiceInterface はサプリメントハンドラーが必要とするサービスインターフェース。
type SupplementServiceInterface interface {
	// Create はサプリメントを登録する。
	Create(ctx context.Context, in supplement.SupplementInput) (*model.Supplement, error)
	// Get は指定IDのサプリメントを取得する。
	Get(ctx context.Context, id string) (*model.Supplement, error)
	// List は全サプリメントを返す。
	List(ctx context.Context) ([]*model.Supplement, error)
	// Update はサプリメント情報を更新する。
	Update(ctx context.Context, id string, in supplement.SupplementInput) (*model.Supplement, error)
	// Delete は指定IDのサプリメントを削除する。
	Delete(ctx context.Context, id string) error
}

// SupplementHandler はサプリメント管理のHTTPハンドラー。
type SupplementHandler struct {
	service SupplementServiceInterface
}

// NewSupplementHandler はSupplementHandlerを生成する。
func NewSupplementHandler(service SupplementServiceInterface) *SupplementHandler {
	return &SupplementHandler{service: service}
}

// supplementRequest はサプリメント作成・更新リクエストのボディ。
type supplementRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Weight      string `json:"weight"`
	ImageURL    string `json:"imageUrl"`
}

// supplementResponse はサプリメントのAPIレスポンス。
type supplementResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Weight      string    `json:"weight"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toSupplementResponse(sp *model.Supplement) supplementResponse {
	return supplementResponse{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Price:       sp.Price,
		Weight:      sp.Weight,
		ImageURL:    sp.ImageURL,
		CreatedAt:   sp.CreatedAt,
		UpdatedAt:   sp.UpdatedAt,
	}
}

func (r supplementRequest) toInput() supplement.SupplementInput {
	return supplement.SupplementInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Weight:      r.Weight,
		ImageURL:    r.ImageURL,
	}
}

// Create はサプリメント登録を処理する。
// POST /api/supplements
func (h *SupplementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req supplementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	sp, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSupplementResponse(sp))
}

// List は全サプリメントの一覧を返す。
// GET /api/supplements
func (h *SupplementHandler) List(w http.ResponseWriter, r *http.Request) {
	supplements, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]supplementResponse, len(supplements))
	for i, sp := range supplements {
		results[i] = toSupplementResponse(sp)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get はサプリメント詳細を取得する。
// GET /api/supplements/{id}
func (h *SupplementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sp, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSupplementResponse(sp))
}

// Update はサプリメント情報を更新する。
// PUT /api/supplements/{id}
func (h *SupplementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req supplementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	sp, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSupplementResponse(sp))
}

// Delete はサプリメントを削除する。
// DELETE /api/supplements/{id}
func (h *SupplementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
