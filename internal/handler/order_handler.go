package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/order"
	"github.com/hitoshi/gymman/internal/repository"
)

// OrderServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	// Place は会員の注文を作成する。
	Place(ctx context.Context, in order.PlaceOrderInput) (*model.Order, error)
	// Get は指定IDの注文を取得する。
	Get(ctx context.Context, orderID string) (*model.Order, error)
	// ListByMember は指定会員の注文一覧を返す。
	ListByMember(ctx context.Context, memberID string) ([]*model.Order, error)
	// ListAll は全注文を会員情報付きで返す。
	ListAll(ctx context.Context) ([]repository.OrderWithMember, error)
	// UpdateStatus は注文の受け渡し状態を更新する。
	UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error)
	// Delete は指定IDの注文を削除する。
	Delete(ctx context.Context, orderID string) error
}

// OrderHandler は注文台帳のHTTPハンドラー。
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// orderItemPayload は注文品目のリクエスト・レスポンス共通フォーマット。
type orderItemPayload struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitPrice   int    `json:"unitPrice"`
	Category    string `json:"category,omitempty"`
}

// placeOrderRequest は注文作成リクエストのボディ。
type placeOrderRequest struct {
	MemberID string             `json:"memberId"`
	Items    []orderItemPayload `json:"items"`
}

// updateOrderStatusRequest は注文ステータス更新リクエストのボディ。
type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// orderResponse は注文のAPIレスポンス。
type orderResponse struct {
	ID          string             `json:"id"`
	MemberID    string             `json:"memberId"`
	Items       []orderItemPayload `json:"items"`
	TotalPrice  int                `json:"totalPrice"`
	Status      string             `json:"status"`
	PlacedAt    time.Time          `json:"placedAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	MemberName  string             `json:"memberName,omitempty"`
	MemberEmail string             `json:"memberEmail,omitempty"`
}

func toOrderResponse(o *model.Order) orderResponse {
	items := make([]orderItemPayload, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemPayload{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Category:    item.Category,
		}
	}
	return orderResponse{
		ID:         o.ID,
		MemberID:   o.MemberID,
		Items:      items,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		PlacedAt:   o.PlacedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// Place は注文作成を処理する。
// POST /api/orders
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItem{
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Category:    item.Category,
		}
	}

	o, err := h.service.Place(r.Context(), order.PlaceOrderInput{
		MemberID: req.MemberID,
		Items:    items,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// ListAll は全注文を会員情報付きで返す。管理者の台帳画面用。
// GET /api/orders
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp := toOrderResponse(&o.Order)
		resp.MemberName = o.MemberName
		resp.MemberEmail = o.MemberEmail
		results[i] = resp
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は注文詳細を取得する。
// GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	o, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// ListByMember は指定会員の注文一覧を返す。
// GET /api/members/{id}/orders
func (h *OrderHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	orders, err := h.service.ListByMember(r.Context(), memberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]orderResponse, len(orders))
	for i, o := range orders {
		results[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, results)
}

// UpdateStatus は注文の受け渡し状態を更新する。
// PUT /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// Delete は注文を削除する。
// DELETE /api/orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), orderID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
