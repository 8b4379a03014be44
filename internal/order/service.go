// Package order は注文台帳のドメインロジックを提供する。
//
// 台帳は会費（入会・更新）とサプリメント購入の両方を記録する。
// 決済処理は行わず、金額の帳簿記録と受け渡し状態の管理のみを担う。
package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gymman/internal/catalog"
	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/repository"
)

// Service は注文管理のサービス層。
type Service struct {
	orderRepo  repository.OrderRepository
	memberRepo repository.MemberRepository
	logger     *slog.Logger

	now func() time.Time
}

// Option はServiceの生成オプション。
type Option func(*Service)

// WithClock は現在時刻の取得関数を差し替える。テスト用。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(orderRepo repository.OrderRepository, memberRepo repository.MemberRepository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		orderRepo:  orderRepo,
		memberRepo: memberRepo,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrderInput は注文作成の入力。
type PlaceOrderInput struct {
	MemberID string
	Items    []model.OrderItem
}

// Place は会員のサプリメント注文を作成する。
//
// 会員IDと1件以上の品目が必須。品目は名前と正の単価を持たなければならない。
// 合計金額は品目の単価から計算し、入力の合計値は信用しない。
// 注文は有効な会員資格を持つ会員に対してのみ作成できる。
func (s *Service) Place(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	if in.MemberID == "" || len(in.Items) == 0 {
		return nil, model.NewOrderFieldsRequiredError()
	}
	for _, item := range in.Items {
		if item.Name == "" || item.UnitPrice <= 0 {
			return nil, model.NewOrderFieldsRequiredError()
		}
	}

	m, err := s.memberRepo.FindByID(ctx, in.MemberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.NewMemberNotFoundError(in.MemberID)
	}

	now := s.now()
	if m.ExpiryDate != nil && catalog.IsExpired(now, *m.ExpiryDate) {
		return nil, model.NewMembershipExpiredError()
	}
	if m.Phase() != model.PhaseActive {
		return nil, model.NewMembershipInactiveError(m.Status)
	}

	total := 0
	items := make([]model.OrderItem, len(in.Items))
	for i, item := range in.Items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Category == "" {
			item.Category = model.ItemCategorySupplement
		}
		items[i] = item
		total += item.UnitPrice
	}

	order := &model.Order{
		ID:         "order_" + uuid.NewString(),
		MemberID:   in.MemberID,
		Items:      items,
		TotalPrice: total,
		Status:     model.OrderStatusConfirmed,
		PlacedAt:   now,
		UpdatedAt:  now,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("注文の作成に失敗しました: %w", err)
	}

	s.logger.Info("注文を作成しました",
		slog.String("order_id", order.ID),
		slog.String("member_id", in.MemberID),
		slog.Int("total_price", total),
	)
	return order, nil
}

// Get は指定IDの注文を取得する。
func (s *Service) Get(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}
	return o, nil
}

// ListByMember は指定会員の注文一覧を注文日時降順で返す。
func (s *Service) ListByMember(ctx context.Context, memberID string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("注文一覧の取得に失敗しました: %w", err)
	}
	return orders, nil
}

// ListAll は全注文を会員情報付きで返す。管理者の台帳画面用。
// 会員が削除済みの注文も台帳には残り、氏名・メールアドレスは "N/A" で返る。
func (s *Service) ListAll(ctx context.Context) ([]repository.OrderWithMember, error) {
	orders, err := s.orderRepo.ListAllWithMember(ctx)
	if err != nil {
		return nil, fmt.Errorf("注文台帳の取得に失敗しました: %w", err)
	}
	for i := range orders {
		if orders[i].MemberName == "" {
			orders[i].MemberName = "N/A"
		}
		if orders[i].MemberEmail == "" {
			orders[i].MemberEmail = "N/A"
		}
	}
	return orders, nil
}

// UpdateStatus は注文の受け渡し状態を更新する。
// 許容値はconfirmed/collected/rejectedのみ。
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, model.NewInvalidOrderStatusError(status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatus(status), s.now()); err != nil {
		return nil, err
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}
	return o, nil
}

// Delete は指定IDの注文を削除する。存在しない注文の削除はエラー。
func (s *Service) Delete(ctx context.Context, orderID string) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return model.NewOrderNotFoundError(orderID)
	}
	if err := s.orderRepo.DeleteByID(ctx, orderID); err != nil {
		return fmt.Errorf("注文の削除に失敗しました: %w", err)
	}
	s.logger.Info("注文を削除しました", slog.String("order_id", orderID))
	return nil
}
