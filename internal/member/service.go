// Package member は会員のCRUDと食事メモ管理のドメインロジックを提供する。
package member

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gymman/internal/catalog"
	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/repository"
	"github.com/hitoshi/gymman/internal/security"
)

// Service は会員管理のサービス層。
type Service struct {
	memberRepo repository.MemberRepository
	orderRepo  repository.OrderRepository
	sanitizer  security.TextSanitizerService
	catalog    *catalog.Catalog
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
func NewService(
	memberRepo repository.MemberRepository,
	orderRepo repository.OrderRepository,
	sanitizer security.TextSanitizerService,
	cat *catalog.Catalog,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		memberRepo: memberRepo,
		orderRepo:  orderRepo,
		sanitizer:  sanitizer,
		catalog:    cat,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMemberInput は会員登録の入力。
// IDは外部の認証基盤が発行するアカウントIDをそのまま受け取る。
type CreateMemberInput struct {
	ID          string
	Email       string
	Name        string
	PackageType string
}

// Create は会員を登録する。
//
// ID・名前・メールアドレスは必須。packageType未指定はbasic扱いになる
// （更新操作の必須バリデーションとは異なり、新規登録は暗黙デフォルトを許す）。
// 有料パッケージの場合は入会金を収益台帳に記録する。台帳書き込みの失敗で
// 登録自体を失敗させない。
func (s *Service) Create(ctx context.Context, in CreateMemberInput) (*model.Member, error) {
	if in.ID == "" || in.Name == "" || in.Email == "" {
		return nil, model.NewMemberFieldsRequiredError()
	}

	packageType := in.PackageType
	if packageType == "" {
		packageType = catalog.PackageBasic
	}
	pkg := s.catalog.DetailsOf(packageType)

	now := s.now()
	expiry := s.catalog.ExpiryFrom(packageType, now)
	m := &model.Member{
		ID:          in.ID,
		Email:       in.Email,
		Name:        in.Name,
		PackageType: packageType,
		Status:      model.StatusActive,
		JoinedAt:    now,
		ExpiryDate:  &expiry,
	}
	if err := s.memberRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("会員の登録に失敗しました: %w", err)
	}

	if pkg.Price > 0 && s.orderRepo != nil {
		order := &model.Order{
			ID:       "order_" + uuid.NewString(),
			MemberID: m.ID,
			Items: []model.OrderItem{{
				ID:          uuid.NewString(),
				Name:        pkg.Name,
				Description: fmt.Sprintf("Membership (%s)", pkg.DurationLabel),
				UnitPrice:   pkg.Price,
				Category:    model.ItemCategoryMembership,
			}},
			TotalPrice: pkg.Price,
			Status:     model.OrderStatusConfirmed,
			PlacedAt:   now,
			UpdatedAt:  now,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			s.logger.Error("入会の収益台帳記録に失敗しました",
				slog.String("member_id", m.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("会員を登録しました",
		slog.String("member_id", m.ID),
		slog.String("package_type", packageType),
	)
	return m, nil
}

// Get は指定IDの会員を取得する。
func (s *Service) Get(ctx context.Context, memberID string) (*model.Member, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.NewMemberNotFoundError(memberID)
	}
	return m, nil
}

// List は全会員を登録日時昇順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Member, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("会員一覧の取得に失敗しました: %w", err)
	}
	return members, nil
}

// Delete は指定IDの会員を削除する。存在しない会員の削除はエラー。
func (s *Service) Delete(ctx context.Context, memberID string) error {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return err
	}
	if m == nil {
		return model.NewMemberNotFoundError(memberID)
	}
	if err := s.memberRepo.DeleteByID(ctx, memberID); err != nil {
		return fmt.Errorf("会員の削除に失敗しました: %w", err)
	}
	s.logger.Info("会員を削除しました", slog.String("member_id", memberID))
	return nil
}

// UpdateDiet は会員の食事メモを更新する。
//
// 有効な会員資格を持つ会員のみ更新できる。期限切れの会員には
// MEMBERSHIP_EXPIRED、それ以外の無効statusにはMEMBERSHIP_INACTIVEを返す。
// メモはHTMLタグを除去して保存する。サニタイズ後に空になる入力は
// 未入力として扱う。
func (s *Service) UpdateDiet(ctx context.Context, memberID, dietDetails string) (*model.Member, error) {
	sanitized := s.sanitizer.Sanitize(dietDetails)
	if sanitized == "" {
		return nil, model.NewDietRequiredError()
	}

	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.NewMemberNotFoundError(memberID)
	}

	now := s.now()
	if m.ExpiryDate != nil && catalog.IsExpired(now, *m.ExpiryDate) {
		return nil, model.NewMembershipExpiredError()
	}
	if m.Phase() != model.PhaseActive {
		return nil, model.NewMembershipInactiveError(m.Status)
	}

	if err := s.memberRepo.UpdateDiet(ctx, memberID, sanitized, now); err != nil {
		return nil, fmt.Errorf("食事メモの更新に失敗しました: %w", err)
	}

	m.DietDetails = sanitized
	m.DietUpdatedAt = &now
	return m, nil
}

// GetDiet は会員の食事メモを返す。
func (s *Service) GetDiet(ctx context.Context, memberID string) (string, *time.Time, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return "", nil, err
	}
	if m == nil {
		return "", nil, model.NewMemberNotFoundError(memberID)
	}
	return m.DietDetails, m.DietUpdatedAt, nil
}
