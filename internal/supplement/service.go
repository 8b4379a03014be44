// Package supplement は販売サプリメントのカタログ管理のドメインロジックを提供する。
package supplement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/repository"
	"github.com/hitoshi/gymman/internal/security"
)

// Service はサプリメント管理のサービス層。
type Service struct {
	repo      repository.SupplementRepository
	sanitizer security.TextSanitizerService
	logger    *slog.Logger

	now func() time.Time
}

// Option はServiceの生成オプション。
type Option func(*Service)

// WithClock は現在時刻の取得関数を差し替える。テスト用。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.SupplementRepository, sanitizer security.TextSanitizerService, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:      repo,
		sanitizer: sanitizer,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SupplementInput はサプリメントの作成・更新の入力。
type SupplementInput struct {
	Name        string
	Description string
	Price       int
	Weight      string
	ImageURL    string
}

// Create はサプリメントを登録する。名前と正の価格が必須。
// 説明はHTMLタグを除去して保存する。画像はURLのみを保存し、
// 画像データ本体は外部のオブジェクトストレージが保持する。
func (s *Service) Create(ctx context.Context, in SupplementInput) (*model.Supplement, error) {
	name := s.sanitizer.Sanitize(in.Name)
	if name == "" || in.Price <= 0 {
		return nil, model.NewSupplementFieldsRequiredError()
	}

	now := s.now()
	sp := &model.Supplement{
		ID:          uuid.NewString(),
		Name:        name,
		Description: s.sanitizer.Sanitize(in.Description),
		Price:       in.Price,
		Weight:      in.Weight,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("サプリメントの登録に失敗しました: %w", err)
	}

	s.logger.Info("サプリメントを登録しました",
		slog.String("supplement_id", sp.ID),
		slog.String("name", sp.Name),
	)
	return sp, nil
}

// Get は指定IDのサプリメントを取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Supplement, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, model.NewSupplementNotFoundError(id)
	}
	return sp, nil
}

// List は全サプリメントを登録日時降順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Supplement, error) {
	supplements, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("サプリメント一覧の取得に失敗しました: %w", err)
	}
	return supplements, nil
}

// Update はサプリメント情報を上書き更新する。存在しないIDはエラー。
func (s *Service) Update(ctx context.Context, id string, in SupplementInput) (*model.Supplement, error) {
	name := s.sanitizer.Sanitize(in.Name)
	if name == "" || in.Price <= 0 {
		return nil, model.NewSupplementFieldsRequiredError()
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.NewSupplementNotFoundError(id)
	}

	sp := &model.Supplement{
		ID:          id,
		Name:        name,
		Description: s.sanitizer.Sanitize(in.Description),
		Price:       in.Price,
		Weight:      in.Weight,
		ImageURL:    in.ImageURL,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   s.now(),
	}
	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// Delete は指定IDのサプリメントを削除する。存在しないIDはエラー。
func (s *Service) Delete(ctx context.Context, id string) error {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sp == nil {
		return model.NewSupplementNotFoundError(id)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("サプリメントの削除に失敗しました: %w", err)
	}
	s.logger.Info("サプリメントを削除しました", slog.String("supplement_id", id))
	return nil
}
