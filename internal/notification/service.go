// Package notification は管理者からのお知らせ管理のドメインロジックを提供する。
package notification

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

// Service はお知らせ管理のサービス層。
type Service struct {
	repo      repository.NotificationRepository
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
func NewService(repo repository.NotificationRepository, sanitizer security.TextSanitizerService, logger *slog.Logger, opts ...Option) *Service {
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

// Create はお知らせを作成する。タイトルと本文は必須で、HTMLタグを除去して保存する。
// サニタイズ後に空になる入力は未入力として扱う。
func (s *Service) Create(ctx context.Context, title, description string) (*model.Notification, error) {
	title = s.sanitizer.Sanitize(title)
	description = s.sanitizer.Sanitize(description)
	if title == "" || description == "" {
		return nil, model.NewNotificationFieldsRequiredError()
	}

	n := &model.Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("お知らせの作成に失敗しました: %w", err)
	}

	s.logger.Info("お知らせを作成しました", slog.String("notification_id", n.ID))
	return n, nil
}

// List は全お知らせを作成日時降順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Notification, error) {
	notifications, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("お知らせ一覧の取得に失敗しました: %w", err)
	}
	return notifications, nil
}

// Delete は指定IDのお知らせを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("お知らせの削除に失敗しました: %w", err)
	}
	return nil
}
