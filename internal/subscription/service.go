// Package subscription は会員ライフサイクルと課金隣接のドメインロジックを提供する。
//
// 期限切れ検出・アーカイブ・更新（リニューアル）・リマインダー送信を担う。
// バッチ操作は会員単位で失敗を隔離し、1人の処理失敗が他の会員の処理を
// 妨げないことを保証する。これはこのサブシステムで唯一の並行性に関わる保証。
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gymman/internal/catalog"
	"github.com/hitoshi/gymman/internal/metrics"
	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/repository"
)

// EmailSender は期限切れ・リマインダー通知メールの送信インターフェース。
// 送信失敗は致命的エラーとして伝播してはならない。
type EmailSender interface {
	// SendExpiryEmail は期限切れ通知メールを送信する。
	SendExpiryEmail(ctx context.Context, to, name, packageType string) error
	// SendReminderEmail は期限切れ前のリマインダーメールを送信する。
	SendReminderEmail(ctx context.Context, to, name, packageType string, daysRemaining int) error
}

// SweepError はバッチ処理中の会員単位の失敗を表す。
type SweepError struct {
	MemberID string `json:"memberId"`
	Email    string `json:"email,omitempty"`
	Error    string `json:"error"`
}

// SweepResult はバッチ処理1回分の結果を表す。
type SweepResult struct {
	ExpiredCount  int          `json:"expiredCount"`
	EmailsSent    int          `json:"emailsSent"`
	RemindersSent int          `json:"remindersSent"`
	Errors        []SweepError `json:"errors,omitempty"`
}

// RenewalResult は更新（リニューアル）操作の結果を表す。
type RenewalResult struct {
	MemberID       string    `json:"memberId"`
	NewPackageType string    `json:"newPackageType"`
	ExpiryDate     time.Time `json:"expiryDate"`
}

// MembershipStatus は会員資格の現在状態の照会結果を表す。
// 有効期限未保持の会員ではDaysRemaining/IsExpiredがnilになる。
type MembershipStatus struct {
	MemberID      string     `json:"memberId"`
	Name          string     `json:"name"`
	PackageType   string     `json:"packageType"`
	Status        string     `json:"status"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	DaysRemaining *int       `json:"daysRemaining"`
	IsExpired     *bool      `json:"isExpired"`
}

// Service は会員ライフサイクルのサービス層。
type Service struct {
	memberRepo  repository.MemberRepository
	archiveRepo repository.ArchiveRepository
	orderRepo   repository.OrderRepository
	mailer      EmailSender
	catalog     *catalog.Catalog
	logger      *slog.Logger
	collector   metrics.MetricsCollector

	// reminderWindowDays はリマインダー対象となる残り日数の上限（デフォルト7）。
	reminderWindowDays int

	// now はテストで固定時計を注入するための関数。
	now func() time.Time
}

// Option はServiceの生成オプション。
type Option func(*Service)

// WithClock は現在時刻の取得関数を差し替える。テスト用。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithReminderWindow はリマインダー対象の残り日数上限を変更する。
func WithReminderWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.reminderWindowDays = days
		}
	}
}

// WithMetrics はバッチ処理結果のメトリクス記録を有効にする。
func WithMetrics(collector metrics.MetricsCollector) Option {
	return func(s *Service) { s.collector = collector }
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	memberRepo repository.MemberRepository,
	archiveRepo repository.ArchiveRepository,
	orderRepo repository.OrderRepository,
	mailer EmailSender,
	cat *catalog.Catalog,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		memberRepo:         memberRepo,
		archiveRepo:        archiveRepo,
		orderRepo:          orderRepo,
		mailer:             mailer,
		catalog:            cat,
		logger:             logger,
		reminderWindowDays: 7,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessExpiredMemberships は全会員を走査し、期限切れの会員をアーカイブする。
//
// 会員ごとの手順: (a)アーカイブ行のUpsert、(b)ライブ行のstatus=expired化、
// (c)期限切れ通知メールの送信。アーカイブ書き込みをライブ行の更新より
// 先に行うことで、途中クラッシュ時の失敗をデータ喪失ではなく
// アーカイブ重複側に倒す。会員単位の失敗はErrorsに収集し、処理は継続する。
//
// statusとアーカイブ有無に対しては冪等だが、再実行は通知メールを再送し
// expiry_processed_atを書き直す（副作用は冪等ではない）。
func (s *Service) ProcessExpiredMemberships(ctx context.Context) (*SweepResult, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("会員一覧の取得に失敗しました: %w", err)
	}

	result := &SweepResult{}
	now := s.now()

	for _, m := range members {
		if m.ExpiryDate == nil {
			continue
		}
		if !catalog.IsExpired(now, *m.ExpiryDate) {
			continue
		}

		// (a) アーカイブ行を先に書く。スナップショットは処理直前のstatusを
		// previous_statusとして保持し、snapshot自体のstatusはexpiredにする。
		snapshot := *m
		snapshot.Status = model.StatusExpired
		archived := &model.ArchivedMember{
			Member:         snapshot,
			ArchivedAt:     now,
			PreviousStatus: m.Status,
		}
		if err := s.archiveRepo.Upsert(ctx, archived); err != nil {
			s.logger.Error("会員のアーカイブに失敗しました",
				slog.String("member_id", m.ID),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, SweepError{MemberID: m.ID, Error: err.Error()})
			continue
		}

		// (b) ライブ行のstatusを更新する。
		if err := s.memberRepo.MarkExpired(ctx, m.ID, now); err != nil {
			s.logger.Error("期限切れステータスの反映に失敗しました",
				slog.String("member_id", m.ID),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, SweepError{MemberID: m.ID, Error: err.Error()})
			continue
		}

		// (c) 通知メールを送る。送信失敗は会員単位に隔離し、処理は継続する。
		if m.Email != "" {
			if err := s.mailer.SendExpiryEmail(ctx, m.Email, m.Name, m.PackageType); err != nil {
				s.logger.Error("期限切れ通知メールの送信に失敗しました",
					slog.String("member_id", m.ID),
					slog.String("email", m.Email),
					slog.String("error", err.Error()),
				)
				result.Errors = append(result.Errors, SweepError{
					MemberID: m.ID, Email: m.Email, Error: err.Error(),
				})
			} else {
				result.EmailsSent++
			}
		}

		result.ExpiredCount++
	}

	if s.collector != nil {
		s.collector.RecordMembersArchived(result.ExpiredCount)
		s.collector.RecordExpiryEmailsSent(result.EmailsSent)
		s.collector.RecordSweepErrors(len(result.Errors))
	}

	s.logger.Info("期限切れ処理が完了しました",
		slog.Int("expired_count", result.ExpiredCount),
		slog.Int("emails_sent", result.EmailsSent),
		slog.Int("error_count", len(result.Errors)),
	)
	return result, nil
}

// SendExpiryReminders は期限切れが近い会員にリマインダーメールを送る。
//
// 対象は 0 < 残り日数 <= reminderWindowDays の会員。同じ暦日に既に送信済みの
// 場合はスキップする（スケジューラの複数回起動による同日重複送信の抑止）。
// 送信成功時のみlast_reminder_sent_dateを更新する。
func (s *Service) SendExpiryReminders(ctx context.Context) (*SweepResult, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("会員一覧の取得に失敗しました: %w", err)
	}

	result := &SweepResult{}
	now := s.now()

	for _, m := range members {
		if m.ExpiryDate == nil || m.Email == "" {
			continue
		}

		daysRemaining := catalog.DaysRemaining(now, *m.ExpiryDate)
		if daysRemaining <= 0 || daysRemaining > s.reminderWindowDays {
			continue
		}

		// 同日重複抑止: 経過時間ではなく暦日で比較する
		if m.LastReminderSentDate != nil && catalog.SameCalendarDay(*m.LastReminderSentDate, now) {
			continue
		}

		if err := s.mailer.SendReminderEmail(ctx, m.Email, m.Name, m.PackageType, daysRemaining); err != nil {
			s.logger.Error("リマインダーメールの送信に失敗しました",
				slog.String("member_id", m.ID),
				slog.String("email", m.Email),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, SweepError{
				MemberID: m.ID, Email: m.Email, Error: err.Error(),
			})
			continue
		}

		if err := s.memberRepo.UpdateLastReminderSent(ctx, m.ID, now); err != nil {
			s.logger.Error("リマインダー送信時刻の記録に失敗しました",
				slog.String("member_id", m.ID),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, SweepError{MemberID: m.ID, Error: err.Error()})
			continue
		}

		result.RemindersSent++
	}

	if s.collector != nil {
		s.collector.RecordRemindersSent(result.RemindersSent)
		s.collector.RecordSweepErrors(len(result.Errors))
	}

	s.logger.Info("リマインダー処理が完了しました",
		slog.Int("reminders_sent", result.RemindersSent),
		slog.Int("error_count", len(result.Errors)),
	)
	return result, nil
}

// RenewMembership は会員資格を更新（リニューアル）する。
//
// packageTypeは明示指定が必須で、空の場合はストア書き込みを一切行わずに
// バリデーションエラーを返す（カタログの暗黙basicフォールバックとは
// 意図的に非対称な挙動）。アーカイブ行の削除は行が存在しなくても成功扱い。
// 会員が実際にアーカイブされていたかどうかに関わらず、更新は期限切れを取り消す。
func (s *Service) RenewMembership(ctx context.Context, memberID, packageType string) (*RenewalResult, error) {
	if packageType == "" {
		return nil, model.NewPackageTypeRequiredError()
	}

	now := s.now()
	newExpiry := s.catalog.ExpiryFrom(packageType, now)

	if err := s.memberRepo.UpdateRenewal(ctx, memberID, packageType, newExpiry, now); err != nil {
		return nil, err
	}

	if err := s.archiveRepo.DeleteByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("アーカイブ行のクリーンアップに失敗しました: %w", err)
	}

	// 収益台帳への記録。価格0のパッケージ（テスト用）は記録しない。
	// 台帳書き込みの失敗で更新自体を失敗させない。
	pkg := s.catalog.DetailsOf(packageType)
	if pkg.Price > 0 && s.orderRepo != nil {
		order := &model.Order{
			ID:       "order_" + uuid.NewString(),
			MemberID: memberID,
			Items: []model.OrderItem{{
				ID:          uuid.NewString(),
				Name:        pkg.Name,
				Description: fmt.Sprintf("Membership renewal (%s)", pkg.DurationLabel),
				UnitPrice:   pkg.Price,
				Category:    model.ItemCategoryMembershipRenewal,
			}},
			TotalPrice: pkg.Price,
			Status:     model.OrderStatusConfirmed,
			PlacedAt:   now,
			UpdatedAt:  now,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			s.logger.Error("更新の収益台帳記録に失敗しました",
				slog.String("member_id", memberID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("会員資格を更新しました",
		slog.String("member_id", memberID),
		slog.String("package_type", packageType),
		slog.Time("expiry_date", newExpiry),
	)
	return &RenewalResult{
		MemberID:       memberID,
		NewPackageType: packageType,
		ExpiryDate:     newExpiry,
	}, nil
}

// Status は会員資格の現在状態を返す。
// ライブ行が存在しない場合はアーカイブからフォールバック取得する。
func (s *Service) Status(ctx context.Context, memberID string) (*MembershipStatus, error) {
	var member *model.Member

	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m != nil {
		member = m
	} else {
		archived, err := s.archiveRepo.FindByID(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if archived == nil {
			return nil, model.NewMemberNotFoundError(memberID)
		}
		member = &archived.Member
	}

	status := &MembershipStatus{
		MemberID:    memberID,
		Name:        member.Name,
		PackageType: member.PackageType,
		Status:      member.Status,
		ExpiryDate:  member.ExpiryDate,
	}
	if member.ExpiryDate != nil {
		now := s.now()
		days := catalog.DaysRemaining(now, *member.ExpiryDate)
		expired := catalog.IsExpired(now, *member.ExpiryDate)
		status.DaysRemaining = &days
		status.IsExpired = &expired
	}
	return status, nil
}

// ListArchivedMembers は期限切れアーカイブの全件をアーカイブ日時降順で返す。
func (s *Service) ListArchivedMembers(ctx context.Context) ([]*model.ArchivedMember, error) {
	archived, err := s.archiveRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アーカイブ一覧の取得に失敗しました: %w", err)
	}
	return archived, nil
}
