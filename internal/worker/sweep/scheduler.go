// Package sweep は会員ライフサイクルの日次バッチ処理を提供する。
//
// 期限切れ処理とリマインダー送信の2つのジョブを、それぞれ設定された
// 時刻（時単位）に毎日1回ずつ実行する。
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/gymman/internal/metrics"
	"github.com/hitoshi/gymman/internal/subscription"
)

// SweepService はバッチ処理の実行インターフェース。
type SweepService interface {
	// ProcessExpiredMemberships は期限切れ会員のアーカイブ処理を実行する。
	ProcessExpiredMemberships(ctx context.Context) (*subscription.SweepResult, error)
	// SendExpiryReminders は期限切れが近い会員へのリマインダー送信を実行する。
	SendExpiryReminders(ctx context.Context) (*subscription.SweepResult, error)
}

// Scheduler は日次バッチの起動時刻管理と実行を行う。
// 各ジョブは独立したタイマーで駆動され、実行中のジョブは
// コンテキストキャンセル後も完走してから停止する。
type Scheduler struct {
	service   SweepService
	collector metrics.MetricsCollector
	logger    *slog.Logger

	expiryHour   int // 期限切れ処理の起動時刻（0〜23時）
	reminderHour int // リマインダー送信の起動時刻（0〜23時）

	now func() time.Time
}

// Option はSchedulerの生成オプション。
type Option func(*Scheduler)

// WithClock は現在時刻の取得関数を差し替える。テスト用。
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// collectorはnilの場合メトリクス記録をスキップする。
func NewScheduler(
	service SweepService,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	expiryHour, reminderHour int,
	opts ...Option,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		service:      service,
		collector:    collector,
		logger:       logger,
		expiryHour:   expiryHour,
		reminderHour: reminderHour,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start は両方の日次ジョブを起動する。
// コンテキストがキャンセルされるまでブロックする。
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("スイープスケジューラを開始しました",
		slog.Int("expiry_hour", s.expiryHour),
		slog.Int("reminder_hour", s.reminderHour),
	)

	go s.runDaily(ctx, "expiry", s.expiryHour, s.RunExpirySweep)
	s.runDaily(ctx, "reminder", s.reminderHour, s.RunReminderSweep)
}

// runDaily は指定時刻に毎日1回ジョブを実行するループ。
// ティッカーではなくタイマーの張り直しで駆動する（起動時刻固定のため）。
func (s *Scheduler) runDaily(ctx context.Context, job string, hour int, run func(ctx context.Context)) {
	for {
		wait := s.untilNext(hour)
		s.logger.Info("次回実行まで待機します",
			slog.String("job", job),
			slog.Duration("wait", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("スイープスケジューラを停止しました", slog.String("job", job))
			return
		case <-timer.C:
			run(ctx)
		}
	}
}

// untilNext は次に指定時刻を迎えるまでの待機時間を返す。
// 今日の指定時刻を過ぎている場合は翌日の同時刻まで待つ。
func (s *Scheduler) untilNext(hour int) time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

// RunExpirySweep は期限切れ処理を1回実行し、結果をメトリクスに記録する。
func (s *Scheduler) RunExpirySweep(ctx context.Context) {
	start := time.Now()

	result, err := s.service.ProcessExpiredMemberships(ctx)
	if err != nil {
		s.logger.Error("期限切れ処理の実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("期限切れスイープが完了しました",
		slog.Int("expired_count", result.ExpiredCount),
		slog.Int("error_count", len(result.Errors)),
	)
	if s.collector != nil {
		s.collector.RecordSweepDuration("expiry", time.Since(start))
	}
}

// RunReminderSweep はリマインダー送信を1回実行し、結果をメトリクスに記録する。
func (s *Scheduler) RunReminderSweep(ctx context.Context) {
	start := time.Now()

	result, err := s.service.SendExpiryReminders(ctx)
	if err != nil {
		s.logger.Error("リマインダー送信の実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("リマインダースイープが完了しました",
		slog.Int("reminders_sent", result.RemindersSent),
		slog.Int("error_count", len(result.Errors)),
	)
	if s.collector != nil {
		s.collector.RecordSweepDuration("reminder", time.Since(start))
	}
}
