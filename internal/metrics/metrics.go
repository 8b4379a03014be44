// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// スケジューラやサービス層から利用する。
type MetricsCollector interface {
	RecordMembersArchived(count int)
	RecordExpiryEmailsSent(count int)
	RecordRemindersSent(count int)
	RecordSweepErrors(count int)
	RecordSweepDuration(job string, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	membersArchived  prometheus.Counter
	expiryEmailsSent prometheus.Counter
	remindersSent    prometheus.Counter
	sweepErrors      prometheus.Counter
	sweepDuration    *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		membersArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gymman_members_archived_total",
			Help: "期限切れ処理でアーカイブされた会員の合計数",
		}),
		expiryEmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gymman_expiry_emails_sent_total",
			Help: "送信された期限切れ通知メールの合計数",
		}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gymman_reminders_sent_total",
			Help: "送信されたリマインダーメールの合計数",
		}),
		sweepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gymman_sweep_errors_total",
			Help: "バッチ処理中の会員単位エラーの合計数",
		}),
		sweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gymman_sweep_duration_seconds",
			Help:    "バッチ処理1回分の所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}

	reg.MustRegister(
		c.membersArchived,
		c.expiryEmailsSent,
		c.remindersSent,
		c.sweepErrors,
		c.sweepDuration,
	)

	return c
}

// RecordMembersArchived はアーカイブされた会員数を記録する。
func (c *Collector) RecordMembersArchived(count int) {
	c.membersArchived.Add(float64(count))
}

// RecordExpiryEmailsSent は期限切れ通知メールの送信数を記録する。
func (c *Collector) RecordExpiryEmailsSent(count int) {
	c.expiryEmailsSent.Add(float64(count))
}

// RecordRemindersSent はリマインダーメールの送信数を記録する。
func (c *Collector) RecordRemindersSent(count int) {
	c.remindersSent.Add(float64(count))
}

// RecordSweepErrors は会員単位エラーの件数を記録する。
func (c *Collector) RecordSweepErrors(count int) {
	c.sweepErrors.Add(float64(count))
}

// RecordSweepDuration はバッチ処理の所要時間をジョブ種別ごとに記録する。
func (c *Collector) RecordSweepDuration(job string, duration time.Duration) {
	c.sweepDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
