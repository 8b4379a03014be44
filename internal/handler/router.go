package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/gymman/internal/catalog"
	"github.com/hitoshi/gymman/internal/metrics"
	"github.com/hitoshi/gymman/internal/middleware"
)

// HealthChecker はヘルスチェックでの死活確認に使うインターフェース。
// *sql.DBがそのまま適合する。
type HealthChecker interface {
	Ping() error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ヘルスチェック・メトリクス
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer

	// ドメインサービス
	SubscriptionService SubscriptionServiceInterface
	MemberService       MemberServiceInterface
	OrderService        OrderServiceInterface
	NotificationService NotificationServiceInterface
	SupplementService   SupplementServiceInterface
	Catalog             *catalog.Catalog
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → RateLimit
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))

	subHandler := NewSubscriptionHandler(deps.SubscriptionService)
	memberHandler := NewMemberHandler(deps.MemberService)
	orderHandler := NewOrderHandler(deps.OrderService)
	notificationHandler := NewNotificationHandler(deps.NotificationService)
	supplementHandler := NewSupplementHandler(deps.SupplementService)
	catalogHandler := NewCatalogHandler(deps.Catalog)

	// --- 運用エンドポイント（レート制限の外） ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.Ping(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIルート ---

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware())

		// 会員ライフサイクル
		r.Route("/api/subscription", func(r chi.Router) {
			r.Post("/process-expired", subHandler.ProcessExpired)
			r.Post("/send-reminders", subHandler.SendReminders)
			r.Get("/expired-members", subHandler.ListExpiredMembers)
			r.Put("/renew/{memberId}", subHandler.Renew)
			r.Get("/status/{memberId}", subHandler.Status)
		})

		// パッケージカタログ
		r.Get("/api/packages", catalogHandler.List)

		// 会員管理
		r.Route("/api/members", func(r chi.Router) {
			r.Post("/", memberHandler.Create)
			r.Get("/", memberHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", memberHandler.Get)
				r.Delete("/", memberHandler.Delete)
				r.Put("/diet", memberHandler.UpdateDiet)
				r.Get("/diet", memberHandler.GetDiet)

				// GET /api/members/{id}/orders - 会員ごとの注文一覧
				r.Get("/orders", orderHandler.ListByMember)
			})
		})

		// 注文台帳
		r.Route("/api/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Place)
			r.Get("/", orderHandler.ListAll)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", orderHandler.Get)
				r.Put("/status", orderHandler.UpdateStatus)
				r.Delete("/", orderHandler.Delete)
			})
		})

		// お知らせ
		r.Route("/api/notifications", func(r chi.Router) {
			r.Post("/", notificationHandler.Create)
			r.Get("/", notificationHandler.List)
			r.Delete("/{id}", notificationHandler.Delete)
		})

		// サプリメント
		r.Route("/api/supplements", func(r chi.Router) {
			r.Post("/", supplementHandler.Create)
			r.Get("/", supplementHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", supplementHandler.Get)
				r.Put("/", supplementHandler.Update)
				r.Delete("/", supplementHandler.Delete)
			})
		})
	})

	return r
}
