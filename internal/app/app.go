// Package app はアプリケーションの起動とサブコマンドのディスパッチを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/gymman/internal/catalog"
	"github.com/hitoshi/gymman/internal/config"
	"github.com/hitoshi/gymman/internal/database"
	"github.com/hitoshi/gymman/internal/email"
	"github.com/hitoshi/gymman/internal/handler"
	"github.com/hitoshi/gymman/internal/logger"
	"github.com/hitoshi/gymman/internal/member"
	"github.com/hitoshi/gymman/internal/metrics"
	"github.com/hitoshi/gymman/internal/middleware"
	"github.com/hitoshi/gymman/internal/notification"
	"github.com/hitoshi/gymman/internal/order"
	"github.com/hitoshi/gymman/internal/repository"
	"github.com/hitoshi/gymman/internal/security"
	"github.com/hitoshi/gymman/internal/subscription"
	"github.com/hitoshi/gymman/internal/supplement"
	"github.com/hitoshi/gymman/internal/worker/sweep"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// newMailer はメール送信まわりの依存を構築する。
// APIキーが未設定の場合はログ出力のみのNoopSenderにフォールバックする。
func newMailer(cfg *config.Config) *email.Mailer {
	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, slog.Default())
	} else {
		slog.Warn("RESEND_API_KEY is not set, falling back to noop email sender")
		sender = email.NewNoopSender(slog.Default())
	}
	return email.NewMailer(sender, cfg.FrontendURL)
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	memberRepo := repository.NewPostgresMemberRepo(db)
	archiveRepo := repository.NewPostgresArchiveRepo(db)
	orderRepo := repository.NewPostgresOrderRepo(db)
	notificationRepo := repository.NewPostgresNotificationRepo(db)
	supplementRepo := repository.NewPostgresSupplementRepo(db)

	// 3. 共有サービスの初期化
	cat := catalog.Default(slog.Default())
	sanitizer := security.NewTextSanitizer()
	mailer := newMailer(cfg)

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	subService := subscription.NewService(
		memberRepo, archiveRepo, orderRepo, mailer, cat, slog.Default(),
		subscription.WithReminderWindow(cfg.ReminderWindowDays),
		subscription.WithMetrics(collector),
	)
	memberService := member.NewService(memberRepo, orderRepo, sanitizer, cat, slog.Default())
	orderService := order.NewService(orderRepo, memberRepo, slog.Default())
	notificationService := notification.NewService(notificationRepo, sanitizer, slog.Default())
	supplementService := supplement.NewService(supplementRepo, sanitizer, slog.Default())

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.DefaultRateLimiterConfig(cfg.RateLimitGeneral),
	)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		HealthChecker: db,
		Gatherer:      registry,

		SubscriptionService: subService,
		MemberService:       memberService,
		OrderService:        orderService,
		NotificationService: notificationService,
		SupplementService:   supplementService,
		Catalog:             cat,
	})

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はスイープワーカーモードで起動する。
// DB接続を開き、期限切れ処理とリマインダー送信の日次スケジューラを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. リポジトリの初期化
	memberRepo := repository.NewPostgresMemberRepo(db)
	archiveRepo := repository.NewPostgresArchiveRepo(db)
	orderRepo := repository.NewPostgresOrderRepo(db)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. サービスの初期化
	cat := catalog.Default(slog.Default())
	mailer := newMailer(cfg)
	subService := subscription.NewService(
		memberRepo, archiveRepo, orderRepo, mailer, cat, slog.Default(),
		subscription.WithReminderWindow(cfg.ReminderWindowDays),
		subscription.WithMetrics(collector),
	)

	// 5. スケジューラの起動
	scheduler := sweep.NewScheduler(
		subService, collector, slog.Default(),
		cfg.ExpirySweepHour, cfg.ReminderSweepHour,
	)

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Int("expiry_sweep_hour", cfg.ExpirySweepHour),
		slog.Int("reminder_sweep_hour", cfg.ReminderSweepHour),
	)

	// Prometheusスクレイプとヘルスチェック用の軽量HTTPサーバー
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := &http.Server{Addr: ":" + cfg.ServerPort, Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server listen error", slog.String("error", err.Error()))
		}
	}()
	defer metricsServer.Close()

	// スケジューラをメインgoroutineで実行（ブロッキング）
	scheduler.Start(ctx)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
