// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Email
	ResendAPIKey string
	EmailFrom    string
	FrontendURL  string

	// Sweep
	ExpirySweepHour    int
	ReminderSweepHour  int
	ReminderWindowDays int

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	// RESEND_API_KEYが未設定の場合、メール送信はNoopSenderにフォールバックする
	cfg.ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	cfg.EmailFrom = getEnvString("EMAIL_FROM", "Gym Management <noreply@gymman.example.com>")
	cfg.FrontendURL = getEnvString("FRONTEND_URL", "http://localhost:5173")
	cfg.ExpirySweepHour = getEnvInt("EXPIRY_SWEEP_HOUR", 2)
	cfg.ReminderSweepHour = getEnvInt("REMINDER_SWEEP_HOUR", 9)
	cfg.ReminderWindowDays = getEnvInt("REMINDER_WINDOW_DAYS", 7)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	if cfg.ExpirySweepHour < 0 || cfg.ExpirySweepHour > 23 {
		return nil, fmt.Errorf("EXPIRY_SWEEP_HOUR must be in 0-23, got %d", cfg.ExpirySweepHour)
	}
	if cfg.ReminderSweepHour < 0 || cfg.ReminderSweepHour > 23 {
		return nil, fmt.Errorf("REMINDER_SWEEP_HOUR must be in 0-23, got %d", cfg.ReminderSweepHour)
	}
	if cfg.ReminderWindowDays <= 0 {
		return nil, fmt.Errorf("REMINDER_WINDOW_DAYS must be positive, got %d", cfg.ReminderWindowDays)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
