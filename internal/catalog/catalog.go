// Package catalog は会員パッケージの定義表と有効期限計算を提供する。
//
// カタログはプロセス起動時に構築されるイミュータブルな値であり、
// グローバル変数ではなく依存として各サービスに注入する。
package catalog

import (
	"log/slog"
	"time"
)

// パッケージ識別子。
const (
	PackageBasic       = "basic"
	PackageThreeMonths = "3months"
	PackageSixMonths   = "6months"
	PackageFullYear    = "fullYear"
	// PackageTest3Min は期限切れロジックを日数待たずに検証するためのテスト専用パッケージ。
	PackageTest3Min = "test_3min"
)

// Package は1つの会員パッケージの定義を表す。
type Package struct {
	Type          string
	Name          string
	Duration      time.Duration
	DurationLabel string
	Price         int // 通貨最小単位の非負整数。決済は行わず帳簿記録のみ。
}

// Catalog はパッケージ識別子から定義への変換表。イミュータブルとして扱う。
type Catalog struct {
	packages map[string]Package
	logger   *slog.Logger
}

// Default は本番構成のカタログを返す。
func Default(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		logger: logger,
		packages: map[string]Package{
			PackageBasic: {
				Type:          PackageBasic,
				Name:          "Basic (Monthly)",
				Duration:      30 * 24 * time.Hour,
				DurationLabel: "30 days",
				Price:         999,
			},
			PackageThreeMonths: {
				Type:          PackageThreeMonths,
				Name:          "3 Months Package",
				Duration:      90 * 24 * time.Hour,
				DurationLabel: "90 days",
				Price:         2799,
			},
			PackageSixMonths: {
				Type:          PackageSixMonths,
				Name:          "6 Months Package",
				Duration:      180 * 24 * time.Hour,
				DurationLabel: "180 days",
				Price:         5099,
			},
			PackageFullYear: {
				Type:          PackageFullYear,
				Name:          "Full Year Package",
				Duration:      365 * 24 * time.Hour,
				DurationLabel: "365 days",
				Price:         8999,
			},
			PackageTest3Min: {
				Type:          PackageTest3Min,
				Name:          "Test Package (3 Minutes)",
				Duration:      3 * time.Minute,
				DurationLabel: "3 minutes",
				Price:         0,
			},
		},
	}
}

// DetailsOf は指定識別子のパッケージ定義を返す。
// 未知の識別子はbasicの定義にフォールバックする。フォールバックは
// 識別子の打ち間違いを隠す恐れがあるため警告ログを必ず出す。
func (c *Catalog) DetailsOf(packageType string) Package {
	if p, ok := c.packages[packageType]; ok {
		return p
	}
	c.logger.Warn("unknown package type, falling back to basic",
		slog.String("package_type", packageType),
	)
	return c.packages[PackageBasic]
}

// DurationOf は指定識別子のパッケージ期間を返す。未知の識別子はbasicの期間を返す。
func (c *Catalog) DurationOf(packageType string) time.Duration {
	return c.DetailsOf(packageType).Duration
}

// Known は識別子がカタログに定義されているかどうかを返す。
func (c *Catalog) Known(packageType string) bool {
	_, ok := c.packages[packageType]
	return ok
}

// All は全パッケージ定義を表示順で返す。
func (c *Catalog) All() []Package {
	order := []string{
		PackageBasic, PackageThreeMonths, PackageSixMonths,
		PackageFullYear, PackageTest3Min,
	}
	result := make([]Package, 0, len(order))
	for _, t := range order {
		result = append(result, c.packages[t])
	}
	return result
}
