package catalog

import (
	"math"
	"time"
)

// ExpiryFrom は開始時刻とパッケージ期間から有効期限を計算する。
// 入力が同じであれば常に同じ結果を返す純粋関数。
func (c *Catalog) ExpiryFrom(packageType string, start time.Time) time.Time {
	return start.Add(c.DurationOf(packageType))
}

// IsExpired は有効期限を過ぎているかどうかを返す。
// 境界は排他: now == expiry は期限切れではない。
func IsExpired(now, expiry time.Time) bool {
	return now.After(expiry)
}

// DaysRemaining は有効期限までの残り日数を切り上げで返す。
// 期限切れの場合は負数になる。境界瞬間ではIsExpiredと判定が一致しない。
func DaysRemaining(now, expiry time.Time) int {
	diff := expiry.Sub(now)
	return int(math.Ceil(float64(diff) / float64(24*time.Hour)))
}

// SameCalendarDay は2つの時刻が同じ暦日（ローカル時刻基準）かどうかを返す。
// リマインダーの同日重複抑止に使用する。経過時間ではなく暦日で比較する。
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
