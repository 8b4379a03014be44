// Package model はドメインモデルを定義する。
package model

import "time"

// Notification は管理者からのお知らせを表す。
// 会員向けUIが一覧をポーリングして表示する。
type Notification struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

// Supplement は販売サプリメントを表す。
// 画像データ本体は外部のオブジェクトストレージが保持し、本システムはURLのみを保存する。
type Supplement struct {
	ID          string
	Name        string
	Description string
	Price       int
	Weight      string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
