// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/gymman/internal/model"
)

// MemberRepository は会員データの永続化インターフェース。
// 管理者のHTTP操作とスケジュール実行のスイープが同一レコードに並行して
// 書き込むことがある。ロックやバージョニングは行わず、不整合は次回の
// スイープが保存済みの最新状態から再評価することで自己修復する。
type MemberRepository interface {
	// FindByID は指定IDの会員を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Member, error)

	// List は全会員を登録日時昇順で返す。
	List(ctx context.Context) ([]*model.Member, error)

	// Create は会員を作成する。
	Create(ctx context.Context, member *model.Member) error

	// MarkExpired は会員のstatusをexpiredにし、expiry_processed_atを記録する。
	MarkExpired(ctx context.Context, id string, processedAt time.Time) error

	// UpdateLastReminderSent は最終リマインダー送信時刻を記録する。
	UpdateLastReminderSent(ctx context.Context, id string, sentAt time.Time) error

	// UpdateRenewal は更新（リニューアル）結果を反映する。
	// packageType、expiry_date、status=active、last_renewal_dateを同時に更新する。
	UpdateRenewal(ctx context.Context, id, packageType string, expiry, renewedAt time.Time) error

	// UpdateDiet は食事メモと記録時刻を更新する。
	UpdateDiet(ctx context.Context, id, dietDetails string, updatedAt time.Time) error

	// DeleteByID は指定IDの会員を削除する。
	DeleteByID(ctx context.Context, id string) error
}

// ArchiveRepository は期限切れ会員アーカイブの永続化インターフェース。
// アーカイブ行は会員IDをキーとするスナップショットであり、Processorのみが作成する。
type ArchiveRepository interface {
	// Upsert はアーカイブ行を会員IDキーで冪等に書き込む。
	// 既に存在する場合は同一キーの行を上書きし、行を増やさない。
	Upsert(ctx context.Context, archived *model.ArchivedMember) error

	// FindByID は指定会員IDのアーカイブ行を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, memberID string) (*model.ArchivedMember, error)

	// List は全アーカイブ行をアーカイブ日時降順で返す。
	List(ctx context.Context) ([]*model.ArchivedMember, error)

	// DeleteByID は指定会員IDのアーカイブ行を削除する。
	// 行が存在しない場合もエラーにしない（更新時のクリーンアップはno-opで成功扱い）。
	DeleteByID(ctx context.Context, memberID string) error
}

// OrderRepository は注文台帳の永続化インターフェース。
type OrderRepository interface {
	// Create は注文と品目を同一トランザクションで作成する。
	Create(ctx context.Context, order *model.Order) error

	// FindByID は指定IDの注文を品目付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// ListByMemberID は指定会員の注文一覧をplaced_at降順で返す。
	ListByMemberID(ctx context.Context, memberID string) ([]*model.Order, error)

	// ListAllWithMember は全注文を会員の氏名・メールアドレス付きで返す。
	// 会員が削除済みの場合は氏名・メールアドレスが空文字になる。
	ListAllWithMember(ctx context.Context) ([]OrderWithMember, error)

	// UpdateStatus は注文ステータスとupdated_atを更新する。
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, updatedAt time.Time) error

	// DeleteByID は指定IDの注文を削除する。品目はCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// OrderWithMember は注文と会員情報を結合した構造体。
type OrderWithMember struct {
	model.Order
	MemberName  string
	MemberEmail string
}

// NotificationRepository はお知らせの永続化インターフェース。
type NotificationRepository interface {
	// Create はお知らせを作成する。
	Create(ctx context.Context, n *model.Notification) error

	// List は全お知らせをcreated_at降順で返す。
	List(ctx context.Context) ([]*model.Notification, error)

	// DeleteByID は指定IDのお知らせを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SupplementRepository はサプリメントの永続化インターフェース。
type SupplementRepository interface {
	// Create はサプリメントを作成する。
	Create(ctx context.Context, s *model.Supplement) error

	// FindByID は指定IDのサプリメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Supplement, error)

	// List は全サプリメントをcreated_at降順で返す。
	List(ctx context.Context) ([]*model.Supplement, error)

	// Update はサプリメント情報を上書き更新する。
	Update(ctx context.Context, s *model.Supplement) error

	// DeleteByID は指定IDのサプリメントを削除する。
	DeleteByID(ctx context.Context, id string) error
}
