// Package model はドメインモデルを定義する。
package model

import "time"

// Member はジム会員を表す。
// IDは外部の認証基盤が発行するアカウントIDであり、本システムは所有しない。
type Member struct {
	ID                   string
	Email                string
	Name                 string
	PackageType          string
	Status               string
	JoinedAt             time.Time
	ExpiryDate           *time.Time // nilは有効なパッケージ未保持を意味する
	ExpiryProcessedAt    *time.Time
	LastReminderSentDate *time.Time
	LastRenewalDate      *time.Time
	DietDetails          string
	DietUpdatedAt        *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// 会員ステータスの既知値。管理者が任意の文字列を設定することもある。
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// MembershipPhase は会員ライフサイクルの明示的な状態を表す。
// ストレージ上のstatus文字列から導出し、外部互換のために文字列へ射影する。
type MembershipPhase int

const (
	// PhaseUnknown は既知のライフサイクル状態に該当しないことを示す。
	// 管理者が任意の文字列をstatusに設定した場合もここに分類される。
	PhaseUnknown MembershipPhase = iota
	// PhaseActive は有効な会員を示す。
	PhaseActive
	// PhaseExpired は期限切れ処理済みの会員を示す。
	PhaseExpired
)

// ParsePhase はstatus文字列をMembershipPhaseに変換する。
func ParsePhase(status string) MembershipPhase {
	switch status {
	case StatusActive:
		return PhaseActive
	case StatusExpired:
		return PhaseExpired
	default:
		return PhaseUnknown
	}
}

// Phase は会員の現在のライフサイクル状態を返す。
func (m *Member) Phase() MembershipPhase {
	return ParsePhase(m.Status)
}

// String は保存形式のstatus文字列への射影を返す。
// PhaseUnknownは元の文字列を保持できないため空文字を返す。
func (p MembershipPhase) String() string {
	switch p {
	case PhaseActive:
		return StatusActive
	case PhaseExpired:
		return StatusExpired
	default:
		return ""
	}
}

// ArchivedMember は期限切れ時点の会員スナップショットを表す。
// Processorのみが作成し、以降不変。会員が更新（リニューアル）した場合のみ削除される。
type ArchivedMember struct {
	Member
	ArchivedAt     time.Time
	PreviousStatus string // アーカイブ直前に保持していたstatus
}
