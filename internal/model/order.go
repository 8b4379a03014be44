// Package model はドメインモデルを定義する。
package model

import "time"

// OrderStatus は注文の状態を表す。
type OrderStatus string

const (
	// OrderStatusConfirmed は注文確定状態。
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusCollected は受け渡し完了状態。
	OrderStatusCollected OrderStatus = "collected"
	// OrderStatusRejected は注文拒否状態。
	OrderStatusRejected OrderStatus = "rejected"
)

// ValidOrderStatus はOrderStatusとして許容される値かどうかを返す。
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusConfirmed, OrderStatusCollected, OrderStatusRejected:
		return true
	default:
		return false
	}
}

// 注文品目のカテゴリタグ。
const (
	ItemCategoryMembership        = "membership"
	ItemCategoryMembershipRenewal = "membership_renewal"
	ItemCategorySupplement        = "supplement"
)

// OrderItem は注文の1品目を表す。
type OrderItem struct {
	ID          string
	Name        string
	Description string
	UnitPrice   int
	Category    string
}

// Order は会員の注文を表す。会費（membership/membership_renewal）と
// サプリメント購入（supplement）の両方がこの台帳に記録される。
type Order struct {
	ID         string
	MemberID   string
	Items      []OrderItem
	TotalPrice int
	Status     OrderStatus
	PlacedAt   time.Time
	UpdatedAt  time.Time
}
