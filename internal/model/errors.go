// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, member, order, membership, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMemberNotFound       = "MEMBER_NOT_FOUND"
	ErrCodePackageTypeRequired  = "PACKAGE_TYPE_REQUIRED"
	ErrCodeMemberFieldsRequired = "MEMBER_FIELDS_REQUIRED"
	ErrCodeMembershipExpired    = "MEMBERSHIP_EXPIRED"
	ErrCodeMembershipInactive   = "MEMBERSHIP_INACTIVE"
	ErrCodeDietRequired         = "DIET_REQUIRED"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeOrderFieldsRequired  = "ORDER_FIELDS_REQUIRED"
	ErrCodeInvalidOrderStatus   = "INVALID_ORDER_STATUS"
	ErrCodeNotificationRequired = "NOTIFICATION_FIELDS_REQUIRED"
	ErrCodeSupplementNotFound   = "SUPPLEMENT_NOT_FOUND"
	ErrCodeSupplementRequired   = "SUPPLEMENT_FIELDS_REQUIRED"
)

// NewMemberNotFoundError は会員未検出エラーを生成する。
func NewMemberNotFoundError(memberID string) *APIError {
	return &APIError{
		Code:     ErrCodeMemberNotFound,
		Message:  fmt.Sprintf("指定された会員が見つかりません: %s", memberID),
		Category: "member",
		Action:   "会員IDを確認してください。",
	}
}

// NewPackageTypeRequiredError はpackageType未指定エラーを生成する。
// パッケージカタログ側の暗黙basicフォールバックとは異なり、更新操作では明示指定を要求する。
func NewPackageTypeRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodePackageTypeRequired,
		Message:  "packageTypeは必須です。",
		Category: "validation",
		Action:   "basic、3months、6months、fullYearのいずれかを指定してください。",
	}
}

// NewMemberFieldsRequiredError は会員登録の必須項目不足エラーを生成する。
func NewMemberFieldsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeMemberFieldsRequired,
		Message:  "会員ID、氏名、メールアドレスは必須です。",
		Category: "validation",
		Action:   "必須項目をすべて入力してください。",
	}
}

// NewMembershipExpiredError は会員期限切れエラーを生成する。
func NewMembershipExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeMembershipExpired,
		Message:  "会員資格の有効期限が切れています。",
		Category: "membership",
		Action:   "会員資格を更新してから再度お試しください。",
	}
}

// NewMembershipInactiveError は会員資格が有効でない場合のエラーを生成する。
func NewMembershipInactiveError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeMembershipInactive,
		Message:  fmt.Sprintf("会員資格が有効ではありません: %s", status),
		Category: "membership",
		Action:   "管理者にお問い合わせください。",
	}
}

// NewDietRequiredError は食事メモの必須項目不足エラーを生成する。
func NewDietRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeDietRequired,
		Message:  "会員IDと食事メモは必須です。",
		Category: "validation",
		Action:   "食事メモを入力してください。",
	}
}

// NewOrderNotFoundError は注文未検出エラーを生成する。
func NewOrderNotFoundError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("指定された注文が見つかりません: %s", orderID),
		Category: "order",
		Action:   "注文IDを確認してください。",
	}
}

// NewOrderFieldsRequiredError は注文の必須項目不足エラーを生成する。
func NewOrderFieldsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeOrderFieldsRequired,
		Message:  "会員ID、品目、合計金額は必須です。",
		Category: "validation",
		Action:   "必須項目をすべて指定してください。",
	}
}

// NewInvalidOrderStatusError は注文ステータスが不正な場合のエラーを生成する。
func NewInvalidOrderStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidOrderStatus,
		Message:  fmt.Sprintf("無効な注文ステータスです: %s", status),
		Category: "validation",
		Action:   "confirmed、collected、rejectedのいずれかを指定してください。",
	}
}

// NewNotificationFieldsRequiredError はお知らせの必須項目不足エラーを生成する。
func NewNotificationFieldsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeNotificationRequired,
		Message:  "タイトルと本文は必須です。",
		Category: "validation",
		Action:   "タイトルと本文を入力してください。",
	}
}

// NewSupplementNotFoundError はサプリメント未検出エラーを生成する。
func NewSupplementNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeSupplementNotFound,
		Message:  fmt.Sprintf("指定されたサプリメントが見つかりません: %s", id),
		Category: "order",
		Action:   "サプリメントIDを確認してください。",
	}
}

// NewSupplementFieldsRequiredError はサプリメントの必須項目不足エラーを生成する。
func NewSupplementFieldsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSupplementRequired,
		Message:  "サプリメント名と正の価格は必須です。",
		Category: "validation",
		Action:   "名前と価格を正しく入力してください。",
	}
}
