package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/gymman/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

// Create は注文と品目を同一トランザクションで作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("注文トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, member_id, total_price, status, placed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.MemberID, order.TotalPrice, order.Status, order.PlacedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("注文の作成に失敗しました: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, name, description, unit_price, category)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, order.ID, item.Name, item.Description, item.UnitPrice, item.Category,
		)
		if err != nil {
			return fmt.Errorf("注文品目の作成に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("注文トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの注文を品目付きで取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	order := &model.Order{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, member_id, total_price, status, placed_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&order.ID, &order.MemberID, &order.TotalPrice, &order.Status, &order.PlacedAt, &order.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("注文の取得に失敗しました: %w", err)
	}

	items, err := r.itemsByOrderIDs(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

// ListByMemberID は指定会員の注文一覧をplaced_at降順で返す。
func (r *PostgresOrderRepo) ListByMemberID(ctx context.Context, memberID string) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, total_price, status, placed_at, updated_at
		 FROM orders WHERE member_id = $1 ORDER BY placed_at DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("注文一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	orders, ids, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllWithMember は全注文を会員の氏名・メールアドレス付きで返す。
// 会員が削除済みの場合は氏名・メールアドレスが空文字になる。
func (r *PostgresOrderRepo) ListAllWithMember(ctx context.Context) ([]OrderWithMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.member_id, o.total_price, o.status, o.placed_at, o.updated_at,
			COALESCE(m.name, ''), COALESCE(m.email, '')
		 FROM orders o
		 LEFT JOIN members m ON m.id = o.member_id
		 ORDER BY o.placed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("全注文一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []OrderWithMember
	var ids []string
	for rows.Next() {
		var ow OrderWithMember
		if err := rows.Scan(&ow.ID, &ow.MemberID, &ow.TotalPrice, &ow.Status,
			&ow.PlacedAt, &ow.UpdatedAt, &ow.MemberName, &ow.MemberEmail); err != nil {
			return nil, fmt.Errorf("注文行の読み取りに失敗しました: %w", err)
		}
		results = append(results, ow)
		ids = append(ids, ow.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("全注文一覧の走査に失敗しました: %w", err)
	}

	items, err := r.itemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Items = items[results[i].ID]
	}
	return results, nil
}

// UpdateStatus は注文ステータスとupdated_atを更新する。
func (r *PostgresOrderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("注文ステータスの更新に失敗しました: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("注文ステータス更新結果の取得に失敗しました: %w", err)
	}
	if affected == 0 {
		return model.NewOrderNotFoundError(id)
	}
	return nil
}

// DeleteByID は指定IDの注文を削除する。品目はCASCADE削除される。
func (r *PostgresOrderRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("注文の削除に失敗しました: %w", err)
	}
	return nil
}

// collectOrders は注文行を読み取り、注文スライスとIDスライスを返す。
func collectOrders(rows *sql.Rows) ([]*model.Order, []string, error) {
	var orders []*model.Order
	var ids []string
	for rows.Next() {
		order := &model.Order{}
		if err := rows.Scan(&order.ID, &order.MemberID, &order.TotalPrice,
			&order.Status, &order.PlacedAt, &order.UpdatedAt); err != nil {
			return nil, nil, fmt.Errorf("注文行の読み取りに失敗しました: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("注文一覧の走査に失敗しました: %w", err)
	}
	return orders, ids, nil
}

// attachItems は注文スライスに品目を結合する。
func (r *PostgresOrderRepo) attachItems(ctx context.Context, orders []*model.Order, ids []string) error {
	items, err := r.itemsByOrderIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}
	return nil
}

// itemsByOrderIDs は指定注文IDの品目を注文IDごとにまとめて返す。
func (r *PostgresOrderRepo) itemsByOrderIDs(ctx context.Context, ids []string) (map[string][]model.OrderItem, error) {
	result := make(map[string][]model.OrderItem)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, name, description, unit_price, category
		 FROM order_items WHERE order_id = ANY($1) ORDER BY id ASC`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("注文品目の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		var orderID string
		if err := rows.Scan(&item.ID, &orderID, &item.Name, &item.Description,
			&item.UnitPrice, &item.Category); err != nil {
			return nil, fmt.Errorf("注文品目行の読み取りに失敗しました: %w", err)
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("注文品目の走査に失敗しました: %w", err)
	}
	return result, nil
}
