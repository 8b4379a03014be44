package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gymman/internal/model"
)

// PostgresNotificationRepo はPostgreSQLを使用したお知らせリポジトリ。
type PostgresNotificationRepo struct {
	db *sql.DB
}

// NewPostgresNotificationRepo はPostgresNotificationRepoを生成する。
func NewPostgresNotificationRepo(db *sql.DB) *PostgresNotificationRepo {
	return &PostgresNotificationRepo{db: db}
}

// Create はお知らせを作成する。
func (r *PostgresNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, title, description, created_at)
		 VALUES ($1, $2, $3, $4)`,
		n.ID, n.Title, n.Description, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("お知らせの作成に失敗しました: %w", err)
	}
	return nil
}

// List は全お知らせをcreated_at降順で返す。
func (r *PostgresNotificationRepo) List(ctx context.Context) ([]*model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, created_at
		 FROM notifications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("お知らせ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		n := &model.Notification{}
		if err := rows.Scan(&n.ID, &n.Title, &n.Description, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("お知らせ行の読み取りに失敗しました: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("お知らせ一覧の走査に失敗しました: %w", err)
	}
	return notifications, nil
}

// DeleteByID は指定IDのお知らせを削除する。
func (r *PostgresNotificationRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("お知らせの削除に失敗しました: %w", err)
	}
	return nil
}
