package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gymman/internal/model"
)

// PostgresSupplementRepo はPostgreSQLを使用したサプリメントリポジトリ。
type PostgresSupplementRepo struct {
	db *sql.DB
}

// NewPostgresSupplementRepo はPostgresSupplementRepoを生成する。
func NewPostgresSupplementRepo(db *sql.DB) *PostgresSupplementRepo {
	return &PostgresSupplementRepo{db: db}
}

// Create はサプリメントを作成する。
func (r *PostgresSupplementRepo) Create(ctx context.Context, s *model.Supplement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO supplements (id, name, description, price, weight, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, s.Description, s.Price, s.Weight, s.ImageURL, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("サプリメントの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDのサプリメントを取得する。見つからない場合はnilを返す。
func (r *PostgresSupplementRepo) FindByID(ctx context.Context, id string) (*model.Supplement, error) {
	s := &model.Supplement{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, weight, image_url, created_at, updated_at
		 FROM supplements WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Weight, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("サプリメントの取得に失敗しました: %w", err)
	}
	return s, nil
}

// List は全サプリメントをcreated_at降順で返す。
func (r *PostgresSupplementRepo) List(ctx context.Context) ([]*model.Supplement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, price, weight, image_url, created_at, updated_at
		 FROM supplements ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("サプリメント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var supplements []*model.Supplement
	for rows.Next() {
		s := &model.Supplement{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Weight,
			&s.ImageURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("サプリメント行の読み取りに失敗しました: %w", err)
		}
		supplements = append(supplements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("サプリメント一覧の走査に失敗しました: %w", err)
	}
	return supplements, nil
}

// Update はサプリメント情報を上書き更新する。
func (r *PostgresSupplementRepo) Update(ctx context.Context, s *model.Supplement) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE supplements
		 SET name = $1, description = $2, price = $3, weight = $4, image_url = $5, updated_at = $6
		 WHERE id = $7`,
		s.Name, s.Description, s.Price, s.Weight, s.ImageURL, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("サプリメントの更新に失敗しました: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("サプリメント更新結果の取得に失敗しました: %w", err)
	}
	if affected == 0 {
		return model.NewSupplementNotFoundError(s.ID)
	}
	return nil
}

// DeleteByID は指定IDのサプリメントを削除する。
func (r *PostgresSupplementRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM supplements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("サプリメントの削除に失敗しました: %w", err)
	}
	return nil
}
