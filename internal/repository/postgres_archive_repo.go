package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gymman/internal/model"
)

// PostgresArchiveRepo はPostgreSQLを使用した期限切れ会員アーカイブリポジトリ。
type PostgresArchiveRepo struct {
	db *sql.DB
}

// NewPostgresArchiveRepo はPostgresArchiveRepoを生成する。
func NewPostgresArchiveRepo(db *sql.DB) *PostgresArchiveRepo {
	return &PostgresArchiveRepo{db: db}
}

const archiveColumns = `member_id, email, name, package_type, status, joined_at,
	expiry_date, diet_details, archived_at, previous_status`

// Upsert はアーカイブ行を会員IDキーで冪等に書き込む。
// 同一会員の再処理は同じ行を上書きするため、アーカイブ行が増えることはない。
func (r *PostgresArchiveRepo) Upsert(ctx context.Context, a *model.ArchivedMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expired_members (member_id, email, name, package_type, status,
			joined_at, expiry_date, diet_details, archived_at, previous_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (member_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			package_type = EXCLUDED.package_type,
			status = EXCLUDED.status,
			joined_at = EXCLUDED.joined_at,
			expiry_date = EXCLUDED.expiry_date,
			diet_details = EXCLUDED.diet_details,
			archived_at = EXCLUDED.archived_at,
			previous_status = EXCLUDED.previous_status`,
		a.ID, a.Email, a.Name, a.PackageType, a.Status,
		a.JoinedAt, nullTime(a.ExpiryDate), nullString(a.DietDetails),
		a.ArchivedAt, a.PreviousStatus,
	)
	if err != nil {
		return fmt.Errorf("アーカイブ行の書き込みに失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定会員IDのアーカイブ行を取得する。見つからない場合はnilを返す。
func (r *PostgresArchiveRepo) FindByID(ctx context.Context, memberID string) (*model.ArchivedMember, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+archiveColumns+` FROM expired_members WHERE member_id = $1`, memberID)

	a, err := scanArchivedMember(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アーカイブ行の取得に失敗しました: %w", err)
	}
	return a, nil
}

// List は全アーカイブ行をアーカイブ日時降順で返す。
func (r *PostgresArchiveRepo) List(ctx context.Context) ([]*model.ArchivedMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+archiveColumns+` FROM expired_members ORDER BY archived_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("アーカイブ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var archived []*model.ArchivedMember
	for rows.Next() {
		a, err := scanArchivedMember(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("アーカイブ行の読み取りに失敗しました: %w", err)
		}
		archived = append(archived, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アーカイブ一覧の走査に失敗しました: %w", err)
	}
	return archived, nil
}

// DeleteByID は指定会員IDのアーカイブ行を削除する。行が存在しなくてもエラーにしない。
func (r *PostgresArchiveRepo) DeleteByID(ctx context.Context, memberID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM expired_members WHERE member_id = $1`, memberID)
	if err != nil {
		return fmt.Errorf("アーカイブ行の削除に失敗しました: %w", err)
	}
	return nil
}

// scanArchivedMember は1行を*model.ArchivedMemberに読み取る。
func scanArchivedMember(scan func(dest ...any) error) (*model.ArchivedMember, error) {
	a := &model.ArchivedMember{}
	var (
		expiryDate  sql.NullTime
		dietDetails sql.NullString
	)
	err := scan(
		&a.ID, &a.Email, &a.Name, &a.PackageType, &a.Status, &a.JoinedAt,
		&expiryDate, &dietDetails, &a.ArchivedAt, &a.PreviousStatus,
	)
	if err != nil {
		return nil, err
	}
	if expiryDate.Valid {
		a.ExpiryDate = &expiryDate.Time
	}
	if dietDetails.Valid {
		a.DietDetails = dietDetails.String
	}
	return a, nil
}
