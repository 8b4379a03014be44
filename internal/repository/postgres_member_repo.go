package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/gymman/internal/model"
)

// PostgresMemberRepo はPostgreSQLを使用した会員リポジトリ。
type PostgresMemberRepo struct {
	db *sql.DB
}

// NewPostgresMemberRepo はPostgresMemberRepoを生成する。
func NewPostgresMemberRepo(db *sql.DB) *PostgresMemberRepo {
	return &PostgresMemberRepo{db: db}
}

const memberColumns = `id, email, name, package_type, status, joined_at,
	expiry_date, expiry_processed_at, last_reminder_sent_date,
	last_renewal_date, diet_details, diet_updated_at, created_at, updated_at`

// scanMember は1行を*model.Memberに読み取る。
func scanMember(scan func(dest ...any) error) (*model.Member, error) {
	m := &model.Member{}
	var (
		expiryDate       sql.NullTime
		processedAt      sql.NullTime
		lastReminderSent sql.NullTime
		lastRenewal      sql.NullTime
		dietDetails      sql.NullString
		dietUpdatedAt    sql.NullTime
	)
	err := scan(
		&m.ID, &m.Email, &m.Name, &m.PackageType, &m.Status, &m.JoinedAt,
		&expiryDate, &processedAt, &lastReminderSent,
		&lastRenewal, &dietDetails, &dietUpdatedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiryDate.Valid {
		m.ExpiryDate = &expiryDate.Time
	}
	if processedAt.Valid {
		m.ExpiryProcessedAt = &processedAt.Time
	}
	if lastReminderSent.Valid {
		m.LastReminderSentDate = &lastReminderSent.Time
	}
	if lastRenewal.Valid {
		m.LastRenewalDate = &lastRenewal.Time
	}
	if dietDetails.Valid {
		m.DietDetails = dietDetails.String
	}
	if dietUpdatedAt.Valid {
		m.DietUpdatedAt = &dietUpdatedAt.Time
	}
	return m, nil
}

// FindByID は指定IDの会員を取得する。見つからない場合はnilを返す。
func (r *PostgresMemberRepo) FindByID(ctx context.Context, id string) (*model.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)

	m, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("会員の取得に失敗しました: %w", err)
	}
	return m, nil
}

// List は全会員を登録日時昇順で返す。
func (r *PostgresMemberRepo) List(ctx context.Context) ([]*model.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY joined_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("会員一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var members []*model.Member
	for rows.Next() {
		m, err := scanMember(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("会員行の読み取りに失敗しました: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("会員一覧の走査に失敗しました: %w", err)
	}
	return members, nil
}

// Create は会員を作成する。
func (r *PostgresMemberRepo) Create(ctx context.Context, m *model.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (id, email, name, package_type, status, joined_at,
			expiry_date, diet_details, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Email, m.Name, m.PackageType, m.Status, m.JoinedAt,
		nullTime(m.ExpiryDate), nullString(m.DietDetails), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("会員の作成に失敗しました: %w", err)
	}
	return nil
}

// MarkExpired は会員のstatusをexpiredにし、expiry_processed_atを記録する。
func (r *PostgresMemberRepo) MarkExpired(ctx context.Context, id string, processedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE members
		 SET status = $1, expiry_processed_at = $2, updated_at = $2
		 WHERE id = $3`,
		model.StatusExpired, processedAt, id,
	)
	if err != nil {
		return fmt.Errorf("期限切れステータスの更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateLastReminderSent は最終リマインダー送信時刻を記録する。
func (r *PostgresMemberRepo) UpdateLastReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE members
		 SET last_reminder_sent_date = $1, updated_at = $1
		 WHERE id = $2`,
		sentAt, id,
	)
	if err != nil {
		return fmt.Errorf("リマインダー送信時刻の更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateRenewal は更新（リニューアル）結果を反映する。
func (r *PostgresMemberRepo) UpdateRenewal(ctx context.Context, id, packageType string, expiry, renewedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE members
		 SET package_type = $1, expiry_date = $2, status = $3,
		     last_renewal_date = $4, updated_at = $4
		 WHERE id = $5`,
		packageType, expiry, model.StatusActive, renewedAt, id,
	)
	if err != nil {
		return fmt.Errorf("会員更新の反映に失敗しました: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("会員更新の反映結果の取得に失敗しました: %w", err)
	}
	if affected == 0 {
		return model.NewMemberNotFoundError(id)
	}
	return nil
}

// UpdateDiet は食事メモと記録時刻を更新する。
func (r *PostgresMemberRepo) UpdateDiet(ctx context.Context, id, dietDetails string, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE members
		 SET diet_details = $1, diet_updated_at = $2, updated_at = $2
		 WHERE id = $3`,
		dietDetails, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("食事メモの更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの会員を削除する。
func (r *PostgresMemberRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("会員の削除に失敗しました: %w", err)
	}
	return nil
}

// nullTime は*time.TimeをNULL許容のsql.NullTimeに変換する。
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString は空文字列をNULLに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
