package lineup

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lorehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert inserts or updates a user's lineup slot
func (r *Repo) Upsert(ctx context.Context, item models.LineupItem) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_lineup (user_id, character_id, role, note, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, character_id) DO UPDATE SET
			role = excluded.role,
			note = excluded.note,
			updated_at = CURRENT_TIMESTAMP
	`, item.UserID, item.CharacterID, item.Role, item.Note)
	if err != nil {
		return fmt.Errorf("upsert lineup item: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, characterID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM user_lineup
		WHERE user_id = ? AND character_id = ?
	`, userID, characterID)
	if err != nil {
		return false, fmt.Errorf("delete lineup item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) List(ctx context.Context, userID string, role string, limit, offset int) ([]models.LineupItem, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	// count
	var total int
	var countErr error
	if role == "" {
		countErr = r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM user_lineup WHERE user_id = ?
		`, userID).Scan(&total)
	} else {
		countErr = r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM user_lineup WHERE user_id = ? AND role = ?
		`, userID, role).Scan(&total)
	}
	if countErr != nil {
		return nil, 0, fmt.Errorf("count lineup: %w", countErr)
	}

	// list
	var rows *sql.Rows
	var err error

	if role == "" {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT user_id, character_id, role, note, updated_at
			FROM user_lineup
			WHERE user_id = ?
			ORDER BY updated_at DESC
			LIMIT ? OFFSET ?
		`, userID, limit, offset)
	} else {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT user_id, character_id, role, note, updated_at
			FROM user_lineup
			WHERE user_id = ? AND role = ?
			ORDER BY updated_at DESC
			LIMIT ? OFFSET ?
		`, userID, role, limit, offset)
	}

	if err != nil {
		return nil, 0, fmt.Errorf("list lineup: %w", err)
	}
	defer rows.Close()

	out := make([]models.LineupItem, 0, limit)
	for rows.Next() {
		var it models.LineupItem
		var updated time.Time

		if err := rows.Scan(&it.UserID, &it.CharacterID, &it.Role, &it.Note, &updated); err != nil {
			return nil, 0, fmt.Errorf("scan lineup row: %w", err)
		}
		it.UpdatedAt = updated
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}

	return out, total, nil
}

func (r *Repo) Get(ctx context.Context, userID, characterID string) (*models.LineupItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT user_id, character_id, role, note, updated_at
		FROM user_lineup
		WHERE user_id = ? AND character_id = ?
	`, userID, characterID)

	var it models.LineupItem
	var updated time.Time
	if err := row.Scan(&it.UserID, &it.CharacterID, &it.Role, &it.Note, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get lineup item: %w", err)
	}
	it.UpdatedAt = updated
	return &it, nil
}
