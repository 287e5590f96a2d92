package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"lorehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q        string   // keyword search in name/aliases
	Factions []string // any-match
	Era      string
	Status   string
	Limit    int
	Offset   int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const characterColumns = `
	id, slug, name, aliases, cover_url, gallery, factions, tags,
	alignment, status, identity, primary_location, era,
	short_desc, long_desc, powers, avg_level
`

// GetByID looks a character up by id, falling back to slug so the API can
// serve pretty URLs. Returns nil, nil when nothing matches.
func (r *Repo) GetByID(ctx context.Context, id string) (*models.Character, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+characterColumns+`
		FROM characters
		WHERE id = ? OR slug = ?
	`, id, id)

	c, err := scanCharacter(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return c, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Character, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Character, 0, q.Limit)
	for rows.Next() {
		c, err := scanCharacter(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// All returns the full library in stable (name, id) order. The taxonomy
// builder and the arena draw from this snapshot.
func (r *Repo) All(ctx context.Context) ([]models.Character, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+characterColumns+`
		FROM characters
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("all query: %w", err)
	}
	defer rows.Close()

	var out []models.Character
	for rows.Next() {
		c, err := scanCharacter(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("all scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// scanCharacter decodes one row. JSON-array columns tolerate NULL and bad
// payloads by leaving the slice empty; the engine treats missing data as
// defaults anyway.
func scanCharacter(scan func(dest ...any) error) (*models.Character, error) {
	var (
		c            models.Character
		aliases      sql.NullString
		cover        sql.NullString
		gallery      sql.NullString
		factions     sql.NullString
		tags         sql.NullString
		alignment    sql.NullString
		status       sql.NullString
		identity     sql.NullString
		primaryLoc   sql.NullString
		era          sql.NullString
		shortDesc    sql.NullString
		longDesc     sql.NullString
		powers       sql.NullString
		averageLevel sql.NullFloat64
	)

	if err := scan(
		&c.ID, &c.Slug, &c.Name, &aliases, &cover, &gallery, &factions, &tags,
		&alignment, &status, &identity, &primaryLoc, &era,
		&shortDesc, &longDesc, &powers, &averageLevel,
	); err != nil {
		return nil, err
	}

	c.Cover = cover.String
	c.Alignment = alignment.String
	c.Status = status.String
	c.Identity = identity.String
	c.PrimaryLocation = primaryLoc.String
	c.Era = era.String
	c.ShortDesc = shortDesc.String
	c.LongDesc = longDesc.String

	if aliases.Valid {
		_ = json.Unmarshal([]byte(aliases.String), &c.Aliases)
	}
	if gallery.Valid {
		_ = json.Unmarshal([]byte(gallery.String), &c.Gallery)
	}
	if factions.Valid {
		_ = json.Unmarshal([]byte(factions.String), &c.Factions)
	}
	if tags.Valid {
		_ = json.Unmarshal([]byte(tags.String), &c.Tags)
	}
	if powers.Valid {
		_ = json.Unmarshal([]byte(powers.String), &c.Powers)
	}
	if averageLevel.Valid {
		c.Metrics = &models.Metrics{AverageLevel: averageLevel.Float64}
	}

	return &c, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list. The faction filter
// is any-match via LIKE against the stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT ` + characterColumns + `
		FROM characters
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM characters`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(aliases) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if strings.TrimSpace(q.Era) != "" {
		where = append(where, "LOWER(era) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Era)))
	}

	if strings.TrimSpace(q.Status) != "" {
		where = append(where, "LOWER(status) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Status)))
	}

	if len(q.Factions) > 0 {
		var factionOr []string
		for _, f := range q.Factions {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			factionOr = append(factionOr, "LOWER(factions) LIKE ?")
			args = append(args, `%`+strings.ToLower(f)+`%`)
		}
		if len(factionOr) > 0 {
			where = append(where, "("+strings.Join(factionOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY name ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
