package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"lorehub/pkg/database"
)

func main() {
	var (
		charsIn  = flag.String("characters", "data/characters.csv", "input CSV path for characters")
		lineupIn = flag.String("lineup", "data/user_lineup.csv", "input CSV path for user lineups")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importCharacters(ctx, db, *charsIn); err != nil {
		log.Fatalf("import characters failed: %v", err)
	}
	if err := importUserLineup(ctx, db, *lineupIn); err != nil {
		log.Fatalf("import user lineup failed: %v", err)
	}

	log.Printf("imported characters from %s and lineups from %s", *charsIn, *lineupIn)
}

func importCharacters(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO characters (
			id, slug, name, aliases, cover_url, gallery, factions, tags,
			alignment, status, identity, primary_location, era,
			short_desc, long_desc, powers, avg_level
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  slug = excluded.slug,
		  name = excluded.name,
		  aliases = excluded.aliases,
		  cover_url = excluded.cover_url,
		  gallery = excluded.gallery,
		  factions = excluded.factions,
		  tags = excluded.tags,
		  alignment = excluded.alignment,
		  status = excluded.status,
		  identity = excluded.identity,
		  primary_location = excluded.primary_location,
		  era = excluded.era,
		  short_desc = excluded.short_desc,
		  long_desc = excluded.long_desc,
		  powers = excluded.powers,
		  avg_level = excluded.avg_level
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		id := valueAt(header, row, "id")
		slug := valueAt(header, row, "slug")
		name := valueAt(header, row, "name")
		if id == "" || slug == "" || name == "" {
			continue
		}

		avgLevel, err := parseNullFloat(valueAt(header, row, "avg_level"))
		if err != nil {
			return fmt.Errorf("parse avg_level for %s: %w", id, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			id,
			slug,
			name,
			nullString(valueAt(header, row, "aliases")),
			nullString(valueAt(header, row, "cover_url")),
			nullString(valueAt(header, row, "gallery")),
			nullString(valueAt(header, row, "factions")),
			nullString(valueAt(header, row, "tags")),
			nullString(valueAt(header, row, "alignment")),
			nullString(valueAt(header, row, "status")),
			nullString(valueAt(header, row, "identity")),
			nullString(valueAt(header, row, "primary_location")),
			nullString(valueAt(header, row, "era")),
			nullString(valueAt(header, row, "short_desc")),
			nullString(valueAt(header, row, "long_desc")),
			nullString(valueAt(header, row, "powers")),
			avgLevel,
		); err != nil {
			return err
		}
	}

	return nil
}

func importUserLineup(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO user_lineup (user_id, character_id, role, note, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, character_id) DO UPDATE SET
			role = excluded.role,
			note = excluded.note,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		userID := valueAt(header, row, "user_id")
		characterID := valueAt(header, row, "character_id")
		if userID == "" || characterID == "" {
			continue
		}

		updatedAt, err := parseTime(valueAt(header, row, "updated_at"))
		if err != nil {
			return fmt.Errorf("parse updated_at for %s/%s: %w", userID, characterID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			userID,
			characterID,
			nullString(valueAt(header, row, "role")),
			nullString(valueAt(header, row, "note")),
			updatedAt,
		); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNullFloat(raw string) (sql.NullFloat64, error) {
	if raw == "" {
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

func parseTime(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
