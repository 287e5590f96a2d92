package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"lorehub/pkg/database"
)

func main() {
	var (
		charsOut  = flag.String("characters", "data/characters.csv", "output CSV path for characters")
		lineupOut = flag.String("lineup", "data/user_lineup.csv", "output CSV path for user lineups")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportCharacters(ctx, db, *charsOut); err != nil {
		log.Fatalf("export characters failed: %v", err)
	}
	if err := exportUserLineup(ctx, db, *lineupOut); err != nil {
		log.Fatalf("export user lineup failed: %v", err)
	}

	log.Printf("exported characters to %s and lineups to %s", *charsOut, *lineupOut)
}

func exportCharacters(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "slug", "name", "aliases", "cover_url", "gallery", "factions", "tags",
		"alignment", "status", "identity", "primary_location", "era",
		"short_desc", "long_desc", "powers", "avg_level",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, slug, name, aliases, cover_url, gallery, factions, tags,
               alignment, status, identity, primary_location, era,
               short_desc, long_desc, powers, avg_level
        FROM characters
        ORDER BY name
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, slug, name  string
			aliases         sql.NullString
			coverURL        sql.NullString
			gallery         sql.NullString
			factions        sql.NullString
			tags            sql.NullString
			alignment       sql.NullString
			status          sql.NullString
			identity        sql.NullString
			primaryLocation sql.NullString
			era             sql.NullString
			shortDesc       sql.NullString
			longDesc        sql.NullString
			powers          sql.NullString
			avgLevel        sql.NullFloat64
		)

		if err := rows.Scan(
			&id, &slug, &name, &aliases, &coverURL, &gallery, &factions, &tags,
			&alignment, &status, &identity, &primaryLocation, &era,
			&shortDesc, &longDesc, &powers, &avgLevel,
		); err != nil {
			return err
		}

		avg := ""
		if avgLevel.Valid {
			avg = strconv.FormatFloat(avgLevel.Float64, 'f', -1, 64)
		}

		if err := w.Write([]string{
			id, slug, name,
			aliases.String,
			coverURL.String,
			gallery.String,
			factions.String,
			tags.String,
			alignment.String,
			status.String,
			identity.String,
			primaryLocation.String,
			era.String,
			shortDesc.String,
			longDesc.String,
			powers.String,
			avg,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportUserLineup(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "character_id", "role", "note", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT user_id, character_id, role, note, updated_at
        FROM user_lineup
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID      string
			characterID string
			role        sql.NullString
			note        sql.NullString
			updatedAt   sql.NullTime
		)

		if err := rows.Scan(&userID, &characterID, &role, &note, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			userID,
			characterID,
			role.String,
			note.String,
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
