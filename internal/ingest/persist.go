package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lorehub/pkg/models"
)

// SaveToDatabase upserts the merged library into the `characters` table.
// The whole batch runs in one transaction so a half-written library never
// becomes visible to the API.
func SaveToDatabase(ctx context.Context, db *sql.DB, chars []models.Character) error {
	if err := models.ValidateLibrary(chars); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
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
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, c := range chars {
		aliasesJSON, err := json.Marshal(c.Aliases)
		if err != nil {
			return fmt.Errorf("marshal aliases for %s: %w", c.ID, err)
		}
		galleryJSON, err := json.Marshal(c.Gallery)
		if err != nil {
			return fmt.Errorf("marshal gallery for %s: %w", c.ID, err)
		}
		factionsJSON, err := json.Marshal(c.Factions)
		if err != nil {
			return fmt.Errorf("marshal factions for %s: %w", c.ID, err)
		}
		tagsJSON, err := json.Marshal(c.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", c.ID, err)
		}
		powersJSON, err := json.Marshal(c.Powers)
		if err != nil {
			return fmt.Errorf("marshal powers for %s: %w", c.ID, err)
		}

		var avgLevel sql.NullFloat64
		if c.Metrics != nil {
			avgLevel = sql.NullFloat64{Float64: c.Metrics.AverageLevel, Valid: true}
		}

		if _, err := stmt.ExecContext(
			ctx,
			c.ID,
			c.Slug,
			c.Name,
			string(aliasesJSON),
			c.Cover,
			string(galleryJSON),
			string(factionsJSON),
			string(tagsJSON),
			c.Alignment,
			c.Status,
			c.Identity,
			c.PrimaryLocation,
			c.Era,
			c.ShortDesc,
			c.LongDesc,
			string(powersJSON),
			avgLevel,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
