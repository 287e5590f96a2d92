package roster

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"lorehub/pkg/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.MigrateFrom(db, "../../docs/schema.sql"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCharacters(t *testing.T, db *sql.DB) {
	t.Helper()

	rows := []struct {
		id, slug, name, aliases, factions, era, status, cover string
	}{
		{"vex", "vex", "Vex", `["The Unbound"]`, `["The Dawn Court","Keepers of the Veil"]`, "Age of Old Gods", "active", "covers/vex.jpg"},
		{"nightowl", "nightowl", "Nightowl", `["The Owl"]`, `["The Wardens"]`, "Modern Age", "active", "covers/owl.jpg"},
		{"gloam", "the-gloam", "The Gloam", `[]`, `["Keepers of the Veil"]`, "Age of Legends", "unknown", ""},
	}
	for _, r := range rows {
		_, err := db.Exec(`
			INSERT INTO characters (id, slug, name, aliases, factions, era, status, cover_url, powers)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, '[{"name":"Test","level":5}]')
		`, r.id, r.slug, r.name, r.aliases, r.factions, r.era, r.status, r.cover)
		if err != nil {
			t.Fatalf("seed %s: %v", r.id, err)
		}
	}
}

func TestGetByIDFallsBackToSlug(t *testing.T) {
	db := openTestDB(t)
	seedCharacters(t, db)
	repo := NewRepo(db)
	ctx := context.Background()

	byID, err := repo.GetByID(ctx, "gloam")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Name != "The Gloam" {
		t.Fatalf("get by id = %+v, want The Gloam", byID)
	}

	bySlug, err := repo.GetByID(ctx, "the-gloam")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug == nil || bySlug.ID != "gloam" {
		t.Fatalf("get by slug = %+v, want id gloam", bySlug)
	}

	missing, err := repo.GetByID(ctx, "nobody")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("get missing = %+v, want nil", missing)
	}
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	seedCharacters(t, db)
	repo := NewRepo(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		query   ListQuery
		wantIDs []string
	}{
		{
			name:    "keyword matches alias",
			query:   ListQuery{Q: "unbound"},
			wantIDs: []string{"vex"},
		},
		{
			name:    "era filter",
			query:   ListQuery{Era: "modern age"},
			wantIDs: []string{"nightowl"},
		},
		{
			name:    "faction any-match",
			query:   ListQuery{Factions: []string{"Keepers of the Veil"}},
			wantIDs: []string{"gloam", "vex"},
		},
		{
			name:    "status filter",
			query:   ListQuery{Status: "unknown"},
			wantIDs: []string{"gloam"},
		},
		{
			name:    "no filters returns everything",
			query:   ListQuery{},
			wantIDs: []string{"gloam", "nightowl", "vex"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("list returned %d items, want %d: %+v", len(got), len(tt.wantIDs), got)
			}
			seen := make(map[string]bool, len(got))
			for _, c := range got {
				seen[c.ID] = true
			}
			for _, id := range tt.wantIDs {
				if !seen[id] {
					t.Errorf("missing id %s in results", id)
				}
			}

			total, err := repo.Count(ctx, tt.query)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if total != len(tt.wantIDs) {
				t.Errorf("count = %d, want %d", total, len(tt.wantIDs))
			}
		})
	}
}

func TestAllDecodesJSONColumns(t *testing.T) {
	db := openTestDB(t)
	seedCharacters(t, db)
	repo := NewRepo(db)

	chars, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(chars) != 3 {
		t.Fatalf("all returned %d characters, want 3", len(chars))
	}

	// name-ordered: Nightowl, The Gloam, Vex
	if chars[0].ID != "nightowl" || chars[2].ID != "vex" {
		t.Errorf("order = [%s %s %s], want name order", chars[0].ID, chars[1].ID, chars[2].ID)
	}

	for _, c := range chars {
		if c.ID != "vex" {
			continue
		}
		if len(c.Factions) != 2 {
			t.Errorf("vex factions = %v, want 2 decoded", c.Factions)
		}
		if len(c.Powers) != 1 || c.Powers[0].Level != 5 {
			t.Errorf("vex powers = %v, want decoded Test/5", c.Powers)
		}
		if !c.HasPortrait() {
			t.Error("vex should have a portrait")
		}
	}
}
