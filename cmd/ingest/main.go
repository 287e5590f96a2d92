package main

import (
	"context"
	"log"
	"time"

	"lorehub/internal/ingest"
	"lorehub/pkg/database"
	"lorehub/pkg/utils"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	// Ensure schema exists
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	// Primary source: the bundled character library
	fileSrc := ingest.NewFileSource(utils.Getenv("LOREHUB_DATA_PATH", "data/characters.json"))

	// Secondary source: hosted mirror (demo-safe, skipped when down)
	mirrorSrc := ingest.NewMirrorSource(utils.Getenv("LOREHUB_MIRROR_URL", "http://localhost:9000"))

	agg := ingest.NewAggregator(fileSrc, mirrorSrc)

	chars, err := agg.FetchAndMerge(ctx)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	log.Printf("merged characters: %d", len(chars))

	if err := ingest.SaveToDatabase(ctx, db, chars); err != nil {
		log.Fatalf("save failed: %v", err)
	}

	log.Println("database populated")
}
