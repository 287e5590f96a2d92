package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"lorehub/internal/taxonomy"
	"lorehub/pkg/models"
)

// FileSource reads the bundled character library from a local JSON file.
// This is the primary source; the repo ships with data/characters.json.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) FetchAll(ctx context.Context) ([]models.Character, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: read %s: %w", s.Path, err)
	}

	var chars []models.Character
	if err := json.Unmarshal(data, &chars); err != nil {
		return nil, fmt.Errorf("file source: decode %s: %w", s.Path, err)
	}

	return fillSlugs(chars), nil
}

// MirrorSource fetches the character library from a hosted mirror exposing
// GET {BaseURL}/characters with the canonical JSON shape.
type MirrorSource struct {
	BaseURL string
	Client  *http.Client
}

func NewMirrorSource(baseURL string) *MirrorSource {
	return &MirrorSource{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *MirrorSource) Name() string { return "mirror" }

func (s *MirrorSource) FetchAll(ctx context.Context) ([]models.Character, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/characters", nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mirror: status %d: %s", resp.StatusCode, string(body))
	}

	var chars []models.Character
	if err := json.NewDecoder(resp.Body).Decode(&chars); err != nil {
		return nil, fmt.Errorf("mirror: decode json: %w", err)
	}

	return fillSlugs(chars), nil
}

// fillSlugs derives missing ids and slugs from the character name so that
// hand-edited source files stay forgiving. Collisions get numeric suffixes.
func fillSlugs(chars []models.Character) []models.Character {
	used := make(map[string]int, len(chars))
	out := chars[:0]
	for _, c := range chars {
		if c.Name == "" {
			continue
		}
		if c.Slug == "" {
			c.Slug = taxonomy.UniqueSlug(used, taxonomy.Slugify(c.Name))
		} else {
			c.Slug = taxonomy.UniqueSlug(used, c.Slug)
		}
		if c.ID == "" {
			c.ID = c.Slug
		}
		out = append(out, c)
	}
	return out
}
