package live

import (
	"time"

	"lorehub/pkg/models"
)

// Event types pushed through the hub.
const (
	EventDuelResult       = "duel.result"
	EventArenaResult      = "arena.result"
	EventSpotlightAdvance = "spotlight.advance"
	EventLineupUpdate     = "lineup.update"
	EventLineupDelete     = "lineup.delete"
)

// DuelEvent announces a finished character duel.
type DuelEvent struct {
	Type     string            `json:"type"`
	Seed     int64             `json:"seed"`
	WinnerID string            `json:"winner_id"`
	LoserID  string            `json:"loser_id"`
	Logs     []models.SwingLog `json:"logs"`
	At       time.Time         `json:"at"`
}

// ArenaEvent announces a faction duel outcome.
type ArenaEvent struct {
	Type       string    `json:"type"`
	Seed       int64     `json:"seed"`
	WinnerSlug string    `json:"winner_slug"`
	LoserSlug  string    `json:"loser_slug"`
	Narrative  string    `json:"narrative"`
	At         time.Time `json:"at"`
}

// SpotlightEvent announces the auto-advanced featured entry.
type SpotlightEvent struct {
	Type  string    `json:"type"`
	Index int       `json:"index"`
	Slug  string    `json:"slug,omitempty"`
	Name  string    `json:"name,omitempty"`
	At    time.Time `json:"at"`
}

// LineupEvent announces a change to a user's lineup.
type LineupEvent struct {
	Type        string    `json:"type"`
	UserID      string    `json:"user_id"`
	CharacterID string    `json:"character_id"`
	Role        string    `json:"role,omitempty"`
	At          time.Time `json:"at"`
}
