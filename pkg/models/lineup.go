package models

import "time"

// LineupItem is one character pinned to a user's personal lineup.
type LineupItem struct {
	UserID      string    `json:"user_id"`
	CharacterID string    `json:"character_id"`
	Role        string    `json:"role"` // champion, contender, reserve
	Note        string    `json:"note,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
