package models

// SwingLog records the health of both fighters after one swing.
type SwingLog struct {
	Swing int `json:"swing"`
	H1    int `json:"h1"`
	H2    int `json:"h2"`
}

// DuelResult is the transient outcome of a three-swing duel. One is
// produced per user interaction; nothing persists it.
type DuelResult struct {
	Winner    Character  `json:"winner"`
	Loser     Character  `json:"loser"`
	H1        int        `json:"h1"`
	H2        int        `json:"h2"`
	Logs      []SwingLog `json:"logs"`
	Narrative string     `json:"narrative"`
}

// FactionDuelResult is the outcome of a member-count-weighted coin flip
// between two taxonomy entries.
type FactionDuelResult struct {
	Winner    TaxonomyEntry `json:"winner"`
	Loser     TaxonomyEntry `json:"loser"`
	Narrative string        `json:"narrative"`
}
