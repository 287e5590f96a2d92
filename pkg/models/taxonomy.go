package models

// Taxonomy dimension names. These double as the :type segment in the API.
const (
	TaxonomyFaction  = "faction"
	TaxonomyLocation = "location"
	TaxonomyPower    = "power"
	TaxonomyTimeline = "timeline"
)

// TaxonomyEntry is one derived group within a taxonomy dimension: the
// characters that share a faction, home location, power name, or era,
// plus the presentation fields computed from the member roster.
//
// Entries are rebuilt wholesale from the character library and never
// mutated afterwards.
type TaxonomyEntry struct {
	Slug         string      `json:"slug"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`       // faction|location|power|timeline
	FilterKey    string      `json:"filter_key"` // the character attribute that grouped it
	Members      []Character `json:"members"`    // deduplicated by id, first-seen order
	MemberCount  int         `json:"member_count"`
	PrimaryImage string      `json:"primary_image,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	Snippets     []string    `json:"snippets,omitempty"`
	Era          string      `json:"era,omitempty"` // timeline entries only
}

// TaxonomySet holds every dimension derived from one library snapshot.
type TaxonomySet struct {
	Factions  []TaxonomyEntry `json:"factions"`
	Locations []TaxonomyEntry `json:"locations"`
	Powers    []TaxonomyEntry `json:"powers"`
	Timelines []TaxonomyEntry `json:"timelines"`
}

// Dimension returns one dimension by its type name, or nil for an
// unknown type.
func (s TaxonomySet) Dimension(typ string) []TaxonomyEntry {
	switch typ {
	case TaxonomyFaction:
		return s.Factions
	case TaxonomyLocation:
		return s.Locations
	case TaxonomyPower:
		return s.Powers
	case TaxonomyTimeline:
		return s.Timelines
	default:
		return nil
	}
}
