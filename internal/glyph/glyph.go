// Package glyph provides read-only display metadata for practice items.
package glyph

// Tier represents a difficulty tier.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierElementary   Tier = "elementary"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// AllTiers returns all tiers in ascending difficulty.
func AllTiers() []Tier {
	return []Tier{TierBeginner, TierElementary, TierIntermediate, TierAdvanced}
}

// DisplayName returns a human-readable name for a tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierBeginner:
		return "Beginner"
	case TierElementary:
		return "Elementary"
	case TierIntermediate:
		return "Intermediate"
	case TierAdvanced:
		return "Advanced"
	case "":
		return "Unrated"
	default:
		return string(t)
	}
}

// Metadata holds the display-only fields for a single item.
type Metadata struct {
	ID            string   `toml:"id"`
	Pronunciation string   `toml:"pronunciation"`
	Meaning       string   `toml:"meaning"`
	StrokeCount   int      `toml:"strokes"`
	Tier          Tier     `toml:"tier"`
	Components    []string `toml:"components"`
	Examples      []string `toml:"examples"`
}

// Known reports whether m describes a catalogued item rather than the
// placeholder.
func (m Metadata) Known() bool {
	return m.StrokeCount > 0 || m.Meaning != UnknownMeaning
}

const (
	UnknownPronunciation = "unknown"
	UnknownMeaning       = "Unknown meaning"
)

// Placeholder returns the record used for identifiers missing from the catalog.
func Placeholder(id string) Metadata {
	return Metadata{
		ID:            id,
		Pronunciation: UnknownPronunciation,
		Meaning:       UnknownMeaning,
		StrokeCount:   0,
	}
}

// Lookup resolves an identifier to its metadata. Implementations never fail.
type Lookup interface {
	Lookup(id string) Metadata
}
