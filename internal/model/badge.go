package model

import (
	"strconv"
	"strings"
	"time"
)

type Category string

const (
	CategorySeason       Category = "season"
	CategorySeasonTier   Category = "season-tier"
	CategoryChampion     Category = "champion"
	CategoryMatchup      Category = "matchup"
	CategoryDraft        Category = "draft"
	CategoryDraftBlunder Category = "draft-blunder"
	CategoryTransaction  Category = "transaction"
	CategoryBlunder      Category = "blunder"
	CategoryLeague       Category = "league"
	CategoryRoster       Category = "roster"
)

// ParseCategory accepts the serialized category names. ok is false for
// anything else.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategorySeason, CategorySeasonTier, CategoryChampion, CategoryMatchup,
		CategoryDraft, CategoryDraftBlunder, CategoryTransaction, CategoryBlunder,
		CategoryLeague, CategoryRoster:
		return c, true
	}
	return "", false
}

// IsBlunder reports whether badges of this category are negative.
func (c Category) IsBlunder() bool {
	return c == CategoryBlunder || c == CategoryDraftBlunder
}

// BadgeKey is the typed identity of a badge. Season is 0 for career badges.
type BadgeKey struct {
	Category      Category
	Slug          string
	Season        int
	OwnerID       OwnerID
	Disambiguator string
}

// String serializes the key. Distinct keys always serialize differently
// because each component is escaped before joining.
func (k BadgeKey) String() string {
	season := "career"
	if k.Season != 0 {
		season = strconv.Itoa(k.Season)
	}
	parts := []string{
		escapeKeyPart(string(k.Category)),
		escapeKeyPart(k.Slug),
		season,
		escapeKeyPart(string(k.OwnerID)),
	}
	if k.Disambiguator != "" {
		parts = append(parts, escapeKeyPart(k.Disambiguator))
	}
	return strings.Join(parts, ":")
}

var keyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

func escapeKeyPart(s string) string {
	return keyEscaper.Replace(s)
}

type Badge struct {
	ID          string         `json:"id"`
	Key         BadgeKey       `json:"-"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Category    Category       `json:"category"`
	Year        *int           `json:"year"`
	TeamID      OwnerID        `json:"team_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Accent      string         `json:"accent"`
	Icon        string         `json:"icon"`
	Timestamp   time.Time      `json:"timestamp"`
}
