package badges

import (
	"strings"
	"time"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

var categoryAccents = map[model.Category]string{
	model.CategorySeason:       "#2563eb",
	model.CategorySeasonTier:   "#7c3aed",
	model.CategoryChampion:     "#d4af37",
	model.CategoryMatchup:      "#059669",
	model.CategoryDraft:        "#0891b2",
	model.CategoryDraftBlunder: "#b45309",
	model.CategoryTransaction:  "#4f46e5",
	model.CategoryBlunder:      "#dc2626",
	model.CategoryLeague:       "#475569",
	model.CategoryRoster:       "#16a34a",
}

var categoryIcons = map[model.Category]string{
	model.CategorySeason:       "trophy",
	model.CategorySeasonTier:   "medal",
	model.CategoryChampion:     "crown",
	model.CategoryMatchup:      "swords",
	model.CategoryDraft:        "clipboard",
	model.CategoryDraftBlunder: "clipboard-x",
	model.CategoryTransaction:  "repeat",
	model.CategoryBlunder:      "skull",
	model.CategoryLeague:       "landmark",
	model.CategoryRoster:       "users",
}

var slugIcons = map[string]string{
	"season-title":          "trophy",
	"points-title":          "target",
	"triple-crown":          "crown",
	"champion":              "crown",
	"bronze-season":         "medal-bronze",
	"silver-season":         "medal-silver",
	"gold-season":           "medal-gold",
	"diamond-season":        "gem",
	"lucky-duck":            "clover",
	"cursed":                "ghost",
	"peak-performance":      "mountain",
	"the-shootout":          "flame",
	"massacre":              "axe",
	"the-bye-week":          "bed",
	"double-up":             "copy",
	"firing-squad":          "crosshair",
	"thread-the-needle":     "needle",
	"the-snoozer":           "moon",
	"spoiled-goods":         "apple",
	"bully":                 "fist",
	"heavyweight-champion":  "dumbbell",
	"comeback-kid":          "rewind",
	"against-all-odds":      "dice",
	"draft-king":            "crown",
	"action-king":           "zap",
	"broke-ass":             "wallet",
	"silverback-to-back":    "gorilla",
	"champion-drought":      "sun",
	"veteran-presence":      "star",
	"old-timer":             "hourglass",
	"season-transactions":   "shuffle",
	"best-draft-pick":       "thumbs-up",
	"worst-draft-pick":      "thumbs-down",
	"season-all-play-title": "bar-chart",
	"points-runner-up":      "target",
	"points-3rd":            "target",
	"total-wins":            "flag",
}

// slugify turns a badge name into its key slug: "Top QB Roster" becomes
// "top-qb-roster".
func slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		case sb.Len() > 0 && !dash:
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// normalize fills the serialized id and every display hint a badge still
// lacks.
func (e *engine) normalize(b model.Badge) model.Badge {
	b.ID = b.Key.String()
	if b.Name == "" {
		b.Name = b.Key.Slug
	}
	if b.DisplayName == "" {
		b.DisplayName = b.Name
	}
	if b.Icon == "" {
		if icon, ok := slugIcons[b.Key.Slug]; ok {
			b.Icon = icon
		} else if icon, ok := categoryIcons[b.Category]; ok {
			b.Icon = icon
		} else {
			b.Icon = "award"
		}
	}
	if b.Accent == "" {
		if accent, ok := categoryAccents[b.Category]; ok {
			b.Accent = accent
		} else {
			b.Accent = "#64748b"
		}
	}
	if b.Timestamp.IsZero() {
		if b.Year != nil {
			b.Timestamp = time.Date(*b.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
		} else {
			b.Timestamp = e.now
		}
	}
	if b.Year != nil {
		if b.Metadata == nil {
			b.Metadata = make(map[string]any)
		}
		if _, ok := b.Metadata["team_name"]; !ok {
			b.Metadata["team_name"] = e.teamName(b.TeamID, *b.Year)
		}
	}
	return b
}

// teamName asks the caller's resolver first. A resolver that panics costs
// only this lookup, which then falls back to the history.
func (e *engine) teamName(owner model.OwnerID, season int) string {
	if e.in.TeamName != nil {
		var name string
		ok := diag.Guard(e.sink, component+"/team-name", func() { name = e.in.TeamName(owner, season) })
		if ok {
			return name
		}
	}
	return e.in.History.TeamName(owner, season)
}
