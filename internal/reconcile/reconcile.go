// Package reconcile checks the processed roster aggregates of a history
// against the results its regular-season matchups imply.
package reconcile

import (
	"math"
	"sort"
	"time"

	"github.com/moose735/TLOED/internal/model"
)

// pointsTolerance absorbs the rounding platforms apply to season totals.
const pointsTolerance = 0.01

type RosterMismatch struct {
	Season   int            `json:"season"`
	RosterID model.RosterID `json:"roster_id"`
	OwnerID  model.OwnerID  `json:"owner_id,omitempty"`
	Field    string         `json:"field"`
	Recorded float64        `json:"recorded"`
	Derived  float64        `json:"derived"`
	// MissingRoster marks a roster that plays in matchups but has no roster
	// record for the season.
	MissingRoster bool `json:"missing_roster,omitempty"`
}

type Report struct {
	Seasons        []int            `json:"seasons"`
	GeneratedAtUTC string           `json:"generated_at_utc"`
	Entries        []RosterMismatch `json:"entries"`
}

// Totals is what a roster's regular-season games add up to.
type Totals struct {
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
}

// BuildTotals sums the regular-season results of one season per roster.
// Playoff games and unplayed placeholders are excluded.
func BuildTotals(matchups []model.Matchup, currentSeason int) map[model.RosterID]*Totals {
	out := make(map[model.RosterID]*Totals)
	get := func(r model.RosterID) *Totals {
		if _, ok := out[r]; !ok {
			out[r] = &Totals{}
		}
		return out[r]
	}
	for _, m := range matchups {
		if m.IsPlayoff() || m.IsPlaceholder(currentSeason) {
			continue
		}
		t1, t2 := get(m.Team1.RosterID), get(m.Team2.RosterID)
		t1.PointsFor += m.Team1.Score
		t1.PointsAgainst += m.Team2.Score
		t2.PointsFor += m.Team2.Score
		t2.PointsAgainst += m.Team1.Score
		switch {
		case m.Team1.Score > m.Team2.Score:
			t1.Wins++
			t2.Losses++
		case m.Team2.Score > m.Team1.Score:
			t2.Wins++
			t1.Losses++
		default:
			t1.Ties++
			t2.Ties++
		}
	}
	return out
}

// BuildReport compares every season's rosters with their matchup totals.
// Seasons without matchups are skipped, as are rosters whose record is
// entirely zero (aggregates not yet processed).
func BuildReport(h *model.History, currentSeason int, now time.Time) *Report {
	seasons := make([]int, 0, len(h.MatchupsBySeason))
	for s, ms := range h.MatchupsBySeason {
		if len(ms) > 0 {
			seasons = append(seasons, s)
		}
	}
	sort.Ints(seasons)

	entries := make([]RosterMismatch, 0)
	for _, season := range seasons {
		derived := BuildTotals(h.MatchupsBySeason[season], currentSeason)
		seen := make(map[model.RosterID]bool)

		for _, r := range h.RostersBySeason[season] {
			seen[r.RosterID] = true
			d, ok := derived[r.RosterID]
			if !ok || r.Wins+r.Losses+r.Ties == 0 {
				continue
			}
			add := func(field string, recorded, want float64) {
				entries = append(entries, RosterMismatch{
					Season: season, RosterID: r.RosterID, OwnerID: r.OwnerID,
					Field: field, Recorded: recorded, Derived: want,
				})
			}
			if r.Wins != d.Wins {
				add("wins", float64(r.Wins), float64(d.Wins))
			}
			if r.Losses != d.Losses {
				add("losses", float64(r.Losses), float64(d.Losses))
			}
			if r.Ties != d.Ties {
				add("ties", float64(r.Ties), float64(d.Ties))
			}
			if math.Abs(r.PointsFor-d.PointsFor) > pointsTolerance {
				add("points_for", r.PointsFor, d.PointsFor)
			}
			if r.PointsAgainst != 0 && math.Abs(r.PointsAgainst-d.PointsAgainst) > pointsTolerance {
				add("points_against", r.PointsAgainst, d.PointsAgainst)
			}
		}

		missing := make([]model.RosterID, 0)
		for roster := range derived {
			if !seen[roster] {
				missing = append(missing, roster)
			}
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		for _, roster := range missing {
			entries = append(entries, RosterMismatch{Season: season, RosterID: roster, MissingRoster: true})
		}
	}

	return &Report{
		Seasons:        seasons,
		GeneratedAtUTC: now.UTC().Format(time.RFC3339),
		Entries:        entries,
	}
}
