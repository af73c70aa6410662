// Package records builds the league record book: single-game, playoff,
// season and streak record tables. Every table keeps all tied holders.
package records

import (
	"math"
	"sort"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
	"github.com/moose735/TLOED/internal/streaks"
)

const component = "records"

// Entry is one record holder with the context of the record.
type Entry struct {
	Season        int           `json:"season,omitempty"`
	Week          int           `json:"week,omitempty"`
	OwnerID       model.OwnerID `json:"owner_id"`
	TeamName      string        `json:"team_name"`
	OpponentID    model.OwnerID `json:"opponent_id,omitempty"`
	OpponentName  string        `json:"opponent_name,omitempty"`
	Score         float64       `json:"score,omitempty"`
	OpponentScore float64       `json:"opponent_score,omitempty"`
	EndSeason     int           `json:"end_season,omitempty"`
	EndWeek       int           `json:"end_week,omitempty"`
	Seasons       []int         `json:"seasons,omitempty"`
}

type Table struct {
	Key     string  `json:"key"`
	Title   string  `json:"title"`
	Value   float64 `json:"value"`
	Entries []Entry `json:"entries"`
}

// Book groups the tables by record type.
type Book struct {
	Matchup []Table `json:"matchup"`
	Playoff []Table `json:"playoff"`
	Season  []Table `json:"season"`
	Streak  []Table `json:"streak"`
}

type Inputs struct {
	History  *model.History
	TeamName model.TeamNameFunc
	// Streaks is optional; when nil the streak tables are detected from
	// History.
	Streaks *streaks.Result
}

type Options struct {
	CurrentSeason int
	CurrentWeek   int
	Diagnostics   diag.Sink
}

func (in Inputs) name(owner model.OwnerID, season int) string {
	if owner == "" {
		return ""
	}
	if in.TeamName != nil {
		return in.TeamName(owner, season)
	}
	return in.History.TeamName(owner, season)
}

// Build computes the whole record book. A failure in one group leaves the
// other groups intact.
func Build(in Inputs, opts Options) Book {
	sink := diag.Or(opts.Diagnostics)
	book := Book{Matchup: []Table{}, Playoff: []Table{}, Season: []Table{}, Streak: []Table{}}
	if in.History == nil {
		return book
	}
	diag.Guard(sink, component+"/matchup", func() { book.Matchup = MatchupRecords(in, opts) })
	diag.Guard(sink, component+"/playoff", func() { book.Playoff = PlayoffRecords(in, opts) })
	diag.Guard(sink, component+"/season", func() { book.Season = SeasonRecords(in, opts) })
	diag.Guard(sink, component+"/streak", func() { book.Streak = StreakRecords(in, opts) })
	return book
}

// round2 compares scores at the precision leagues record them.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// tracker keeps the best value seen and every entry that ties it.
type tracker struct {
	key, title string
	better     func(a, b float64) bool
	set        bool
	value      float64
	entries    []Entry
}

func highest(key, title string) *tracker {
	return &tracker{key: key, title: title, better: func(a, b float64) bool { return a > b }}
}

func lowest(key, title string) *tracker {
	return &tracker{key: key, title: title, better: func(a, b float64) bool { return a < b }}
}

func (t *tracker) offer(v float64, e Entry) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	v = round2(v)
	switch {
	case !t.set || t.better(v, t.value):
		t.set = true
		t.value = v
		t.entries = []Entry{e}
	case v == t.value:
		t.entries = append(t.entries, e)
	}
}

func (t *tracker) table() Table {
	entries := t.entries
	if entries == nil {
		entries = []Entry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Season != entries[j].Season {
			return entries[i].Season < entries[j].Season
		}
		if entries[i].Week != entries[j].Week {
			return entries[i].Week < entries[j].Week
		}
		return entries[i].OwnerID < entries[j].OwnerID
	})
	return Table{Key: t.key, Title: t.title, Value: t.value, Entries: entries}
}

func tables(ts ...*tracker) []Table {
	out := make([]Table, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.table())
	}
	return out
}
