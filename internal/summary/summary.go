// Package summary runs the analytics packages over a league history in one
// call and writes their output as JSON.
package summary

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/moose735/TLOED/internal/badges"
	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/draftvalue"
	"github.com/moose735/TLOED/internal/keeper"
	"github.com/moose735/TLOED/internal/model"
	"github.com/moose735/TLOED/internal/records"
	"github.com/moose735/TLOED/internal/streaks"
)

// Output file names under the derived directory.
const (
	SummaryFile = "league_summary.json"
	BadgesFile  = "badges.json"
	RecordsFile = "records.json"
	StreaksFile = "streaks.json"
)

type Options struct {
	Badges      badges.Options
	CurrentWeek int
	Clock       clock.Clock
	Diagnostics diag.Sink
}

type DiagnosticSummary struct {
	Level     string         `json:"level"`
	Component string         `json:"component"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

type LeagueSummary struct {
	GeneratedAtUTC string              `json:"generated_at_utc"`
	Seasons        []int               `json:"seasons"`
	CurrentSeason  int                 `json:"current_season,omitempty"`
	CurrentWeek    int                 `json:"current_week,omitempty"`
	Badges         badges.Result       `json:"badges"`
	Records        records.Book        `json:"records"`
	Streaks        streaks.Result      `json:"streaks"`
	Warnings       []DiagnosticSummary `json:"warnings,omitempty"`
}

// Build computes badges, record tables and streaks. Streaks are detected
// once and shared with the record book. Every diagnostic raised along the
// way is forwarded to opts.Diagnostics and also kept in Warnings.
func Build(h *model.History, opts Options) *LeagueSummary {
	if h == nil {
		h = &model.History{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	rec := &diag.Recorder{}
	sink := diag.Tee(opts.Diagnostics, rec)

	bopts := opts.Badges
	bopts.Clock = opts.Clock
	bopts.Diagnostics = sink

	ropts := records.Options{
		CurrentSeason: bopts.CurrentSeason,
		CurrentWeek:   opts.CurrentWeek,
		Diagnostics:   sink,
	}
	rin := records.Inputs{History: h}
	detected := records.DetectStreaks(rin, ropts)
	rin.Streaks = &detected

	out := &LeagueSummary{
		GeneratedAtUTC: opts.Clock.Now().UTC().Format(time.RFC3339),
		Seasons:        h.Seasons(),
		CurrentSeason:  bopts.CurrentSeason,
		CurrentWeek:    opts.CurrentWeek,
		Badges:         badges.Compute(badges.Inputs{History: h}, bopts),
		Records:        records.Build(rin, ropts),
		Streaks:        detected,
	}
	for _, e := range rec.Events() {
		if e.Level < diag.LevelWarn {
			continue
		}
		out.Warnings = append(out.Warnings, DiagnosticSummary{
			Level:     e.Level.String(),
			Component: e.Component,
			Message:   e.Message,
			Fields:    e.Fields,
		})
	}
	return out
}

// OwnerBadges returns one owner's badges, newest season first.
func OwnerBadges(res badges.Result, owner model.OwnerID) []model.Badge {
	src := res.ByTeam[owner]
	out := make([]model.Badge, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return yearOf(out[i]) > yearOf(out[j])
	})
	return out
}

func yearOf(b model.Badge) int {
	if b.Year == nil {
		return 0
	}
	return *b.Year
}

// BadgeCounts counts badges per category.
func BadgeCounts(res badges.Result) map[string]int {
	out := make(map[string]int)
	for _, bs := range res.ByTeam {
		for _, b := range bs {
			out[string(b.Category)]++
		}
	}
	return out
}

// KeeperCost resolves a keeper's round cost against one season of the
// history.
func KeeperCost(h *model.History, owner string, season, round int) keeper.Result {
	return keeper.Resolve(keeper.Request{
		Picks:       h.DraftPicksBySeason[season],
		TradedPicks: h.TradedPicksBySeason[season],
		Rosters:     h.RostersBySeason[season],
		Owner:       owner,
		Season:      season,
		Round:       round,
	})
}

// SeasonPicks returns a season's draft picks with points and positions
// taken from the player season table where it has the player.
func SeasonPicks(h *model.History, season int) []model.DraftPick {
	return h.SeasonPicks(season)
}

type DraftValueSummary struct {
	Season int                    `json:"season"`
	Curve  draftvalue.Curve       `json:"curve"`
	Picks  []draftvalue.PickValue `json:"picks"`
	Teams  draftvalue.TeamTotals  `json:"teams"`
}

// DraftValues scores a season's picks and aggregates them per owner and
// position.
func DraftValues(h *model.History, season int, opts draftvalue.Options) DraftValueSummary {
	picks := SeasonPicks(h, season)
	opts.Curve = opts.Curve.OrDefault()
	return DraftValueSummary{
		Season: season,
		Curve:  opts.Curve,
		Picks:  draftvalue.EvaluatePicks(picks, opts.Curve),
		Teams:  draftvalue.TeamScaledVORPByPosition(picks, opts),
	}
}

// FitCurve fits a value curve to every drafted pick in the history.
func FitCurve(h *model.History) (draftvalue.Curve, int, error) {
	var samples []draftvalue.Sample
	for _, season := range h.Seasons() {
		for _, p := range SeasonPicks(h, season) {
			samples = append(samples, draftvalue.Sample{PickNo: p.PickNo, Value: draftvalue.PlayerValue(p)})
		}
	}
	c, err := draftvalue.FitCurve(samples)
	return c, len(samples), err
}

// Write stores the summary and its parts under dir.
func Write(dir string, s *LeagueSummary) error {
	if err := writeJSON(filepath.Join(dir, SummaryFile), s); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, BadgesFile), s.Badges); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, RecordsFile), s.Records); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, StreaksFile), s.Streaks)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
