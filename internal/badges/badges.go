// Package badges computes the league's achievement and blunder catalog.
//
// Compute walks the seasons in ascending order and evaluates every rule in
// its own recover scope. Rules only emit badges into a per-rule scratch list;
// the lists of rules that completed are merged into one builder, and the
// builder is turned into the result exactly once at the end. Badge identity
// is the typed model.BadgeKey; it is serialized into Badge.ID only during the
// final normalization pass.
package badges

import (
	"fmt"
	"sort"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/draftvalue"
	"github.com/moose735/TLOED/internal/model"
)

const component = "badges"

const DefaultRecentLimit = 20

// FeeSource selects where transaction fees are read from.
type FeeSource int

const (
	// FeeFromTransactions sums the fee field of the season's transactions and
	// falls back to SeasonStats.WaiverFeesSpent when no transaction carried a
	// fee.
	FeeFromTransactions FeeSource = iota
	// FeeFromSeasonMetrics reads SeasonStats.WaiverFeesSpent only.
	FeeFromSeasonMetrics
)

func (f FeeSource) String() string {
	switch f {
	case FeeFromTransactions:
		return "transactions"
	case FeeFromSeasonMetrics:
		return "season-metrics"
	default:
		return fmt.Sprintf("fee-source(%d)", int(f))
	}
}

func ParseFeeSource(s string) (FeeSource, error) {
	switch s {
	case "", "transactions":
		return FeeFromTransactions, nil
	case "season-metrics":
		return FeeFromSeasonMetrics, nil
	}
	return 0, fmt.Errorf("unknown fee source: %q", s)
}

// TimestampUnit is the unit of Transaction.Created.
type TimestampUnit int

const (
	// TimestampAuto treats values above 1e12 as milliseconds.
	TimestampAuto TimestampUnit = iota
	TimestampSeconds
	TimestampMilliseconds
)

func (u TimestampUnit) String() string {
	switch u {
	case TimestampAuto:
		return "auto"
	case TimestampSeconds:
		return "seconds"
	case TimestampMilliseconds:
		return "milliseconds"
	default:
		return fmt.Sprintf("timestamp-unit(%d)", int(u))
	}
}

func ParseTimestampUnit(s string) (TimestampUnit, error) {
	switch s {
	case "", "auto":
		return TimestampAuto, nil
	case "s", "seconds":
		return TimestampSeconds, nil
	case "ms", "milliseconds":
		return TimestampMilliseconds, nil
	}
	return 0, fmt.Errorf("unknown timestamp unit: %q", s)
}

// Time converts a raw transaction epoch.
func (u TimestampUnit) Time(created int64) time.Time {
	switch u {
	case TimestampMilliseconds:
		return time.UnixMilli(created).UTC()
	case TimestampSeconds:
		return time.Unix(created, 0).UTC()
	default:
		if created > 1e12 {
			return time.UnixMilli(created).UTC()
		}
		return time.Unix(created, 0).UTC()
	}
}

type Options struct {
	// CurrentSeason marks the season in progress; its both-zero matchups are
	// unplayed placeholders.
	CurrentSeason int
	// DrafterBadgeCategory is the category of the negative draft badges
	// (Worst Draft Pick, Worst {POS} Drafter). Defaults to draft-blunder.
	DrafterBadgeCategory model.Category
	FeeSource            FeeSource
	TimestampUnit        TimestampUnit
	// RecentLimit caps Result.Recent. Zero means DefaultRecentLimit and a
	// negative value keeps every badge.
	RecentLimit int
	Curve       draftvalue.Curve
	// VORPStrategy drives the Best/Worst {POS} Drafter comparison.
	VORPStrategy draftvalue.Strategy
	Clock        clock.Clock
	Diagnostics  diag.Sink
}

type Inputs struct {
	History *model.History
	// SeasonalRecords are the processed roster aggregates per season. When a
	// season is missing here History.RostersBySeason is used.
	SeasonalRecords map[int][]model.SeasonStats
	// Transactions and Users default to the ones in History.
	Transactions []model.Transaction
	Users        []model.User
	TeamName     model.TeamNameFunc
}

type Result struct {
	ByTeam map[model.OwnerID][]model.Badge `json:"badges_by_team"`
	Recent []model.Badge                   `json:"recent_badges"`
}

// Count returns the number of badges across all teams.
func (r Result) Count() int {
	n := 0
	for _, bs := range r.ByTeam {
		n += len(bs)
	}
	return n
}

type engine struct {
	in   Inputs
	opts Options
	sink diag.Sink
	now  time.Time
	b    *builder
}

// Compute evaluates every badge rule over the inputs. It never panics and
// always returns non-nil collections.
func Compute(in Inputs, opts Options) (res Result) {
	sink := diag.Or(opts.Diagnostics)
	res = Result{ByTeam: map[model.OwnerID][]model.Badge{}, Recent: []model.Badge{}}

	diag.Guard(sink, component, func() {
		e := newEngine(in, opts, sink)
		e.run()
		res = e.b.build(e)
	})
	return res
}

func newEngine(in Inputs, opts Options, sink diag.Sink) *engine {
	if in.History == nil {
		in.History = &model.History{}
	}
	if in.Transactions == nil {
		in.Transactions = in.History.Transactions
	}
	if in.Users == nil {
		in.Users = in.History.Users
	}
	switch opts.DrafterBadgeCategory {
	case "":
		opts.DrafterBadgeCategory = model.CategoryDraftBlunder
	case model.CategoryDraftBlunder, model.CategoryBlunder, model.CategoryDraft:
	default:
		diag.Skip(sink, component, "unsupported drafter badge category", map[string]any{"category": opts.DrafterBadgeCategory})
		opts.DrafterBadgeCategory = model.CategoryDraftBlunder
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	opts.Curve = opts.Curve.OrDefault()
	return &engine{in: in, opts: opts, sink: sink, now: opts.Clock.Now().UTC(), b: newBuilder()}
}

// seasons returns every season with roster or matchup data, ascending.
func (e *engine) seasons() []int {
	set := make(map[int]bool)
	for _, s := range e.in.History.Seasons() {
		set[s] = true
	}
	for s := range e.in.SeasonalRecords {
		set[s] = true
	}
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

func (e *engine) run() {
	seasons := e.seasons()
	ctxs := make([]*seasonCtx, 0, len(seasons))
	for _, season := range seasons {
		var sc *seasonCtx
		diag.Guard(e.sink, component+"/season-context", func() { sc = e.seasonContext(season) })
		if sc == nil {
			continue
		}
		ctxs = append(ctxs, sc)
		for _, r := range seasonRules {
			e.apply(r.name, season, func(em *emitter) { r.fn(sc, em) })
		}
	}
	for _, r := range careerRules {
		e.apply(r.name, 0, func(em *emitter) { r.fn(e, ctxs, em) })
	}
}

// apply runs one rule in isolation and merges its output when it completes.
func (e *engine) apply(rule string, season int, fn func(*emitter)) {
	em := &emitter{season: season}
	if !diag.Guard(e.sink, component+"/"+rule, func() { fn(em) }) {
		return
	}
	e.b.merge(em.badges)
}

// emitter collects the badges of one rule run.
type emitter struct {
	season int
	badges []model.Badge
}

// award records a badge for the emitter's season. disambiguator separates
// several badges with the same name for one owner in one season.
func (em *emitter) award(owner model.OwnerID, cat model.Category, name, disambiguator string, meta map[string]any) {
	em.awardIn(em.season, owner, cat, name, disambiguator, meta)
}

// awardIn records a badge for an explicit season; 0 makes it a career
// badge. The returned pointer is valid until the next award and is nil when
// the owner is unknown.
func (em *emitter) awardIn(season int, owner model.OwnerID, cat model.Category, name, disambiguator string, meta map[string]any) *model.Badge {
	if owner == "" {
		return nil
	}
	b := model.Badge{
		Key: model.BadgeKey{
			Category:      cat,
			Slug:          slugify(name),
			Season:        season,
			OwnerID:       owner,
			Disambiguator: disambiguator,
		},
		Name:     name,
		Category: cat,
		TeamID:   owner,
		Metadata: meta,
	}
	if season != 0 {
		y := season
		b.Year = &y
	}
	em.badges = append(em.badges, b)
	return &em.badges[len(em.badges)-1]
}
