package badges

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

// game is a played matchup resolved to owners.
type game struct {
	m      model.Matchup
	owner1 model.OwnerID
	owner2 model.OwnerID
}

// sides returns (owner, score, opponent, opponent score) for both teams.
func (g game) sides() [2]side {
	return [2]side{
		{owner: g.owner1, score: g.m.Team1.Score, opp: g.owner2, oppScore: g.m.Team2.Score},
		{owner: g.owner2, score: g.m.Team2.Score, opp: g.owner1, oppScore: g.m.Team1.Score},
	}
}

// result returns winner and loser owners. ok is false on a tie.
func (g game) result() (winner, loser side, ok bool) {
	s := g.sides()
	switch {
	case s[0].score > s[1].score:
		return s[0], s[1], true
	case s[1].score > s[0].score:
		return s[1], s[0], true
	}
	return side{}, side{}, false
}

type side struct {
	owner    model.OwnerID
	score    float64
	opp      model.OwnerID
	oppScore float64
}

// seasonCtx is the validated view of one season every season rule reads.
// stats has one entry per owner with a season record.
type seasonCtx struct {
	e       *engine
	season  int
	stats   []model.SeasonStats
	byOwner map[model.OwnerID]model.SeasonStats
	owners  map[model.RosterID]model.OwnerID
	games   []game
	// picks carry the player season table's points and positions.
	picks []model.DraftPick
	txns  []model.Transaction
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (e *engine) seasonContext(season int) *seasonCtx {
	sc := &seasonCtx{
		e:       e,
		season:  season,
		byOwner: make(map[model.OwnerID]model.SeasonStats),
		owners:  make(map[model.RosterID]model.OwnerID),
	}

	raw, ok := e.in.SeasonalRecords[season]
	if !ok {
		raw = e.in.History.RostersBySeason[season]
	}
	for r, o := range e.in.History.OwnersBySeason()[season] {
		sc.owners[r] = o
	}
	for _, s := range raw {
		if s.OwnerID == "" {
			diag.Skip(e.sink, component, "season record without owner", map[string]any{"season": season, "roster_id": s.RosterID})
			continue
		}
		if _, dup := sc.byOwner[s.OwnerID]; dup {
			diag.Skip(e.sink, component, "duplicate season record", map[string]any{"season": season, "owner_id": s.OwnerID})
			continue
		}
		s.PointsFor = finite(s.PointsFor)
		s.PointsAgainst = finite(s.PointsAgainst)
		s.AllPlayWinPct = finite(s.AllPlayWinPct)
		s.LuckRating = finite(s.LuckRating)
		s.AdjustedDPR = finite(s.AdjustedDPR)
		s.WaiverFeesSpent = finite(s.WaiverFeesSpent)
		if s.RosterID != "" {
			sc.owners[s.RosterID] = s.OwnerID
		}
		sc.byOwner[s.OwnerID] = s
		sc.stats = append(sc.stats, s)
	}
	sort.SliceStable(sc.stats, func(i, j int) bool { return sc.stats[i].OwnerID < sc.stats[j].OwnerID })

	for _, m := range model.UnionMatchups(e.in.History.MatchupsBySeason[season]) {
		if m.IsPlaceholder(e.opts.CurrentSeason) {
			continue
		}
		if !validScore(m.Team1.Score) || !validScore(m.Team2.Score) {
			diag.Skip(e.sink, component, "matchup with invalid score", map[string]any{"season": season, "week": m.Week})
			continue
		}
		o1, ok1 := sc.owners[m.Team1.RosterID]
		o2, ok2 := sc.owners[m.Team2.RosterID]
		if !ok1 || !ok2 || o1 == o2 {
			diag.Skip(e.sink, component, "matchup side without owner", map[string]any{"season": season, "week": m.Week})
			continue
		}
		sc.games = append(sc.games, game{m: m, owner1: o1, owner2: o2})
	}

	for _, p := range e.in.History.SeasonPicks(season) {
		if p.OwnerID == "" {
			if o, ok := sc.owners[p.RosterID]; ok {
				p.OwnerID = o
			}
		}
		sc.picks = append(sc.picks, p)
	}

	for _, t := range e.in.Transactions {
		if t.Status == "failed" {
			continue
		}
		if e.opts.TimestampUnit.Time(t.Created).Year() != season {
			continue
		}
		sc.txns = append(sc.txns, t)
	}
	return sc
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// played returns the season records of owners that played at least one
// game or scored points.
func (sc *seasonCtx) played() []model.SeasonStats {
	out := make([]model.SeasonStats, 0, len(sc.stats))
	for _, s := range sc.stats {
		if s.Wins+s.Losses+s.Ties > 0 || s.PointsFor > 0 {
			out = append(out, s)
		}
	}
	return out
}

// regular returns the season's non-playoff games.
func (sc *seasonCtx) regular() []game {
	out := make([]game, 0, len(sc.games))
	for _, g := range sc.games {
		if !g.m.IsPlayoff() {
			out = append(out, g)
		}
	}
	return out
}

func (sc *seasonCtx) champion() (model.SeasonStats, bool) {
	for _, s := range sc.stats {
		if s.IsChampion {
			return s, true
		}
	}
	return model.SeasonStats{}, false
}

// best returns every item whose value beats or ties all others under
// better. Items are kept in input order.
func best[T any, V constraints.Ordered](items []T, value func(T) V, better func(a, b V) bool) []T {
	var out []T
	var top V
	for i, it := range items {
		v := value(it)
		switch {
		case i == 0 || better(v, top):
			top = v
			out = []T{it}
		case v == top:
			out = append(out, it)
		}
	}
	return out
}

func highest[T any, V constraints.Ordered](items []T, value func(T) V) []T {
	return best(items, value, func(a, b V) bool { return a > b })
}

func lowest[T any, V constraints.Ordered](items []T, value func(T) V) []T {
	return best(items, value, func(a, b V) bool { return a < b })
}

// round rounds to the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func sortedOwners[V any](m map[model.OwnerID]V) []model.OwnerID {
	out := make([]model.OwnerID, 0, len(m))
	for o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
