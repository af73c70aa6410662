package records

import (
	"sort"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

// game is a matchup resolved to owners.
type game struct {
	m      model.Matchup
	owner1 model.OwnerID
	owner2 model.OwnerID
}

// games resolves every played matchup to owners, in season and week order.
func games(in Inputs, opts Options, keep func(model.Matchup) bool) []game {
	sink := diag.Or(opts.Diagnostics)
	owners := in.History.OwnersBySeason()

	seasons := make([]int, 0, len(in.History.MatchupsBySeason))
	for s := range in.History.MatchupsBySeason {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)

	out := make([]game, 0)
	for _, season := range seasons {
		for _, m := range model.UnionMatchups(in.History.MatchupsBySeason[season]) {
			if m.IsPlaceholder(opts.CurrentSeason) || (keep != nil && !keep(m)) {
				continue
			}
			o1, ok1 := owners[season][m.Team1.RosterID]
			o2, ok2 := owners[season][m.Team2.RosterID]
			if !ok1 || !ok2 {
				diag.Skip(sink, component, "matchup side without owner", map[string]any{"season": season, "week": m.Week})
				continue
			}
			out = append(out, game{m: m, owner1: o1, owner2: o2})
		}
	}
	return out
}

func (in Inputs) sideEntry(g game, first bool) Entry {
	m := g.m
	own, opp := g.owner1, g.owner2
	s, os := m.Team1.Score, m.Team2.Score
	if !first {
		own, opp = opp, own
		s, os = os, s
	}
	return Entry{
		Season:        m.Season,
		Week:          m.Week,
		OwnerID:       own,
		TeamName:      in.name(own, m.Season),
		OpponentID:    opp,
		OpponentName:  in.name(opp, m.Season),
		Score:         s,
		OpponentScore: os,
	}
}

// winnerEntry is the game seen from the winner, or from team 1 on a tie.
func (in Inputs) winnerEntry(g game) Entry {
	return in.sideEntry(g, g.m.Team1.Score >= g.m.Team2.Score)
}

// singleGame fills the per-game trackers shared by the matchup and playoff
// tables.
func (in Inputs) singleGame(gs []game, high, low, blowout *tracker) {
	for _, g := range gs {
		e1, e2 := in.sideEntry(g, true), in.sideEntry(g, false)
		high.offer(g.m.Team1.Score, e1)
		high.offer(g.m.Team2.Score, e2)
		if g.m.Team1.Score > 0 {
			low.offer(g.m.Team1.Score, e1)
		}
		if g.m.Team2.Score > 0 {
			low.offer(g.m.Team2.Score, e2)
		}
		if _, _, ok := g.m.Winner(); ok {
			blowout.offer(g.m.Margin(), in.winnerEntry(g))
		}
	}
}

// MatchupRecords returns the single-game record tables over every played
// game of every season.
func MatchupRecords(in Inputs, opts Options) []Table {
	high := highest("highest_score", "Highest Score")
	low := lowest("lowest_score", "Lowest Score")
	blowout := highest("biggest_blowout", "Biggest Blowout")
	narrow := lowest("narrowest_win", "Narrowest Win")
	combinedHigh := highest("highest_combined", "Highest Combined Score")
	combinedLow := lowest("lowest_combined", "Lowest Combined Score")

	gs := games(in, opts, nil)
	in.singleGame(gs, high, low, blowout)
	for _, g := range gs {
		e := in.winnerEntry(g)
		if _, _, ok := g.m.Winner(); ok {
			narrow.offer(g.m.Margin(), e)
		}
		combinedHigh.offer(g.m.Combined(), e)
		if g.m.Team1.Score > 0 && g.m.Team2.Score > 0 {
			combinedLow.offer(g.m.Combined(), e)
		}
	}
	return tables(high, low, blowout, narrow, combinedHigh, combinedLow)
}
