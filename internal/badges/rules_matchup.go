package badges

import (
	"fmt"
	"sort"

	"github.com/moose735/TLOED/internal/model"
)

func weekTag(week int) string {
	return fmt.Sprintf("w%d", week)
}

func gameTag(week int, opp model.OwnerID) string {
	return fmt.Sprintf("w%d-%s", week, opp)
}

func gameMeta(g game, s side) map[string]any {
	return map[string]any{
		"week":           g.m.Week,
		"score":          s.score,
		"opponent_id":    string(s.opp),
		"opponent_score": s.oppScore,
	}
}

type gameSide struct {
	g game
	s side
}

func (sc *seasonCtx) allSides() []gameSide {
	out := make([]gameSide, 0, 2*len(sc.games))
	for _, g := range sc.games {
		for _, s := range g.sides() {
			out = append(out, gameSide{g: g, s: s})
		}
	}
	return out
}

// decided returns the games that have a winner.
func (sc *seasonCtx) decided() []game {
	out := make([]game, 0, len(sc.games))
	for _, g := range sc.games {
		if _, _, ok := g.result(); ok {
			out = append(out, g)
		}
	}
	return out
}

func peakPerformance(sc *seasonCtx, em *emitter) {
	top := highest(sc.allSides(), func(gs gameSide) float64 { return gs.s.score })
	for _, gs := range top {
		if gs.s.score <= 0 {
			return
		}
		em.award(gs.s.owner, model.CategoryMatchup, "Peak Performance", weekTag(gs.g.m.Week), gameMeta(gs.g, gs.s))
	}
}

func shootout(sc *seasonCtx, em *emitter) {
	top := highest(sc.games, func(g game) float64 { return round(g.m.Combined(), 2) })
	for _, g := range top {
		if g.m.Combined() <= 0 {
			return
		}
		for _, s := range g.sides() {
			meta := gameMeta(g, s)
			meta["combined"] = g.m.Combined()
			em.award(s.owner, model.CategoryMatchup, "The Shootout", weekTag(g.m.Week), meta)
		}
	}
}

func massacre(sc *seasonCtx, em *emitter) {
	top := highest(sc.decided(), func(g game) float64 { return round(g.m.Margin(), 2) })
	for _, g := range top {
		w, l, _ := g.result()
		em.award(w.owner, model.CategoryMatchup, "Massacre", weekTag(g.m.Week), gameMeta(g, w))
		em.award(l.owner, model.CategoryBlunder, "The Bye Week", weekTag(g.m.Week), gameMeta(g, l))
	}
}

// marginBand names the close-game band of a winning margin rounded to two
// decimals, or "" when the margin is outside every band.
func marginBand(margin float64) string {
	m := round(margin, 2)
	switch {
	case m >= 1 && m <= 2:
		return "Small"
	case m >= 0.5 && m <= 0.99:
		return "Micro"
	case m >= 0.01 && m <= 0.49:
		return "Nano"
	}
	return ""
}

func closeMargins(sc *seasonCtx, em *emitter) {
	for _, g := range sc.decided() {
		band := marginBand(g.m.Margin())
		if band == "" {
			continue
		}
		w, l, _ := g.result()
		em.award(w.owner, model.CategoryMatchup, "A "+band+" Victory", gameTag(g.m.Week, l.owner), gameMeta(g, w))
		em.award(l.owner, model.CategoryBlunder, "A "+band+" Defeat", gameTag(g.m.Week, w.owner), gameMeta(g, l))
	}
}

func doubleUp(sc *seasonCtx, em *emitter) {
	for _, g := range sc.decided() {
		w, l, _ := g.result()
		if l.score <= 0 || w.score < 2*l.score {
			continue
		}
		em.award(w.owner, model.CategoryMatchup, "Double Up", gameTag(g.m.Week, l.owner), gameMeta(g, w))
		em.award(l.owner, model.CategoryBlunder, "Doubled Up", gameTag(g.m.Week, w.owner), gameMeta(g, l))
	}
}

func scoreShare(sc *seasonCtx, em *emitter) {
	sides := make([]gameSide, 0)
	for _, gs := range sc.allSides() {
		if gs.g.m.Combined() > 0 {
			sides = append(sides, gs)
		}
	}
	if len(sides) == 0 {
		return
	}
	share := func(gs gameSide) float64 { return round(gs.s.score/gs.g.m.Combined(), 6) }
	for _, gs := range highest(sides, share) {
		meta := gameMeta(gs.g, gs.s)
		meta["share"] = share(gs)
		em.award(gs.s.owner, model.CategoryMatchup, "Firing Squad", weekTag(gs.g.m.Week), meta)
	}
	for _, gs := range lowest(sides, share) {
		meta := gameMeta(gs.g, gs.s)
		meta["share"] = share(gs)
		em.award(gs.s.owner, model.CategoryBlunder, "The Undercard", weekTag(gs.g.m.Week), meta)
	}
}

func threadTheNeedle(sc *seasonCtx, em *emitter) {
	narrow := make([]game, 0)
	for _, g := range sc.decided() {
		if round(g.m.Margin(), 2) > 0 {
			narrow = append(narrow, g)
		}
	}
	for _, g := range lowest(narrow, func(g game) float64 { return round(g.m.Margin(), 2) }) {
		w, _, _ := g.result()
		em.award(w.owner, model.CategoryMatchup, "Thread The Needle", weekTag(g.m.Week), gameMeta(g, w))
	}
}

func snoozer(sc *seasonCtx, em *emitter) {
	scored := make([]game, 0)
	for _, g := range sc.decided() {
		if g.m.Team1.Score > 0 && g.m.Team2.Score > 0 {
			scored = append(scored, g)
		}
	}
	for _, g := range lowest(scored, func(g game) float64 { return round(g.m.Combined(), 2) }) {
		_, l, _ := g.result()
		meta := gameMeta(g, l)
		meta["combined"] = g.m.Combined()
		em.award(l.owner, model.CategoryBlunder, "The Snoozer", weekTag(g.m.Week), meta)
	}
}

// spoiledGoods flags the week's second-best score when it lost head to head
// to the week's top score.
func spoiledGoods(sc *seasonCtx, em *emitter) {
	byWeek := make(map[int][]game)
	for _, g := range sc.games {
		byWeek[g.m.Week] = append(byWeek[g.m.Week], g)
	}
	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	for _, week := range weeks {
		games := byWeek[week]
		scores := make([]float64, 0, 2*len(games))
		for _, g := range games {
			scores = append(scores, g.m.Team1.Score, g.m.Team2.Score)
		}
		if len(scores) < 2 {
			continue
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
		top, second := scores[0], scores[1]
		if top == second || second <= 0 {
			continue
		}
		for _, g := range games {
			w, l, ok := g.result()
			if ok && w.score == top && l.score == second {
				em.award(l.owner, model.CategoryBlunder, "Spoiled Goods", weekTag(week), gameMeta(g, l))
			}
		}
	}
}

func bully(sc *seasonCtx, em *emitter) {
	type pair struct{ winner, loser model.OwnerID }
	wins := make(map[pair]int)
	for _, g := range sc.decided() {
		w, l, _ := g.result()
		p := pair{w.owner, l.owner}
		wins[p]++
		if wins[p] != 3 {
			continue
		}
		em.award(w.owner, model.CategoryMatchup, "Bully", string(l.owner), map[string]any{"week": g.m.Week, "opponent_id": string(l.owner), "wins": 3})
		em.award(l.owner, model.CategoryBlunder, "Bullied", string(w.owner), map[string]any{"week": g.m.Week, "opponent_id": string(w.owner), "losses": 3})
	}
}
