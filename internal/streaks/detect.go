package streaks

import (
	"sort"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

type Kind string

const (
	KindWin       Kind = "win"
	KindLoss      Kind = "loss"
	KindHighScore Kind = "highest_score"
	KindTopThree  Kind = "top_three"
	KindLowScore  Kind = "lowest_score"
)

// Published lists the kinds reported in a Result, in display order.
var Published = []Kind{KindWin, KindLoss, KindHighScore, KindTopThree}

// Streak is one closed run of consecutive qualifying games.
type Streak struct {
	Kind        Kind          `json:"kind"`
	OwnerID     model.OwnerID `json:"owner_id"`
	Length      int           `json:"length"`
	StartSeason int           `json:"start_season"`
	StartWeek   int           `json:"start_week"`
	EndSeason   int           `json:"end_season"`
	EndWeek     int           `json:"end_week"`
}

// Category is the aggregate of one streak kind.
type Category struct {
	Kind    Kind `json:"kind"`
	Longest int  `json:"longest"`
	// Holders has one streak per owner tied at Longest.
	Holders []Streak `json:"holders"`
	// All is every closed streak, longest first.
	All []Streak `json:"all"`
}

type Result struct {
	Categories map[Kind]Category `json:"categories"`
}

// Category returns the aggregate for k, zero-valued when it is absent.
func (r Result) Category(k Kind) Category {
	if c, ok := r.Categories[k]; ok {
		return c
	}
	return Category{Kind: k}
}

// run is an open streak.
type run struct {
	kind       Kind
	length     int
	start      WeekKey
	last       WeekKey
	closedInto *[]Streak
	owner      model.OwnerID
}

func (r *run) extend(g Game) {
	k := WeekKey{Season: g.Season, Week: g.Week}
	if r.length == 0 {
		r.start = k
	}
	r.length++
	r.last = k
}

func (r *run) close() {
	if r.length > 0 {
		*r.closedInto = append(*r.closedInto, Streak{
			Kind:        r.kind,
			OwnerID:     r.owner,
			Length:      r.length,
			StartSeason: r.start.Season,
			StartWeek:   r.start.Week,
			EndSeason:   r.last.Season,
			EndWeek:     r.last.Week,
		})
	}
	r.length = 0
}

// adjacent reports whether g is the week right after the run's last game.
func (r *run) adjacent(g Game) bool {
	return r.length > 0 && g.Season == r.last.Season && g.Week == r.last.Week+1
}

// rank advances a score-rank run: qualifying games extend it when they are
// back to back, otherwise start a new one.
func (r *run) rank(g Game, qualifies bool) {
	switch {
	case !qualifies:
		r.close()
	case r.adjacent(g):
		r.extend(g)
	default:
		r.close()
		r.extend(g)
	}
}

// Detect scans every owner's log once and aggregates the published streak
// kinds. A failure while aggregating one kind leaves the others intact.
func Detect(logs GameLogs, rankings Rankings, opts Options) Result {
	sink := diag.Or(opts.Diagnostics)
	closed := make(map[Kind]*[]Streak)
	for _, k := range []Kind{KindWin, KindLoss, KindHighScore, KindTopThree, KindLowScore} {
		closed[k] = new([]Streak)
	}

	owners := make([]model.OwnerID, 0, len(logs))
	for o := range logs {
		owners = append(owners, o)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

	for _, owner := range owners {
		runs := make(map[Kind]*run, len(closed))
		for k, dst := range closed {
			runs[k] = &run{kind: k, owner: owner, closedInto: dst}
		}
		win, loss := runs[KindWin], runs[KindLoss]

		for _, g := range logs[owner] {
			switch g.Result {
			case "W":
				loss.close()
				win.extend(g)
			case "L":
				win.close()
				loss.extend(g)
			default:
				win.close()
				loss.close()
			}

			if g.Season == opts.CurrentSeason && g.Week == opts.CurrentWeek {
				continue
			}
			wr, ok := rankings[WeekKey{Season: g.Season, Week: g.Week}]
			runs[KindHighScore].rank(g, ok && g.Score == wr.Highest)
			runs[KindTopThree].rank(g, ok && wr.inTop3(g.Score))
			runs[KindLowScore].rank(g, ok && g.Score == wr.Lowest)
		}
		for _, r := range runs {
			r.close()
		}
	}

	res := Result{Categories: make(map[Kind]Category, len(Published))}
	for _, k := range Published {
		streaks := *closed[k]
		diag.Guard(sink, component+"/"+string(k), func() {
			res.Categories[k] = aggregate(k, streaks)
		})
	}
	return res
}

func aggregate(k Kind, streaks []Streak) Category {
	all := make([]Streak, len(streaks))
	copy(all, streaks)
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Length != b.Length {
			return a.Length > b.Length
		}
		if a.StartSeason != b.StartSeason {
			return a.StartSeason < b.StartSeason
		}
		if a.StartWeek != b.StartWeek {
			return a.StartWeek < b.StartWeek
		}
		return a.OwnerID < b.OwnerID
	})

	c := Category{Kind: k, All: all, Holders: []Streak{}}
	if len(all) == 0 {
		return c
	}
	c.Longest = all[0].Length
	seen := make(map[model.OwnerID]bool)
	for _, s := range all {
		if s.Length != c.Longest {
			break
		}
		if seen[s.OwnerID] {
			continue
		}
		seen[s.OwnerID] = true
		c.Holders = append(c.Holders, s)
	}
	return c
}
