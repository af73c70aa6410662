// Package streaks finds the longest win, loss and weekly score-rank streaks
// in a league's history.
package streaks

import (
	"sort"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

const component = "streaks"

// Game is one owner's view of one matchup.
type Game struct {
	Season        int           `json:"season"`
	Week          int           `json:"week"`
	OwnerID       model.OwnerID `json:"owner_id"`
	Opponent      model.OwnerID `json:"opponent"`
	Score         float64       `json:"score"`
	OpponentScore float64       `json:"opponent_score"`
	Result        string        `json:"result"`
}

// GameLogs holds each owner's games in chronological order.
type GameLogs map[model.OwnerID][]Game

type Options struct {
	// CurrentSeason and CurrentWeek identify the week still in progress.
	// Placeholder games of CurrentSeason are dropped and CurrentWeek never
	// qualifies for a score-rank streak.
	CurrentSeason int
	CurrentWeek   int
	Diagnostics   diag.Sink
}

func resultFromScore(score, opp float64) string {
	if score > opp {
		return "W"
	}
	if score < opp {
		return "L"
	}
	return "T"
}

func sortedSeasons[T any](m map[int][]T) []int {
	out := make([]int, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// BuildGameLogs flattens matchups into per-owner game logs. A game listed
// more than once counts once. Sides whose roster has no owner for that
// season are dropped with a diagnostic.
func BuildGameLogs(matchupsBySeason map[int][]model.Matchup, ownersBySeason map[int]map[model.RosterID]model.OwnerID, opts Options) GameLogs {
	sink := diag.Or(opts.Diagnostics)
	logs := make(GameLogs)

	for _, season := range sortedSeasons(matchupsBySeason) {
		owners := ownersBySeason[season]
		for _, m := range model.UnionMatchups(matchupsBySeason[season]) {
			if m.IsPlaceholder(opts.CurrentSeason) {
				continue
			}
			o1, ok1 := owners[m.Team1.RosterID]
			o2, ok2 := owners[m.Team2.RosterID]
			if !ok1 {
				diag.Skip(sink, component, "roster without owner", map[string]any{"season": season, "week": m.Week, "roster_id": m.Team1.RosterID})
			}
			if !ok2 {
				diag.Skip(sink, component, "roster without owner", map[string]any{"season": season, "week": m.Week, "roster_id": m.Team2.RosterID})
			}
			if ok1 {
				logs[o1] = append(logs[o1], Game{
					Season: season, Week: m.Week, OwnerID: o1, Opponent: o2,
					Score: m.Team1.Score, OpponentScore: m.Team2.Score,
					Result: resultFromScore(m.Team1.Score, m.Team2.Score),
				})
			}
			if ok2 {
				logs[o2] = append(logs[o2], Game{
					Season: season, Week: m.Week, OwnerID: o2, Opponent: o1,
					Score: m.Team2.Score, OpponentScore: m.Team1.Score,
					Result: resultFromScore(m.Team2.Score, m.Team1.Score),
				})
			}
		}
	}

	for owner, games := range logs {
		sort.SliceStable(games, func(i, j int) bool {
			if games[i].Season != games[j].Season {
				return games[i].Season < games[j].Season
			}
			return games[i].Week < games[j].Week
		})
		logs[owner] = games
	}
	return logs
}

type WeekKey struct {
	Season int
	Week   int
}

// WeekRanking summarizes the scores of one league week.
type WeekRanking struct {
	Highest float64
	Lowest  float64
	// Top3 holds the three highest scores of the week, descending.
	Top3 []float64
}

func (r WeekRanking) inTop3(score float64) bool {
	if len(r.Top3) == 0 {
		return false
	}
	return score >= r.Top3[len(r.Top3)-1]
}

type Rankings map[WeekKey]WeekRanking

// BuildWeekRankings ranks every team score of every week across the league.
func BuildWeekRankings(matchupsBySeason map[int][]model.Matchup, opts Options) Rankings {
	scores := make(map[WeekKey][]float64)
	for season, matchups := range matchupsBySeason {
		for _, m := range model.UnionMatchups(matchups) {
			if m.IsPlaceholder(opts.CurrentSeason) {
				continue
			}
			k := WeekKey{Season: season, Week: m.Week}
			scores[k] = append(scores[k], m.Team1.Score, m.Team2.Score)
		}
	}

	out := make(Rankings, len(scores))
	for k, s := range scores {
		sort.Sort(sort.Reverse(sort.Float64Slice(s)))
		n := min(3, len(s))
		top := make([]float64, n)
		copy(top, s[:n])
		out[k] = WeekRanking{Highest: s[0], Lowest: s[len(s)-1], Top3: top}
	}
	return out
}
