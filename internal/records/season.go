package records

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/moose735/TLOED/internal/model"
)

// PlayoffRecords returns the winners-bracket game tables plus the career
// championship and playoff appearance counts.
func PlayoffRecords(in Inputs, opts Options) []Table {
	high := highest("highest_playoff_score", "Highest Playoff Score")
	low := lowest("lowest_playoff_score", "Lowest Playoff Score")
	blowout := highest("biggest_playoff_blowout", "Biggest Playoff Blowout")

	gs := games(in, opts, func(m model.Matchup) bool { return m.IsWinnersBracket })
	in.singleGame(gs, high, low, blowout)

	appearances := make(map[model.OwnerID]map[int]bool)
	for _, g := range gs {
		for _, o := range []model.OwnerID{g.owner1, g.owner2} {
			if appearances[o] == nil {
				appearances[o] = make(map[int]bool)
			}
			appearances[o][g.m.Season] = true
		}
	}
	titles := make(map[model.OwnerID]map[int]bool)
	for season, rosters := range in.History.RostersBySeason {
		for _, r := range rosters {
			if !r.IsChampion || r.OwnerID == "" {
				continue
			}
			if titles[r.OwnerID] == nil {
				titles[r.OwnerID] = make(map[int]bool)
			}
			titles[r.OwnerID][season] = true
		}
	}

	return append(tables(high, low, blowout),
		in.careerCount("most_championships", "Most Championships", titles),
		in.careerCount("most_playoff_appearances", "Most Playoff Appearances", appearances),
	)
}

func (in Inputs) careerCount(key, title string, seasonsByOwner map[model.OwnerID]map[int]bool) Table {
	t := highest(key, title)
	for owner, set := range seasonsByOwner {
		seasons := make([]int, 0, len(set))
		for s := range set {
			seasons = append(seasons, s)
		}
		sort.Ints(seasons)
		latest := 0
		if len(seasons) > 0 {
			latest = seasons[len(seasons)-1]
		}
		t.offer(float64(len(seasons)), Entry{OwnerID: owner, TeamName: in.name(owner, latest), Seasons: seasons})
	}
	return t.table()
}

// SeasonRecords returns the single-season tables. Rosters that have not
// played a game yet are ignored.
func SeasonRecords(in Inputs, opts Options) []Table {
	wins := highest("most_wins", "Most Wins")
	mostPF := highest("most_points_for", "Most Points For")
	fewestPF := lowest("fewest_points_for", "Fewest Points For")
	allPlay := highest("best_all_play", "Best All-Play Record")
	lucky := highest("luckiest", "Luckiest Season")
	unlucky := lowest("unluckiest", "Unluckiest Season")
	average := highest("best_scoring_average", "Best Scoring Average")

	for season, rosters := range in.History.RostersBySeason {
		for _, r := range rosters {
			if r.OwnerID == "" || r.Wins+r.Losses+r.Ties == 0 {
				continue
			}
			e := Entry{Season: season, OwnerID: r.OwnerID, TeamName: in.name(r.OwnerID, season)}
			wins.offer(float64(r.Wins), e)
			mostPF.offer(r.PointsFor, e)
			fewestPF.offer(r.PointsFor, e)
			allPlay.offer(r.AllPlayWinPct, e)
			lucky.offer(r.LuckRating, e)
			unlucky.offer(r.LuckRating, e)
		}
	}

	type ownerSeason struct {
		owner  model.OwnerID
		season int
	}
	scores := make(map[ownerSeason][]float64)
	for _, g := range games(in, opts, func(m model.Matchup) bool { return !m.IsPlayoff() }) {
		k1 := ownerSeason{g.owner1, g.m.Season}
		k2 := ownerSeason{g.owner2, g.m.Season}
		scores[k1] = append(scores[k1], g.m.Team1.Score)
		scores[k2] = append(scores[k2], g.m.Team2.Score)
	}
	for k, s := range scores {
		average.offer(stat.Mean(s, nil), Entry{Season: k.season, OwnerID: k.owner, TeamName: in.name(k.owner, k.season)})
	}

	return tables(wins, mostPF, fewestPF, allPlay, lucky, unlucky, average)
}
