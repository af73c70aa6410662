// Package model holds the normalized league history the analytics packages
// operate on. Every record carries a canonical owner/roster identity pair;
// raw platform variants are resolved in package ledger before they get here.
package model

import "sort"

// OwnerID is the stable franchise identity across seasons.
type OwnerID string

// RosterID is the season-scoped roster slot. The owner behind a roster id can
// change from one season to the next.
type RosterID string

type SeasonStats struct {
	OwnerID         OwnerID  `json:"owner_id"`
	RosterID        RosterID `json:"roster_id"`
	TeamName        string   `json:"team_name"`
	Wins            int      `json:"wins"`
	Losses          int      `json:"losses"`
	Ties            int      `json:"ties"`
	PointsFor       float64  `json:"points_for"`
	PointsAgainst   float64  `json:"points_against"`
	AllPlayWinPct   float64  `json:"all_play_win_pct"`
	LuckRating      float64  `json:"luck_rating"`
	AdjustedDPR     float64  `json:"adjusted_dpr"`
	IsChampion      bool     `json:"is_champion"`
	IsRunnerUp      bool     `json:"is_runner_up"`
	IsThirdPlace    bool     `json:"is_third_place"`
	WaiverFeesSpent float64  `json:"waiver_fees_spent"`
}

// Side is one team's half of a matchup.
type Side struct {
	RosterID RosterID `json:"roster_id"`
	Score    float64  `json:"score"`
}

type Matchup struct {
	Season           int  `json:"season"`
	Week             int  `json:"week"`
	Team1            Side `json:"team1"`
	Team2            Side `json:"team2"`
	IsWinnersBracket bool `json:"is_winners_bracket"`
	IsLosersBracket  bool `json:"is_losers_bracket"`
	// FinalSeedingGame is the placement decided by this game: 1 for the
	// championship, 3 for the third-place game, 0 otherwise.
	FinalSeedingGame int `json:"final_seeding_game,omitempty"`
}

// IsPlayoff reports whether the game belongs to either bracket.
func (m Matchup) IsPlayoff() bool {
	return m.IsWinnersBracket || m.IsLosersBracket
}

// IsPlaceholder reports whether the game is an unplayed slot: both scores
// zero in the league's current season.
func (m Matchup) IsPlaceholder(currentSeason int) bool {
	return m.Season == currentSeason && m.Team1.Score == 0 && m.Team2.Score == 0
}

// Margin returns the absolute score difference.
func (m Matchup) Margin() float64 {
	d := m.Team1.Score - m.Team2.Score
	if d < 0 {
		return -d
	}
	return d
}

// Combined returns the sum of both scores.
func (m Matchup) Combined() float64 {
	return m.Team1.Score + m.Team2.Score
}

// Winner returns the winning and losing sides. ok is false on a tie.
func (m Matchup) Winner() (winner Side, loser Side, ok bool) {
	switch {
	case m.Team1.Score > m.Team2.Score:
		return m.Team1, m.Team2, true
	case m.Team2.Score > m.Team1.Score:
		return m.Team2, m.Team1, true
	default:
		return Side{}, Side{}, false
	}
}

type gameKey struct {
	season, week int
	a, b         RosterID
}

// key identifies a game independent of side order.
func (m Matchup) key() gameKey {
	a, b := m.Team1.RosterID, m.Team2.RosterID
	if b < a {
		a, b = b, a
	}
	return gameKey{season: m.Season, week: m.Week, a: a, b: b}
}

// UnionMatchups merges matchup lists (regular season, winners bracket, losers
// bracket) into one list with each (season, week, roster pair) present once.
// The first occurrence wins, so pass the most detailed source first.
func UnionMatchups(sources ...[]Matchup) []Matchup {
	seen := make(map[gameKey]bool)
	out := make([]Matchup, 0)
	for _, src := range sources {
		for _, m := range src {
			k := m.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Week < out[j].Week
	})
	return out
}

type User struct {
	ID          OwnerID `json:"user_id"`
	DisplayName string  `json:"display_name"`
	TeamName    string  `json:"team_name,omitempty"`
}

// History is the full multi-season league record.
type History struct {
	MatchupsBySeason    map[int][]Matchup                     `json:"matchups_by_season"`
	RostersBySeason     map[int][]SeasonStats                 `json:"rosters_by_season"`
	DraftPicksBySeason  map[int][]DraftPick                   `json:"draft_picks_by_season"`
	TradedPicksBySeason map[int][]TradedPick                  `json:"traded_picks_by_season,omitempty"`
	PlayerSeasonPoints  map[int]map[string]PlayerSeasonPoints `json:"player_season_points,omitempty"`
	Transactions        []Transaction                         `json:"transactions,omitempty"`
	Users               []User                                `json:"users,omitempty"`
}

// Seasons returns every season mentioned anywhere in the history, ascending.
func (h *History) Seasons() []int {
	set := make(map[int]bool)
	for s := range h.MatchupsBySeason {
		set[s] = true
	}
	for s := range h.RostersBySeason {
		set[s] = true
	}
	for s := range h.DraftPicksBySeason {
		set[s] = true
	}
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// OwnersBySeason maps each season's roster ids to owners.
func (h *History) OwnersBySeason() map[int]map[RosterID]OwnerID {
	out := make(map[int]map[RosterID]OwnerID, len(h.RostersBySeason))
	for season, rosters := range h.RostersBySeason {
		m := make(map[RosterID]OwnerID, len(rosters))
		for _, r := range rosters {
			if r.RosterID == "" || r.OwnerID == "" {
				continue
			}
			m[r.RosterID] = r.OwnerID
		}
		out[season] = m
	}
	return out
}

// TeamNameFunc resolves the display name of an owner's team in a season.
type TeamNameFunc func(owner OwnerID, season int) string

// TeamName returns the owner's team name for the season, falling back to the
// user's team or display name and finally the owner id itself.
func (h *History) TeamName(owner OwnerID, season int) string {
	for _, r := range h.RostersBySeason[season] {
		if r.OwnerID == owner && r.TeamName != "" {
			return r.TeamName
		}
	}
	for _, u := range h.Users {
		if u.ID != owner {
			continue
		}
		if u.TeamName != "" {
			return u.TeamName
		}
		if u.DisplayName != "" {
			return u.DisplayName
		}
	}
	return string(owner)
}
