package ledger

import (
	"sort"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

// ParseRosters normalizes one season's roster aggregates. Records without a
// roster id are dropped; duplicates keep the first record.
func ParseRosters(season int, body []byte, sink diag.Sink) ([]model.SeasonStats, error) {
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	seen := make(map[model.RosterID]bool)
	out := make([]model.SeasonStats, 0, len(recs))
	for _, r := range recs {
		roster := model.RosterID(r.id("roster_id", "_key"))
		if roster == "" {
			diag.Skip(sink, component, "roster without roster_id", map[string]any{"season": season})
			continue
		}
		if seen[roster] {
			diag.Skip(sink, component, "duplicate roster", map[string]any{"season": season, "roster_id": roster})
			continue
		}
		seen[roster] = true
		owner := model.OwnerID(r.id("owner_id", "metadata.owner_id"))
		if owner == "" {
			diag.Skip(sink, component, "roster without owner", map[string]any{"season": season, "roster_id": roster})
		}
		out = append(out, model.SeasonStats{
			OwnerID:         owner,
			RosterID:        roster,
			TeamName:        r.str("team_name", "metadata.team_name"),
			Wins:            r.integer("wins", "settings.wins"),
			Losses:          r.integer("losses", "settings.losses"),
			Ties:            r.integer("ties", "settings.ties"),
			PointsFor:       r.num("points_for", "fpts", "settings.fpts"),
			PointsAgainst:   r.num("points_against", "fpts_against", "settings.fpts_against"),
			AllPlayWinPct:   r.num("all_play_win_pct", "allPlayWinPercentage"),
			LuckRating:      r.num("luck_rating", "luckRating"),
			AdjustedDPR:     r.num("adjusted_dpr", "adjustedDPR"),
			IsChampion:      r.boolean("is_champion", "isChampion"),
			IsRunnerUp:      r.boolean("is_runner_up", "isRunnerUp"),
			IsThirdPlace:    r.boolean("is_third_place", "isThirdPlace"),
			WaiverFeesSpent: r.num("waiver_fees_spent", "settings.waiver_budget_used"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RosterID < out[j].RosterID })
	return out, nil
}

// ParseMatchups normalizes one season's matchups. Two shapes are accepted:
// paired games (team1_roster_id/team1_score/...) and per-roster rows that
// share a matchup_id within a week, which are paired here. Rows that cannot
// be paired are dropped with a diagnostic.
func ParseMatchups(season int, body []byte, sink diag.Sink) ([]model.Matchup, error) {
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}

	type slot struct{ week, matchupID int }
	rows := make(map[slot][]record)
	var slots []slot
	out := make([]model.Matchup, 0, len(recs))

	for _, r := range recs {
		if r.has("team1_roster_id", "team1.roster_id") {
			m := model.Matchup{
				Season:           season,
				Week:             r.integer("week"),
				Team1:            model.Side{RosterID: model.RosterID(r.id("team1_roster_id", "team1.roster_id")), Score: r.num("team1_score", "team1.score")},
				Team2:            model.Side{RosterID: model.RosterID(r.id("team2_roster_id", "team2.roster_id")), Score: r.num("team2_score", "team2.score")},
				IsWinnersBracket: r.boolean("is_winners_bracket"),
				IsLosersBracket:  r.boolean("is_losers_bracket"),
				FinalSeedingGame: r.integer("final_seeding_game", "p"),
			}
			if !validMatchup(m) {
				diag.Skip(sink, component, "invalid matchup", map[string]any{"season": season, "week": m.Week})
				continue
			}
			out = append(out, m)
			continue
		}
		k := slot{week: r.integer("week"), matchupID: r.integer("matchup_id")}
		if k.matchupID == 0 || k.week == 0 {
			diag.Skip(sink, component, "matchup row without week or matchup_id", map[string]any{"season": season})
			continue
		}
		if _, ok := rows[k]; !ok {
			slots = append(slots, k)
		}
		rows[k] = append(rows[k], r)
	}

	for _, k := range slots {
		pair := rows[k]
		if len(pair) != 2 {
			diag.Skip(sink, component, "unpaired matchup rows", map[string]any{"season": season, "week": k.week, "matchup_id": k.matchupID, "rows": len(pair)})
			continue
		}
		m := model.Matchup{
			Season:           season,
			Week:             k.week,
			Team1:            model.Side{RosterID: model.RosterID(pair[0].id("roster_id")), Score: pair[0].num("points", "score")},
			Team2:            model.Side{RosterID: model.RosterID(pair[1].id("roster_id")), Score: pair[1].num("points", "score")},
			IsWinnersBracket: pair[0].boolean("is_winners_bracket"),
			IsLosersBracket:  pair[0].boolean("is_losers_bracket"),
			FinalSeedingGame: pair[0].integer("final_seeding_game", "p"),
		}
		if !validMatchup(m) {
			diag.Skip(sink, component, "invalid matchup", map[string]any{"season": season, "week": m.Week})
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}

func validMatchup(m model.Matchup) bool {
	return m.Week > 0 &&
		m.Team1.RosterID != "" && m.Team2.RosterID != "" &&
		m.Team1.RosterID != m.Team2.RosterID &&
		m.Team1.Score >= 0 && m.Team2.Score >= 0
}
