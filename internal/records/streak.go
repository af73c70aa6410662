package records

import (
	"github.com/moose735/TLOED/internal/streaks"
)

var streakTitles = map[streaks.Kind]string{
	streaks.KindWin:       "Longest Win Streak",
	streaks.KindLoss:      "Longest Losing Streak",
	streaks.KindHighScore: "Longest Highest-Score Streak",
	streaks.KindTopThree:  "Longest Top-3 Score Streak",
}

// DetectStreaks runs the streak detector over a history.
func DetectStreaks(in Inputs, opts Options) streaks.Result {
	sopts := streaks.Options{
		CurrentSeason: opts.CurrentSeason,
		CurrentWeek:   opts.CurrentWeek,
		Diagnostics:   opts.Diagnostics,
	}
	logs := streaks.BuildGameLogs(in.History.MatchupsBySeason, in.History.OwnersBySeason(), sopts)
	rankings := streaks.BuildWeekRankings(in.History.MatchupsBySeason, sopts)
	return streaks.Detect(logs, rankings, sopts)
}

// StreakRecords returns one table per published streak kind.
func StreakRecords(in Inputs, opts Options) []Table {
	res := in.Streaks
	if res == nil {
		detected := DetectStreaks(in, opts)
		res = &detected
	}

	out := make([]Table, 0, len(streaks.Published))
	for _, k := range streaks.Published {
		c := res.Category(k)
		entries := make([]Entry, 0, len(c.Holders))
		for _, s := range c.Holders {
			entries = append(entries, Entry{
				Season:    s.StartSeason,
				Week:      s.StartWeek,
				OwnerID:   s.OwnerID,
				TeamName:  in.name(s.OwnerID, s.EndSeason),
				EndSeason: s.EndSeason,
				EndWeek:   s.EndWeek,
			})
		}
		out = append(out, Table{
			Key:     "longest_" + string(k) + "_streak",
			Title:   streakTitles[k],
			Value:   float64(c.Longest),
			Entries: entries,
		})
	}
	return out
}
