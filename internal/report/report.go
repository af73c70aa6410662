// Package report renders analytics output as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/moose735/TLOED/internal/badges"
	"github.com/moose735/TLOED/internal/draftvalue"
	"github.com/moose735/TLOED/internal/keeper"
	"github.com/moose735/TLOED/internal/model"
	"github.com/moose735/TLOED/internal/reconcile"
	"github.com/moose735/TLOED/internal/records"
	"github.com/moose735/TLOED/internal/streaks"
	"github.com/moose735/TLOED/internal/summary"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func year(b model.Badge) string {
	if b.Year == nil {
		return "career"
	}
	return fmt.Sprint(*b.Year)
}

// Badges prints one row per badge grouped by owner, or only owner's badges
// when owner is set.
func Badges(w io.Writer, res badges.Result, owner model.OwnerID) {
	t := newTable(w, "Badges")
	t.AppendHeader(table.Row{"Owner", "Year", "Badge", "Category"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})

	owners := make([]string, 0, len(res.ByTeam))
	for o := range res.ByTeam {
		if owner == "" || o == owner {
			owners = append(owners, string(o))
		}
	}
	sort.Strings(owners)
	for _, o := range owners {
		for _, b := range summary.OwnerBadges(res, model.OwnerID(o)) {
			t.AppendRow(table.Row{o, year(b), b.DisplayName, b.Category})
		}
		t.AppendSeparator()
	}
	t.Render()
}

// Recent prints the recent-badge feed.
func Recent(w io.Writer, res badges.Result) {
	t := newTable(w, "Recent Badges")
	t.AppendHeader(table.Row{"Year", "Team", "Badge", "Category"})
	for _, b := range res.Recent {
		team, _ := b.Metadata["team_name"].(string)
		if team == "" {
			team = string(b.TeamID)
		}
		t.AppendRow(table.Row{year(b), team, b.DisplayName, b.Category})
	}
	t.Render()
}

func entryWhen(e records.Entry) string {
	switch {
	case e.EndSeason != 0:
		return fmt.Sprintf("%d W%d - %d W%d", e.Season, e.Week, e.EndSeason, e.EndWeek)
	case len(e.Seasons) > 0:
		parts := make([]string, len(e.Seasons))
		for i, s := range e.Seasons {
			parts[i] = fmt.Sprint(s)
		}
		return strings.Join(parts, ", ")
	case e.Week != 0:
		return fmt.Sprintf("%d W%d", e.Season, e.Week)
	case e.Season != 0:
		return fmt.Sprint(e.Season)
	default:
		return ""
	}
}

// Records prints every table of the record book.
func Records(w io.Writer, book records.Book) {
	groups := []struct {
		name   string
		tables []records.Table
	}{
		{"Matchup Records", book.Matchup},
		{"Playoff Records", book.Playoff},
		{"Season Records", book.Season},
		{"Streak Records", book.Streak},
	}
	for _, g := range groups {
		t := newTable(w, g.name)
		t.AppendHeader(table.Row{"Record", "Value", "Team", "When", "Opponent"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, AutoMerge: true},
			{Number: 2, AutoMerge: true},
		})
		for _, tb := range g.tables {
			if len(tb.Entries) == 0 {
				t.AppendRow(table.Row{tb.Title, "-", "", "", ""})
				continue
			}
			for _, e := range tb.Entries {
				t.AppendRow(table.Row{tb.Title, fmt.Sprintf("%.2f", tb.Value), e.TeamName, entryWhen(e), e.OpponentName})
			}
		}
		t.Render()
	}
}

// Streaks prints the longest holders of each published streak kind.
func Streaks(w io.Writer, res streaks.Result) {
	t := newTable(w, "Streaks")
	t.AppendHeader(table.Row{"Kind", "Length", "Owner", "From", "To"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	for _, k := range streaks.Published {
		c := res.Category(k)
		if len(c.Holders) == 0 {
			t.AppendRow(table.Row{k, 0, "-", "", ""})
			continue
		}
		for _, s := range c.Holders {
			t.AppendRow(table.Row{k, s.Length, s.OwnerID,
				fmt.Sprintf("%d W%d", s.StartSeason, s.StartWeek),
				fmt.Sprintf("%d W%d", s.EndSeason, s.EndWeek)})
		}
	}
	t.Render()
}

func Keeper(w io.Writer, owner string, season int, res keeper.Result) {
	t := newTable(w, "Keeper Cost")
	t.AppendHeader(table.Row{"Owner", "Season", "Resolved", "Label"})
	t.AppendRow(table.Row{owner, season, res.Resolved, res.Label})
	t.Render()
}

// DraftValues prints per-pick deltas and the per-owner position totals.
func DraftValues(w io.Writer, dv summary.DraftValueSummary) {
	t := newTable(w, fmt.Sprintf("Draft Value %d (A=%.2f B=%.2f)", dv.Season, dv.Curve.A, dv.Curve.B))
	t.AppendHeader(table.Row{"Pick", "Round", "Owner", "Player", "Pos", "Expected", "Actual", "Delta"})
	for _, v := range dv.Picks {
		t.AppendRow(table.Row{v.Pick.PickNo, v.Pick.Round, v.Pick.OwnerID, v.Pick.PlayerName, v.Position,
			fmt.Sprintf("%.2f", v.Expected), fmt.Sprintf("%.2f", v.Actual), fmt.Sprintf("%+.2f", v.Delta)})
	}
	t.Render()

	tt := newTable(w, "Scaled VORP by Position")
	tt.AppendHeader(table.Row{"Owner", "Pos", "Picks", "Raw", "Scaled"})
	tt.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	owners := make([]string, 0, len(dv.Teams))
	for o := range dv.Teams {
		owners = append(owners, string(o))
	}
	sort.Strings(owners)
	for _, o := range owners {
		byPos := dv.Teams[model.OwnerID(o)]
		positions := make([]string, 0, len(byPos))
		for p := range byPos {
			positions = append(positions, p)
		}
		sort.Strings(positions)
		for _, p := range positions {
			tot := byPos[p]
			tt.AppendRow(table.Row{o, p, tot.Count, fmt.Sprintf("%.2f", tot.RawSum), fmt.Sprintf("%.2f", tot.ScaledSum)})
		}
	}
	tt.Render()
}

// Curve prints the expected value of the first n pick slots.
func Curve(w io.Writer, c draftvalue.Curve, n int) {
	t := newTable(w, fmt.Sprintf("Value Curve (A=%.3f B=%.3f)", c.A, c.B))
	t.AppendHeader(table.Row{"Pick", "Expected"})
	for p := 1; p <= n; p++ {
		t.AppendRow(table.Row{p, fmt.Sprintf("%.2f", c.Value(p))})
	}
	t.Render()
}

// Check prints the roster consistency report.
func Check(w io.Writer, r *reconcile.Report) {
	if len(r.Entries) == 0 {
		fmt.Fprintf(w, "%d seasons checked, rosters match their games\n", len(r.Seasons))
		return
	}
	t := newTable(w, "Roster Mismatches")
	t.AppendHeader(table.Row{"Season", "Roster", "Owner", "Field", "Recorded", "Derived"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	for _, e := range r.Entries {
		if e.MissingRoster {
			t.AppendRow(table.Row{e.Season, e.RosterID, "", "missing roster", "", ""})
			continue
		}
		t.AppendRow(table.Row{e.Season, e.RosterID, e.OwnerID, e.Field,
			strings.TrimSuffix(fmt.Sprintf("%.2f", e.Recorded), ".00"),
			strings.TrimSuffix(fmt.Sprintf("%.2f", e.Derived), ".00")})
	}
	t.Render()
}
