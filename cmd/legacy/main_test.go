package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/moose735/TLOED/internal/store"
)

func writeFixture(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// leagueDir writes a two-team, one-season league.
func leagueDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, store.SeasonPath(2023, store.RostersFile), `[
		{"roster_id": 1, "owner_id": "ann", "team_name": "Aces", "wins": 3, "points_for": 360},
		{"roster_id": 2, "owner_id": "bo", "team_name": "Bolts", "losses": 3, "points_for": 270}
	]`)
	writeFixture(t, root, store.SeasonPath(2023, store.MatchupsFile), `[
		{"week": 1, "team1_roster_id": 1, "team1_score": 120, "team2_roster_id": 2, "team2_score": 90},
		{"week": 2, "team1_roster_id": 1, "team1_score": 110, "team2_roster_id": 2, "team2_score": 100},
		{"week": 3, "team1_roster_id": 2, "team1_score": 80, "team2_roster_id": 1, "team2_score": 130}
	]`)
	writeFixture(t, root, store.SeasonPath(2023, store.DraftPicksFile), `[
		{"pick_no": 1, "round": 1, "picked_by": "ann", "player_name": "Jo", "position": "QB", "fantasy_points": 300},
		{"pick_no": 2, "round": 1, "picked_by": "bo", "player_name": "Bo", "position": "RB", "fantasy_points": 150},
		{"pick_no": 3, "round": 2, "picked_by": "bo", "player_name": "Cy", "position": "WR", "fantasy_points": 40},
		{"pick_no": 4, "round": 2, "picked_by": "ann", "player_name": "Di", "position": "TE", "fantasy_points": 20}
	]`)
	return root
}

func testGlobal(data string) (*globalCmd, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &globalCmd{Data: data, JSON: true, out: buf, log: log}, buf
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestBadgesCmd_JSON(t *testing.T) {
	g, buf := testGlobal(leagueDir(t))
	if err := (&badgesCmd{}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var res struct {
		ByTeam map[string][]map[string]any `json:"badges_by_team"`
	}
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(res.ByTeam["ann"]) == 0 {
		t.Errorf("ann has no badges: %s", buf.String())
	}
}

func TestBadgesCmd_Table(t *testing.T) {
	g, buf := testGlobal(leagueDir(t))
	g.JSON = false
	if err := (&badgesCmd{Owner: "ann"}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(buf.String(), "Points Title") {
		t.Errorf("table missing Points Title:\n%s", buf.String())
	}
}

func TestStreaksCmd(t *testing.T) {
	g, buf := testGlobal(leagueDir(t))
	if err := (&streaksCmd{}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var res struct {
		Categories map[string]struct {
			Longest int `json:"longest"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if res.Categories["win"].Longest != 3 {
		t.Errorf("win longest = %d, want 3", res.Categories["win"].Longest)
	}
}

func TestRecordsCmd(t *testing.T) {
	g, buf := testGlobal(leagueDir(t))
	if err := (&recordsCmd{}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(buf.String(), `"highest_score"`) {
		t.Errorf("records missing highest_score:\n%s", buf.String())
	}
}

func TestKeeperCmd(t *testing.T) {
	g, buf := testGlobal(leagueDir(t))
	// No --season: the latest season of the history is used.
	if err := (&keeperCmd{Owner: "bo", Round: 2}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(buf.String(), "Round Cost: R2 (Pick 2.01)") {
		t.Errorf("keeper output = %s", buf.String())
	}

	if err := (&keeperCmd{Owner: "bo", Round: 0}).Run(g); err == nil {
		t.Error("expected error for round 0")
	}
}

func TestDraftValueCmd_DefaultsToLatestDraft(t *testing.T) {
	g, buf := testGlobal(leagueDir(t))
	if err := (&draftValueCmd{}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var dv struct {
		Season int              `json:"season"`
		Picks  []map[string]any `json:"picks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &dv); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if dv.Season != 2023 || len(dv.Picks) != 4 {
		t.Errorf("season = %d, picks = %d", dv.Season, len(dv.Picks))
	}

	if err := (&draftValueCmd{Strategy: "median"}).Run(g); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestFitCurveCmd(t *testing.T) {
	g, buf := testGlobal(leagueDir(t))
	if err := (&fitCurveCmd{Slots: 4}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(buf.String(), `"samples": 4`) {
		t.Errorf("fit output = %s", buf.String())
	}
}

func TestSummarizeAndSnapshot(t *testing.T) {
	data := leagueDir(t)
	out := filepath.Join(t.TempDir(), "derived")
	g, _ := testGlobal(data)

	if err := (&summarizeCmd{Out: out}).Run(g); err != nil {
		t.Fatalf("summarize error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "league_summary.json")); err != nil {
		t.Errorf("summary not written: %v", err)
	}

	snap := filepath.Join(out, "history.json")
	if err := (&snapshotCmd{Out: snap}).Run(g); err != nil {
		t.Fatalf("snapshot error: %v", err)
	}

	// The snapshot is itself a valid --data source.
	g2, buf := testGlobal(snap)
	if err := (&streaksCmd{}).Run(g2); err != nil {
		t.Fatalf("streaks from snapshot error: %v", err)
	}
	if !strings.Contains(buf.String(), `"longest": 3`) {
		t.Errorf("snapshot streaks = %s", buf.String())
	}
}

func TestLoad_MissingData(t *testing.T) {
	g, _ := testGlobal(filepath.Join(t.TempDir(), "nope"))
	if _, err := g.load(); err == nil {
		t.Error("expected error for missing data directory")
	}
}

func TestCheckCmd(t *testing.T) {
	data := leagueDir(t)
	g, buf := testGlobal(data)
	if err := (&checkCmd{Strict: true}).Run(g); err != nil {
		t.Fatalf("check error: %v", err)
	}
	if !strings.Contains(buf.String(), `"entries": []`) {
		t.Errorf("check output = %s", buf.String())
	}

	writeFixture(t, data, store.SeasonPath(2023, store.RostersFile), `[
		{"roster_id": 1, "owner_id": "ann", "wins": 2, "points_for": 360},
		{"roster_id": 2, "owner_id": "bo", "losses": 3, "points_for": 270}
	]`)
	g, _ = testGlobal(data)
	if err := (&checkCmd{}).Run(g); err != nil {
		t.Fatalf("non-strict check error: %v", err)
	}
	if err := (&checkCmd{Strict: true}).Run(g); !errors.Is(err, errMismatches) {
		t.Errorf("strict check error = %v, want errMismatches", err)
	}
}

func TestStreaksCmd_UnplayedWeekIsNotATie(t *testing.T) {
	data := leagueDir(t)
	writeFixture(t, data, store.SeasonPath(2023, store.MatchupsFile), `[
		{"week": 1, "team1_roster_id": 1, "team1_score": 120, "team2_roster_id": 2, "team2_score": 90},
		{"week": 2, "team1_roster_id": 1, "team1_score": 110, "team2_roster_id": 2, "team2_score": 100},
		{"week": 3, "team1_roster_id": 2, "team1_score": 80, "team2_roster_id": 1, "team2_score": 130},
		{"week": 4, "team1_roster_id": 1, "team1_score": 0, "team2_roster_id": 2, "team2_score": 0},
		{"week": 5, "team1_roster_id": 1, "team1_score": 105, "team2_roster_id": 2, "team2_score": 95}
	]`)
	g, buf := testGlobal(data)
	if err := (&streaksCmd{}).Run(g); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var res struct {
		Categories map[string]struct {
			Longest int `json:"longest"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if res.Categories["win"].Longest != 4 {
		t.Errorf("win longest = %d, want 4 with the 0-0 week skipped", res.Categories["win"].Longest)
	}
}
