package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/moose735/TLOED/internal/config"
	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/observability"
	"github.com/moose735/TLOED/internal/store"
)

// ---- shared test helpers ----

func writeFixture(t *testing.T, path string, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeLeague writes two seasons for owners ann (roster 1) and bo (roster 2).
// ann wins every 2022 game and bo every 2023 game.
func writeLeague(t *testing.T, dir string) {
	t.Helper()
	for season, winner := range map[int]string{2022: "1", 2023: "2"} {
		loser := "2"
		if winner == "2" {
			loser = "1"
		}
		writeFixture(t, filepath.Join(dir, store.SeasonPath(season, store.RostersFile)), `[
			{"roster_id": 1, "owner_id": "ann", "team_name": "Aces", "points_for": 300},
			{"roster_id": 2, "owner_id": "bo", "team_name": "Bolts", "points_for": 250}
		]`)
		var games []string
		for week := 1; week <= 3; week++ {
			games = append(games, `{"week": `+itoa(week)+`, "team1_roster_id": `+winner+`, "team1_score": 110, "team2_roster_id": `+loser+`, "team2_score": 90}`)
		}
		writeFixture(t, filepath.Join(dir, store.SeasonPath(season, store.MatchupsFile)), "["+strings.Join(games, ",")+"]")
	}
	writeFixture(t, filepath.Join(dir, store.SeasonPath(2023, store.DraftPicksFile)), `[
		{"pick_no": 1, "round": 1, "picked_by": "ann", "position": "QB", "fantasy_points": 300},
		{"pick_no": 2, "round": 1, "picked_by": "bo", "position": "RB", "fantasy_points": 100},
		{"pick_no": 3, "round": 2, "picked_by": "bo", "position": "WR", "fantasy_points": 50},
		{"pick_no": 4, "round": 2, "roster_id": 1, "position": "WR", "fantasy_points": 10}
	]`)
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// tmpCfg creates a league directory and a ServerConfig pointing at it.
func tmpCfg(t *testing.T) ServerConfig {
	t.Helper()
	dir := t.TempDir()
	writeLeague(t, dir)
	cfg := config.Default()
	cfg.Data.Root = dir
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	return ServerConfig{
		Config:  cfg,
		Metrics: observability.NewMetrics("test", prometheus.NewRegistry()),
		Sink:    diag.Nop,
		Clock:   mock,
	}
}

// ---- tool builders ----

func TestBuildLeagueBadges_SeasonFilter(t *testing.T) {
	cfg := tmpCfg(t)
	all, err := buildLeagueBadges(cfg, LeagueBadgesArgs{})
	if err != nil {
		t.Fatalf("buildLeagueBadges: %v", err)
	}
	if all.Total == 0 || len(all.ByTeam["ann"]) == 0 || len(all.ByTeam["bo"]) == 0 {
		t.Fatalf("expected badges for both owners, got %+v", all)
	}

	season := 2022
	filtered, err := buildLeagueBadges(cfg, LeagueBadgesArgs{Season: &season})
	if err != nil {
		t.Fatalf("buildLeagueBadges: %v", err)
	}
	for _, bs := range filtered.ByTeam {
		for _, b := range bs {
			if b.Year != nil && *b.Year != 2022 {
				t.Errorf("badge %s from %d leaked into 2022 filter", b.ID, *b.Year)
			}
		}
	}
	if filtered.Total >= all.Total {
		t.Errorf("filtered total = %d, want fewer than %d", filtered.Total, all.Total)
	}
}

func TestBuildLeagueBadges_Recent(t *testing.T) {
	cfg := tmpCfg(t)
	out, err := buildLeagueBadges(cfg, LeagueBadgesArgs{Recent: true, Limit: 2})
	if err != nil {
		t.Fatalf("buildLeagueBadges: %v", err)
	}
	if len(out.Recent) != 2 || out.ByTeam != nil {
		t.Errorf("recent = %d, by team = %v", len(out.Recent), out.ByTeam)
	}
	if _, err := buildLeagueBadges(cfg, LeagueBadgesArgs{Limit: -1}); err == nil {
		t.Error("expected error for negative limit")
	}
}

func TestBuildOwnerBadges(t *testing.T) {
	cfg := tmpCfg(t)
	if _, err := buildOwnerBadges(cfg, OwnerBadgesArgs{}); err == nil {
		t.Error("expected error for missing owner_id")
	}
	out, err := buildOwnerBadges(cfg, OwnerBadgesArgs{OwnerID: "bo"})
	if err != nil {
		t.Fatalf("buildOwnerBadges: %v", err)
	}
	if out.Count == 0 || out.Count != len(out.Badges) {
		t.Errorf("count = %d, badges = %d", out.Count, len(out.Badges))
	}
	for _, b := range out.Badges {
		if b.TeamID != "bo" {
			t.Errorf("badge %s belongs to %s", b.ID, b.TeamID)
		}
	}
}

func TestBuildLeagueRecords_Groups(t *testing.T) {
	cfg := tmpCfg(t)
	book, err := buildLeagueRecords(cfg, LeagueRecordsArgs{Group: "season"})
	if err != nil {
		t.Fatalf("buildLeagueRecords: %v", err)
	}
	if len(book.Season) == 0 || book.Matchup != nil {
		t.Errorf("season group = %d tables, matchup = %v", len(book.Season), book.Matchup)
	}

	full, err := buildLeagueRecords(cfg, LeagueRecordsArgs{})
	if err != nil {
		t.Fatalf("buildLeagueRecords: %v", err)
	}
	if len(full.Matchup) == 0 || len(full.Streak) == 0 {
		t.Errorf("full book missing tables: %+v", full)
	}

	if _, err := buildLeagueRecords(cfg, LeagueRecordsArgs{Group: "bogus"}); err == nil {
		t.Error("expected error for unknown group")
	}
}

func TestBuildStreakRecords(t *testing.T) {
	cfg := tmpCfg(t)
	out, err := buildStreakRecords(cfg, StreakRecordsArgs{Kind: "win", Top: 5})
	if err != nil {
		t.Fatalf("buildStreakRecords: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("kinds = %d, want 1", len(out))
	}
	if out[0].Longest != 3 || len(out[0].Holders) != 2 {
		t.Errorf("win streaks = %+v, want both owners at 3", out[0])
	}
	if len(out[0].Top) != 2 {
		t.Errorf("top = %d, want 2", len(out[0].Top))
	}

	all, err := buildStreakRecords(cfg, StreakRecordsArgs{})
	if err != nil || len(all) != 4 {
		t.Errorf("all kinds = %d, %v", len(all), err)
	}
	if _, err := buildStreakRecords(cfg, StreakRecordsArgs{Kind: "lowest_score"}); err == nil {
		t.Error("expected error for unpublished kind")
	}
}

func TestBuildKeeperCost(t *testing.T) {
	cfg := tmpCfg(t)
	latest, err := buildKeeperCost(cfg, KeeperCostArgs{Owner: "ann", Round: 2})
	if err != nil {
		t.Fatalf("buildKeeperCost without season: %v", err)
	}
	if latest.Season != 2023 {
		t.Errorf("default season = %d, want latest 2023", latest.Season)
	}
	if cfg.Config.Engine.CurrentSeason != 0 {
		t.Errorf("shared config season = %d, want it left at 0", cfg.Config.Engine.CurrentSeason)
	}

	out, err := buildKeeperCost(cfg, KeeperCostArgs{Owner: "ann", Season: 2023, Round: 2})
	if err != nil {
		t.Fatalf("buildKeeperCost: %v", err)
	}
	if !out.Resolved || out.Label != "Round Cost: R2 (Pick 2.02)" {
		t.Errorf("keeper = %+v", out)
	}

	out, err = buildKeeperCost(cfg, KeeperCostArgs{Owner: "nobody", Round: 2})
	if err != nil {
		t.Fatalf("buildKeeperCost: %v", err)
	}
	if out.Resolved || out.Label != "Round Cost: R2" {
		t.Errorf("unresolved keeper = %+v", out)
	}
}

func TestBuildDraftValue(t *testing.T) {
	cfg := tmpCfg(t)
	dv, err := buildDraftValue(cfg, DraftValueArgs{Season: 2023, OwnerID: "bo"})
	if err != nil {
		t.Fatalf("buildDraftValue: %v", err)
	}
	if len(dv.Picks) != 2 || len(dv.Teams) != 1 {
		t.Errorf("picks = %d, teams = %d", len(dv.Picks), len(dv.Teams))
	}
	if _, err := buildDraftValue(cfg, DraftValueArgs{Season: 2022}); err == nil {
		t.Error("expected error for a season without picks")
	}
	if _, err := buildDraftValue(cfg, DraftValueArgs{Season: 2023, Strategy: "median"}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestLoadHistoryError(t *testing.T) {
	cfg := tmpCfg(t)
	cfg.Config.Data.Root = filepath.Join(t.TempDir(), "missing")
	res, _, _ := toolValue(buildLeagueRecords(cfg, LeagueRecordsArgs{}))
	if !res.IsError {
		t.Error("expected tool error for missing data")
	}
}

// ---- HTTP ----

func TestRouter_Auth(t *testing.T) {
	cfg := tmpCfg(t)
	reg := prometheus.NewRegistry()
	router := newRouter(cfg, "secret", reg)

	cases := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"no key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"header key", "X-API-Key", "secret", http.StatusOK},
		{"bearer", "Authorization", "Bearer secret", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		if tc.header != "" {
			req.Header.Set(tc.header, tc.value)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rr.Code, tc.want)
		}
	}
}

func TestRouter_ToolsAndMetrics(t *testing.T) {
	cfg := tmpCfg(t)
	reg := prometheus.NewRegistry()
	cfg.Metrics = observability.NewMetrics("legacy", reg)
	router := newRouter(cfg, "", reg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tools", nil))
	var body struct {
		Tools []toolInfo `json:"tools"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("tools JSON: %v", err)
	}
	names := make([]string, 0, len(body.Tools))
	for _, ti := range body.Tools {
		names = append(names, ti.Name)
	}
	want := "league_badges,owner_badges,league_records,streak_records,keeper_cost,draft_value"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("tools = %s, want %s", got, want)
	}

	cfg.Metrics.RecordToolCall("keeper_cost", time.Now(), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "legacy_server_tool_calls_total") {
		t.Errorf("metrics status = %d body = %s", rr.Code, rr.Body.String())
	}
}

// ---- MCP ----

func TestMCP_CallTool(t *testing.T) {
	ctx := context.Background()
	cfg := tmpCfg(t)
	server, _ := newMCPServer(cfg)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	if _, err := server.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "keeper_cost",
		Arguments: map[string]any{"owner": "bo", "season": 2023, "round": 2},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Round Cost: R2 (Pick 2.01)") {
		t.Errorf("keeper_cost = %s", text)
	}
}
