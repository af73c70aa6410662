package badges

import (
	"math"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

// ---------------------------------------------------------------------------
// fixtures
// ---------------------------------------------------------------------------

func mu(season, week int, r1 string, s1 float64, r2 string, s2 float64) model.Matchup {
	return model.Matchup{
		Season: season,
		Week:   week,
		Team1:  model.Side{RosterID: model.RosterID(r1), Score: s1},
		Team2:  model.Side{RosterID: model.RosterID(r2), Score: s2},
	}
}

func roster(owner, rosterID string, wins int, pf float64) model.SeasonStats {
	return model.SeasonStats{
		OwnerID:   model.OwnerID(owner),
		RosterID:  model.RosterID(rosterID),
		Wins:      wins,
		Losses:    13 - wins,
		PointsFor: pf,
	}
}

func fixedClock(t *testing.T) *clock.Mock {
	t.Helper()
	c := clock.NewMock()
	c.Set(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))
	return c
}

func byName(res Result, owner model.OwnerID, name string) []model.Badge {
	var out []model.Badge
	for _, b := range res.ByTeam[owner] {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

func hasBadge(res Result, owner model.OwnerID, name string) bool {
	return len(byName(res, owner, name)) > 0
}

func richHistory() *model.History {
	fee := 12.5
	return &model.History{
		MatchupsBySeason: map[int][]model.Matchup{
			2023: {
				mu(2023, 1, "1", 150, "2", 70),
				mu(2023, 1, "3", 101.5, "4", 100),
				mu(2023, 2, "1", 120, "3", 119.7),
				mu(2023, 2, "2", 80, "4", 95),
				mu(2023, 3, "1", 130, "2", 128.6),
				mu(2023, 3, "3", 90, "4", 88),
				mu(2023, 4, "1", 110, "2", 90),
				mu(2023, 4, "3", 60, "4", 0.5),
			},
			2024: {
				mu(2024, 1, "1", 100, "2", 99.99),
				mu(2024, 1, "3", 140, "4", 70),
			},
		},
		RostersBySeason: map[int][]model.SeasonStats{
			2023: {
				{OwnerID: "ann", RosterID: "1", Wins: 4, PointsFor: 510, AllPlayWinPct: 0.8, LuckRating: 1.2, AdjustedDPR: 1.25, IsChampion: true},
				{OwnerID: "bo", RosterID: "2", Wins: 0, Losses: 4, PointsFor: 368.6, AllPlayWinPct: 0.2, LuckRating: -1.1, AdjustedDPR: 0.84, IsRunnerUp: true},
				{OwnerID: "cy", RosterID: "3", Wins: 3, Losses: 1, PointsFor: 371.2, AllPlayWinPct: 0.6, LuckRating: 0.3, AdjustedDPR: 1.01},
				{OwnerID: "di", RosterID: "4", Wins: 1, Losses: 3, PointsFor: 283.5, AllPlayWinPct: 0.4, LuckRating: -0.4, AdjustedDPR: 0.93, IsThirdPlace: true},
			},
			2024: {
				{OwnerID: "ann", RosterID: "2", Wins: 1, PointsFor: 100, AdjustedDPR: 1.1},
				{OwnerID: "bo", RosterID: "1", Wins: 0, Losses: 1, PointsFor: 99.99, AdjustedDPR: 0.9, IsRunnerUp: true},
				{OwnerID: "cy", RosterID: "3", Wins: 1, PointsFor: 140, AdjustedDPR: 1.3},
				{OwnerID: "di", RosterID: "4", Wins: 0, Losses: 1, PointsFor: 70, AdjustedDPR: 0.8},
			},
		},
		DraftPicksBySeason: map[int][]model.DraftPick{
			2023: {
				{Season: 2023, PickNo: 1, Round: 1, OwnerID: "ann", RosterID: "1", PlayerID: "p1", Position: "QB", FantasyPoints: 300},
				{Season: 2023, PickNo: 2, Round: 1, OwnerID: "bo", RosterID: "2", PlayerID: "p2", Position: "RB", FantasyPoints: 5},
				{Season: 2023, PickNo: 3, Round: 1, OwnerID: "cy", RosterID: "3", PlayerID: "p3", Position: "RB", FantasyPoints: 90},
				{Season: 2023, PickNo: 4, Round: 1, OwnerID: "di", RosterID: "4", PlayerID: "p4", Position: "QB", FantasyPoints: 40},
			},
		},
		Transactions: []model.Transaction{
			{ID: "t1", Status: "complete", Created: time.Date(2023, 9, 10, 0, 0, 0, 0, time.UTC).UnixMilli(), RosterIDs: []model.RosterID{"2"}, Fee: &fee},
			{ID: "t2", Status: "complete", Created: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC).Unix(), RosterIDs: []model.RosterID{"2", "3"}},
			{ID: "t3", Status: "failed", Created: time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC).Unix(), RosterIDs: []model.RosterID{"3"}},
		},
		Users: []model.User{{ID: "ann", DisplayName: "Ann"}},
	}
}

// ---------------------------------------------------------------------------
// Shape and determinism
// ---------------------------------------------------------------------------

func TestCompute_NilHistory(t *testing.T) {
	res := Compute(Inputs{}, Options{})
	require.NotNil(t, res.ByTeam)
	require.NotNil(t, res.Recent)
	assert.Zero(t, res.Count())
}

func TestCompute_MalformedInputNeverPanics(t *testing.T) {
	h := &model.History{
		MatchupsBySeason: map[int][]model.Matchup{
			2022: {
				mu(2022, 1, "1", math.NaN(), "2", 10),
				mu(2022, 1, "3", -4, "4", 10),
				mu(2022, 2, "1", math.Inf(1), "9", 10),
				mu(2022, 2, "", 0, "", 0),
				{},
			},
			0: nil,
		},
		RostersBySeason: map[int][]model.SeasonStats{
			2022: {
				{OwnerID: "", RosterID: "1"},
				{OwnerID: "x", RosterID: "2", PointsFor: math.NaN(), LuckRating: math.Inf(-1), AdjustedDPR: math.NaN()},
				{OwnerID: "x", RosterID: "3"},
				{OwnerID: "y", RosterID: "4", IsChampion: true},
			},
		},
		DraftPicksBySeason: map[int][]model.DraftPick{
			2022: {
				{PickNo: 0, OwnerID: "x"},
				{PickNo: -3},
				{PickNo: 1, RosterID: "4", FantasyPoints: math.NaN()},
			},
		},
		PlayerSeasonPoints: map[int]map[string]model.PlayerSeasonPoints{
			2022: {"": {Points: math.NaN()}},
		},
		Transactions: []model.Transaction{{Created: -1}, {Created: math.MaxInt64}, {RosterIDs: []model.RosterID{""}}},
	}
	rec := &diag.Recorder{}

	var res Result
	require.NotPanics(t, func() {
		res = Compute(Inputs{History: h}, Options{Diagnostics: rec, Clock: fixedClock(t)})
	})
	assert.NotNil(t, res.ByTeam)
	assert.NotNil(t, res.Recent)
	assert.NotZero(t, rec.Count(component), "skipped records are reported")
}

func TestCompute_UniqueIDs(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	seen := make(map[string]bool)
	for owner, bs := range res.ByTeam {
		for _, b := range bs {
			assert.Falsef(t, seen[b.ID], "duplicate id %s", b.ID)
			seen[b.ID] = true
			assert.Equal(t, owner, b.TeamID)
			assert.NotEmpty(t, b.DisplayName)
			assert.NotEmpty(t, b.Icon)
			assert.NotEmpty(t, b.Accent)
			assert.False(t, b.Timestamp.IsZero())
		}
	}
	assert.Len(t, res.Recent, len(seen))
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})
	b := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})
	assert.Equal(t, a, b)
}

func TestCompute_RecentSortedByYearDescending(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{RecentLimit: 5, Clock: fixedClock(t)})

	require.Len(t, res.Recent, 5)
	for i := 1; i < len(res.Recent); i++ {
		assert.GreaterOrEqual(t, sortYear(res.Recent[i-1]), sortYear(res.Recent[i]))
	}
}

// ---------------------------------------------------------------------------
// Season rules
// ---------------------------------------------------------------------------

func TestCompute_DominantOwnerGetsSeasonAndPointsTitle(t *testing.T) {
	h := &model.History{
		RostersBySeason: map[int][]model.SeasonStats{
			2021: {
				roster("ace", "1", 12, 1900),
				roster("bee", "2", 7, 1500),
				roster("cat", "3", 5, 1400),
			},
		},
	}

	res := Compute(Inputs{History: h}, Options{Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "ace", "Season Title"))
	assert.True(t, hasBadge(res, "ace", "Points Title"))
	assert.True(t, hasBadge(res, "bee", "Points Runner-Up"))
	assert.True(t, hasBadge(res, "cat", "Points 3rd"))

	title := byName(res, "ace", "Season Title")[0]
	require.NotNil(t, title.Year)
	assert.Equal(t, 2021, *title.Year)
	assert.Equal(t, "season:season-title:2021:ace", title.ID)
}

func TestCompute_SeasonTitleTieBreaksOnPoints(t *testing.T) {
	h := &model.History{
		RostersBySeason: map[int][]model.SeasonStats{
			2021: {roster("ace", "1", 10, 1500), roster("bee", "2", 10, 1600)},
		},
	}
	res := Compute(Inputs{History: h}, Options{Clock: fixedClock(t)})
	assert.False(t, hasBadge(res, "ace", "Season Title"))
	assert.True(t, hasBadge(res, "bee", "Season Title"))
}

func TestCompute_PointsTitlesShareTiedRanks(t *testing.T) {
	h := &model.History{
		RostersBySeason: map[int][]model.SeasonStats{
			2021: {
				roster("ace", "1", 9, 1600),
				roster("bee", "2", 8, 1600.001),
				roster("cat", "3", 7, 1400),
				roster("dog", "4", 2, 1200),
			},
		},
	}
	res := Compute(Inputs{History: h}, Options{Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "ace", "Points Title"))
	assert.True(t, hasBadge(res, "bee", "Points Title"))
	assert.True(t, hasBadge(res, "cat", "Points 3rd"))
	for _, o := range []model.OwnerID{"ace", "bee", "cat", "dog"} {
		assert.False(t, hasBadge(res, o, "Points Runner-Up"), "no second place after a tie for first: %s", o)
	}
	assert.False(t, hasBadge(res, "dog", "Points 3rd"))
}

func TestCompute_TripleCrown(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{Clock: fixedClock(t)})
	assert.True(t, hasBadge(res, "ann", "Triple Crown"))
	assert.False(t, hasBadge(res, "cy", "Triple Crown"))
}

func TestCompute_PlayoffFinishAndTiers(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "ann", "Champion"))
	assert.True(t, hasBadge(res, "bo", "Runner Up"))
	assert.True(t, hasBadge(res, "di", "3rd Place"))
	assert.True(t, hasBadge(res, "ann", "Diamond Season"))
	assert.True(t, hasBadge(res, "bo", "Clay Season"))
	assert.True(t, hasBadge(res, "di", "Iron Season"))
	assert.True(t, hasBadge(res, "bo", "Silverback-To-Back"))
	assert.Equal(t, model.CategoryBlunder, byName(res, "bo", "Clay Season")[0].Category)
}

func TestDPRTierName(t *testing.T) {
	tests := []struct {
		dpr  float64
		want string
	}{
		{0, ""},
		{0.5, "Clay Season"},
		{0.849, "Clay Season"},
		{0.8496, "Wood Season"},
		{0.924, "Wood Season"},
		{0.925, "Iron Season"},
		{0.9994, "Iron Season"},
		{0.9996, "Bronze Season"},
		{1.075, "Bronze Season"},
		{1.076, "Silver Season"},
		{1.150, "Silver Season"},
		{1.151, "Gold Season"},
		{1.225, "Gold Season"},
		{1.226, "Diamond Season"},
		{2, "Diamond Season"},
	}
	for _, tc := range tests {
		got, _ := dprTierName(tc.dpr)
		assert.Equalf(t, tc.want, got, "dprTierName(%v)", tc.dpr)
	}
}

func TestCompute_LuckAndChampionRules(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "ann", "Lucky Duck"))
	assert.True(t, hasBadge(res, "bo", "Cursed"))
	assert.False(t, hasBadge(res, "ann", "Comeback Kid"))
	assert.False(t, hasBadge(res, "ann", "Against All Odds"))
}

func TestCompute_ComebackKidAndAgainstAllOdds(t *testing.T) {
	h := &model.History{
		MatchupsBySeason: map[int][]model.Matchup{
			2020: {
				mu(2020, 1, "1", 80, "2", 100),
				mu(2020, 2, "1", 90, "2", 95),
				mu(2020, 6, "1", 120, "2", 95),
			},
		},
		RostersBySeason: map[int][]model.SeasonStats{
			2020: {
				{OwnerID: "lo", RosterID: "1", Wins: 1, Losses: 2, PointsFor: 290, LuckRating: -3, IsChampion: true},
				{OwnerID: "hi", RosterID: "2", Wins: 2, Losses: 1, PointsFor: 290, LuckRating: 3},
				{OwnerID: "mid", RosterID: "3", Wins: 1, Losses: 1, PointsFor: 200, LuckRating: 0},
			},
		},
	}

	res := Compute(Inputs{History: h}, Options{Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "lo", "Comeback Kid"))
	assert.True(t, hasBadge(res, "lo", "Against All Odds"))
	assert.True(t, hasBadge(res, "lo", "Heavyweight Champion"))
}

// ---------------------------------------------------------------------------
// Matchup rules
// ---------------------------------------------------------------------------

func TestCompute_MatchupRules(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "ann", "Peak Performance"))
	assert.True(t, hasBadge(res, "cy", "Massacre"))
	assert.True(t, hasBadge(res, "di", "The Bye Week"))
	assert.True(t, hasBadge(res, "ann", "Double Up"))
	assert.True(t, hasBadge(res, "bo", "Doubled Up"))
	assert.True(t, hasBadge(res, "cy", "Firing Squad"))
	assert.True(t, hasBadge(res, "di", "The Undercard"))

	// 2023: cy by 1.5 and by 2, ann by 1.4 and by 0.3. 2024: bo by 0.01.
	assert.Len(t, byName(res, "cy", "A Small Victory"), 2)
	assert.Len(t, byName(res, "di", "A Small Defeat"), 2)
	assert.Len(t, byName(res, "ann", "A Small Victory"), 1)
	assert.Len(t, byName(res, "ann", "A Nano Victory"), 1)
	assert.Len(t, byName(res, "cy", "A Nano Defeat"), 1)
	assert.Len(t, byName(res, "bo", "A Nano Victory"), 1)
	assert.Len(t, byName(res, "ann", "A Nano Defeat"), 1)
	assert.True(t, hasBadge(res, "ann", "Thread The Needle"))

	shoot := append(byName(res, "ann", "The Shootout"), byName(res, "bo", "The Shootout")...)
	assert.Len(t, shoot, 2, "both teams of the highest-combined game")
}

func TestMarginBand(t *testing.T) {
	tests := []struct {
		margin float64
		want   string
	}{
		{0.004, ""},
		{0.01, "Nano"},
		{0.49, "Nano"},
		{0.5, "Micro"},
		{0.99, "Micro"},
		{0.995, "Small"},
		{1, "Small"},
		{2, "Small"},
		{2.01, ""},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.want, marginBand(tc.margin), "marginBand(%v)", tc.margin)
	}
}

func TestCompute_SnoozerAndSpoiledGoods(t *testing.T) {
	h := &model.History{
		MatchupsBySeason: map[int][]model.Matchup{
			2019: {
				mu(2019, 1, "1", 160, "2", 150),
				mu(2019, 1, "3", 40, "4", 30),
			},
		},
		RostersBySeason: map[int][]model.SeasonStats{
			2019: {roster("a", "1", 1, 160), roster("b", "2", 0, 150), roster("c", "3", 1, 40), roster("d", "4", 0, 30)},
		},
	}

	res := Compute(Inputs{History: h}, Options{Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "b", "Spoiled Goods"))
	assert.True(t, hasBadge(res, "d", "The Snoozer"))
}

func TestCompute_Bully(t *testing.T) {
	h := &model.History{
		MatchupsBySeason: map[int][]model.Matchup{
			2019: {
				mu(2019, 1, "1", 100, "2", 90),
				mu(2019, 5, "2", 80, "1", 100),
				mu(2019, 9, "1", 101, "2", 99),
				mu(2019, 12, "1", 101, "2", 99),
			},
		},
		RostersBySeason: map[int][]model.SeasonStats{
			2019: {roster("a", "1", 4, 402), roster("b", "2", 0, 368)},
		},
	}

	res := Compute(Inputs{History: h}, Options{Clock: fixedClock(t)})

	bullies := byName(res, "a", "Bully")
	require.Len(t, bullies, 1)
	assert.Equal(t, 9, bullies[0].Metadata["week"])
	assert.Len(t, byName(res, "b", "Bullied"), 1)
}

// ---------------------------------------------------------------------------
// Draft rules
// ---------------------------------------------------------------------------

func TestCompute_WorstDraftPickUsesDelta(t *testing.T) {
	h := &model.History{
		DraftPicksBySeason: map[int][]model.DraftPick{
			2024: {
				{Season: 2024, PickNo: 1, Round: 1, OwnerID: "a", Position: "QB", FantasyPoints: 1},
				{Season: 2024, PickNo: 2, Round: 1, OwnerID: "b", Position: "WR", FantasyPoints: 0},
				{Season: 2024, PickNo: 3, Round: 1, OwnerID: "c", Position: "RB", FantasyPoints: 0},
			},
		},
	}

	res := Compute(Inputs{History: h}, Options{Clock: fixedClock(t)})

	worst := byName(res, "a", "Worst Draft Pick")
	require.Len(t, worst, 1)
	assert.Equal(t, model.CategoryDraftBlunder, worst[0].Category)
	assert.False(t, hasBadge(res, "b", "Worst Draft Pick"))
	assert.False(t, hasBadge(res, "c", "Worst Draft Pick"))
	assert.True(t, hasBadge(res, "a", "Draft King"))
}

func TestCompute_DrafterBadgeCategoryOption(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{
		DrafterBadgeCategory: model.CategoryBlunder,
		RecentLimit:          -1,
		Clock:                fixedClock(t),
	})

	worst := byName(res, "bo", "Worst Draft Pick")
	require.Len(t, worst, 1)
	assert.Equal(t, model.CategoryBlunder, worst[0].Category)
	assert.True(t, hasBadge(res, "ann", "Best Draft Pick"))

	drafter := byName(res, "bo", "Worst RB Drafter")
	require.Len(t, drafter, 1)
	assert.Equal(t, model.CategoryBlunder, drafter[0].Category)
	assert.True(t, hasBadge(res, "cy", "Best RB Drafter"))
}

func TestCompute_TopRosterPrefersPlayerTable(t *testing.T) {
	h := richHistory()
	h.PlayerSeasonPoints = map[int]map[string]model.PlayerSeasonPoints{
		2023: {"p2": {PlayerID: "p2", Position: "RB", Points: 400}},
	}

	res := Compute(Inputs{History: h}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "bo", "Top RB Roster"))
	assert.False(t, hasBadge(res, "cy", "Top RB Roster"))
	assert.True(t, hasBadge(res, "ann", "Top QB Roster"))
}

func TestCompute_DraftBadgesUsePlayerTable(t *testing.T) {
	h := &model.History{
		DraftPicksBySeason: map[int][]model.DraftPick{
			2024: {
				{Season: 2024, PickNo: 1, Round: 1, OwnerID: "a", PlayerID: "p1"},
				{Season: 2024, PickNo: 2, Round: 1, OwnerID: "b", PlayerID: "p2"},
			},
		},
		PlayerSeasonPoints: map[int]map[string]model.PlayerSeasonPoints{
			2024: {
				"p1": {PlayerID: "p1", Position: "QB", Points: 300},
				"p2": {PlayerID: "p2", Position: "QB", Points: 10},
			},
		},
	}

	res := Compute(Inputs{History: h}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "a", "Draft King"))
	assert.True(t, hasBadge(res, "a", "Best Draft Pick"))
	assert.False(t, hasBadge(res, "a", "Worst Draft Pick"))
	assert.True(t, hasBadge(res, "b", "Worst Draft Pick"))
	assert.True(t, hasBadge(res, "a", "Best QB Drafter"))
	assert.True(t, hasBadge(res, "b", "Worst QB Drafter"))
	assert.True(t, hasBadge(res, "a", "Top QB Roster"))

	best := byName(res, "a", "Best Draft Pick")
	require.Len(t, best, 1)
	assert.Equal(t, 300.0, best[0].Metadata["actual"])
	assert.Equal(t, "QB", best[0].Metadata["position"])
	assert.Zero(t, h.DraftPicksBySeason[2024][0].FantasyPoints, "history is not modified")
}

// ---------------------------------------------------------------------------
// Transaction rules
// ---------------------------------------------------------------------------

func TestCompute_TransactionRules(t *testing.T) {
	res := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "bo", "Action King"), "bo has 2 transactions in 2023")
	assert.False(t, hasBadge(res, "cy", "Action King"), "failed transactions are not counted")

	broke := byName(res, "bo", "Broke Ass")
	require.Len(t, broke, 1)
	assert.Equal(t, 12.5, broke[0].Metadata["fees"])
}

func TestCompute_FeeFallsBackToSeasonMetrics(t *testing.T) {
	h := richHistory()
	h.Transactions = nil
	h.RostersBySeason[2023][2].WaiverFeesSpent = 40

	res := Compute(Inputs{History: h}, Options{RecentLimit: -1, Clock: fixedClock(t)})
	assert.True(t, hasBadge(res, "cy", "Broke Ass"))

	h2 := richHistory()
	h2.RostersBySeason[2023][3].WaiverFeesSpent = 99
	res = Compute(Inputs{History: h2}, Options{FeeSource: FeeFromSeasonMetrics, RecentLimit: -1, Clock: fixedClock(t)})
	assert.True(t, hasBadge(res, "di", "Broke Ass"))
	assert.False(t, hasBadge(res, "bo", "Broke Ass"))
}

func TestCompute_SeasonTransactionsThreshold(t *testing.T) {
	h := richHistory()
	h.Transactions = nil
	for i := 0; i < SeasonTransactionsThreshold; i++ {
		h.Transactions = append(h.Transactions, model.Transaction{
			Created:   time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC).Unix() + int64(i),
			RosterIDs: []model.RosterID{"3"},
		})
	}

	res := Compute(Inputs{History: h}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	got := byName(res, "cy", "Season Transactions")
	require.Len(t, got, 1)
	assert.Equal(t, 2024, *got[0].Year)
}

func TestTimestampUnit(t *testing.T) {
	sec := time.Date(2023, 9, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, sec, TimestampAuto.Time(sec.Unix()))
	assert.Equal(t, sec, TimestampAuto.Time(sec.UnixMilli()))
	assert.Equal(t, sec, TimestampSeconds.Time(sec.Unix()))
	assert.Equal(t, sec, TimestampMilliseconds.Time(sec.UnixMilli()))
	assert.Equal(t, 1970, TimestampMilliseconds.Time(sec.Unix()).Year())
}

// ---------------------------------------------------------------------------
// Career rules
// ---------------------------------------------------------------------------

func careerHistory(from, to int, champion map[int]string) *model.History {
	h := &model.History{RostersBySeason: map[int][]model.SeasonStats{}}
	for y := from; y <= to; y++ {
		a := roster("a", "1", 10, 1500)
		b := roster("b", "2", 3, 1200)
		a.IsChampion = champion[y] == "a"
		b.IsChampion = champion[y] == "b"
		h.RostersBySeason[y] = []model.SeasonStats{a, b}
	}
	return h
}

func TestCompute_ChampionDrought(t *testing.T) {
	h := careerHistory(2015, 2025, map[int]string{2016: "a"})

	res := Compute(Inputs{History: h}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	droughtA := byName(res, "a", "Champion Drought")
	require.Len(t, droughtA, 1)
	assert.Equal(t, 2021, *droughtA[0].Year)
	assert.Equal(t, "Champion Drought (5 Seasons)", droughtA[0].DisplayName)

	droughtB := byName(res, "b", "Champion Drought")
	require.Len(t, droughtB, 2)
	assert.Equal(t, 2019, *droughtB[0].Year)
	assert.Equal(t, 2024, *droughtB[1].Year)
}

func TestCompute_TotalWinsMilestones(t *testing.T) {
	h := careerHistory(2020, 2024, nil)

	res := Compute(Inputs{History: h}, Options{RecentLimit: -1, Clock: fixedClock(t)})

	wins := byName(res, "a", "Total Wins")
	require.Len(t, wins, 2)
	assert.Equal(t, 2022, *wins[0].Year)
	assert.Equal(t, "25 Career Wins", wins[0].DisplayName)
	assert.Equal(t, 2024, *wins[1].Year)
	assert.Empty(t, byName(res, "b", "Total Wins"))
}

func TestCompute_Tenure(t *testing.T) {
	clk := fixedClock(t)
	h := careerHistory(2011, 2020, nil)

	res := Compute(Inputs{History: h}, Options{RecentLimit: -1, Clock: clk})

	vet := byName(res, "a", "Veteran Presence")
	require.Len(t, vet, 1)
	assert.Nil(t, vet[0].Year)
	assert.Equal(t, clk.Now().UTC(), vet[0].Timestamp)
	assert.Equal(t, "league:veteran-presence:career:a", vet[0].ID)
	assert.True(t, hasBadge(res, "b", "Old Timer"))
}

// ---------------------------------------------------------------------------
// Isolation
// ---------------------------------------------------------------------------

func TestCompute_PanickingRuleIsIsolated(t *testing.T) {
	saved := seasonRules
	t.Cleanup(func() { seasonRules = saved })
	seasonRules = append([]seasonRule{{"boom", func(*seasonCtx, *emitter) { panic("boom") }}}, saved...)
	rec := &diag.Recorder{}

	res := Compute(Inputs{History: richHistory()}, Options{Diagnostics: rec, Clock: fixedClock(t)})

	assert.True(t, hasBadge(res, "ann", "Season Title"))
	assert.Equal(t, 2, rec.Count(component+"/boom"), "one failure per season")
}

func TestCompute_PanickingTeamNameFallsBackToHistory(t *testing.T) {
	want := Compute(Inputs{History: richHistory()}, Options{RecentLimit: -1, Clock: fixedClock(t)})
	rec := &diag.Recorder{}

	res := Compute(Inputs{
		History: richHistory(),
		TeamName: func(owner model.OwnerID, season int) string {
			if season == 2024 {
				panic("no names for 2024")
			}
			return "Team " + string(owner)
		},
	}, Options{RecentLimit: -1, Diagnostics: rec, Clock: fixedClock(t)})

	assert.Equal(t, want.Count(), res.Count())
	assert.Positive(t, rec.Count(component+"/team-name"))

	title := byName(res, "cy", "Season Title")
	require.NotEmpty(t, title)
	assert.Equal(t, "cy", title[0].Metadata["team_name"], "2024 falls back to the history")
	title = byName(res, "ann", "Season Title")
	require.NotEmpty(t, title)
	assert.Equal(t, "Team ann", title[0].Metadata["team_name"])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "top-qb-roster", slugify("Top QB Roster"))
	assert.Equal(t, "silverback-to-back", slugify("Silverback-To-Back"))
	assert.Equal(t, "3rd-place", slugify("3rd Place"))
	assert.Equal(t, "season-all-play-title", slugify("Season All-Play Title"))
}
