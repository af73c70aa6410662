package badges

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/moose735/TLOED/internal/model"
)

func owners(stats []model.SeasonStats) []model.OwnerID {
	out := make([]model.OwnerID, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.OwnerID)
	}
	return out
}

// seasonTitleWinners: most wins, ties broken by points for.
func (sc *seasonCtx) seasonTitleWinners() []model.SeasonStats {
	played := sc.played()
	if len(played) == 0 {
		return nil
	}
	top := highest(played, func(s model.SeasonStats) int { return s.Wins })
	return highest(top, func(s model.SeasonStats) float64 { return s.PointsFor })
}

// pointsTier is every owner sharing one points-for total, at its
// competition rank (1, 1, 3, ...).
type pointsTier struct {
	rank   int
	points float64
	stats  []model.SeasonStats
}

// pointsTiers groups owners by points for rounded to two decimals,
// descending. Owners without points are left out.
func (sc *seasonCtx) pointsTiers() []pointsTier {
	played := sc.played()
	sort.SliceStable(played, func(i, j int) bool { return played[i].PointsFor > played[j].PointsFor })

	var tiers []pointsTier
	for i, s := range played {
		pts := round(s.PointsFor, 2)
		if pts <= 0 {
			break
		}
		if n := len(tiers); n > 0 && tiers[n-1].points == pts {
			tiers[n-1].stats = append(tiers[n-1].stats, s)
			continue
		}
		tiers = append(tiers, pointsTier{rank: i + 1, points: pts, stats: []model.SeasonStats{s}})
	}
	return tiers
}

func (sc *seasonCtx) allPlayWinners() []model.SeasonStats {
	top := highest(sc.played(), func(s model.SeasonStats) float64 { return s.AllPlayWinPct })
	if len(top) == 0 || top[0].AllPlayWinPct <= 0 {
		return nil
	}
	return top
}

func seasonTitle(sc *seasonCtx, em *emitter) {
	for _, s := range sc.seasonTitleWinners() {
		em.award(s.OwnerID, model.CategorySeason, "Season Title", "", map[string]any{
			"wins":       s.Wins,
			"points_for": s.PointsFor,
		})
	}
}

func pointsTitles(sc *seasonCtx, em *emitter) {
	names := []string{"Points Title", "Points Runner-Up", "Points 3rd"}
	for _, tier := range sc.pointsTiers() {
		if tier.rank > len(names) {
			break
		}
		for _, s := range tier.stats {
			em.award(s.OwnerID, model.CategorySeason, names[tier.rank-1], "", map[string]any{
				"rank":       tier.rank,
				"points_for": s.PointsFor,
			})
		}
	}
}

func allPlayTitle(sc *seasonCtx, em *emitter) {
	for _, s := range sc.allPlayWinners() {
		em.award(s.OwnerID, model.CategorySeason, "Season All-Play Title", "", map[string]any{
			"all_play_win_pct": s.AllPlayWinPct,
		})
	}
}

func tripleCrown(sc *seasonCtx, em *emitter) {
	tiers := sc.pointsTiers()
	if len(tiers) == 0 {
		return
	}
	points := make(map[model.OwnerID]bool)
	for _, o := range owners(tiers[0].stats) {
		points[o] = true
	}
	allPlay := make(map[model.OwnerID]bool)
	for _, o := range owners(sc.allPlayWinners()) {
		allPlay[o] = true
	}
	for _, o := range owners(sc.seasonTitleWinners()) {
		if points[o] && allPlay[o] {
			em.award(o, model.CategorySeason, "Triple Crown", "", nil)
		}
	}
}

func playoffFinish(sc *seasonCtx, em *emitter) {
	for _, s := range sc.stats {
		switch {
		case s.IsChampion:
			em.award(s.OwnerID, model.CategoryChampion, "Champion", "", nil)
		case s.IsRunnerUp:
			em.award(s.OwnerID, model.CategoryChampion, "Runner Up", "", nil)
		case s.IsThirdPlace:
			em.award(s.OwnerID, model.CategoryChampion, "3rd Place", "", nil)
		}
	}
}

// dprTierName bands an adjusted DPR rounded to three decimals. An empty name
// means no badge.
func dprTierName(dpr float64) (string, model.Category) {
	d := round(dpr, 3)
	switch {
	case d <= 0:
		return "", ""
	case d >= 1.226:
		return "Diamond Season", model.CategorySeasonTier
	case d >= 1.151:
		return "Gold Season", model.CategorySeasonTier
	case d >= 1.076:
		return "Silver Season", model.CategorySeasonTier
	case d >= 1.000:
		return "Bronze Season", model.CategorySeasonTier
	case d >= 0.925:
		return "Iron Season", model.CategoryBlunder
	case d >= 0.850:
		return "Wood Season", model.CategoryBlunder
	default:
		return "Clay Season", model.CategoryBlunder
	}
}

func dprTier(sc *seasonCtx, em *emitter) {
	for _, s := range sc.played() {
		name, cat := dprTierName(s.AdjustedDPR)
		if name == "" {
			continue
		}
		em.award(s.OwnerID, cat, name, "", map[string]any{"adjusted_dpr": round(s.AdjustedDPR, 3)})
	}
}

func luck(sc *seasonCtx, em *emitter) {
	played := sc.played()
	if len(played) < 2 {
		return
	}
	luckOf := func(s model.SeasonStats) float64 { return s.LuckRating }
	lucky, cursed := highest(played, luckOf), lowest(played, luckOf)
	if lucky[0].LuckRating == cursed[0].LuckRating {
		return
	}
	for _, s := range lucky {
		em.award(s.OwnerID, model.CategorySeason, "Lucky Duck", "", map[string]any{"luck_rating": s.LuckRating})
	}
	for _, s := range cursed {
		em.award(s.OwnerID, model.CategorySeason, "Cursed", "", map[string]any{"luck_rating": s.LuckRating})
	}
}

func silverbackToBack(sc *seasonCtx, em *emitter) {
	prev, ok := sc.e.in.SeasonalRecords[sc.season-1]
	if !ok {
		prev = sc.e.in.History.RostersBySeason[sc.season-1]
	}
	wasRunnerUp := make(map[model.OwnerID]bool)
	for _, s := range prev {
		if s.IsRunnerUp && s.OwnerID != "" {
			wasRunnerUp[s.OwnerID] = true
		}
	}
	for _, s := range sc.stats {
		if s.IsRunnerUp && wasRunnerUp[s.OwnerID] {
			em.award(s.OwnerID, model.CategoryChampion, "Silverback-To-Back", "", map[string]any{"previous_season": sc.season - 1})
		}
	}
}

// percentile returns the p-quantile of values with linear interpolation.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// opponentStrength is each owner's average opponent season points for over
// the regular season.
func (sc *seasonCtx) opponentStrength() map[model.OwnerID]float64 {
	sums := make(map[model.OwnerID][]float64)
	for _, g := range sc.regular() {
		for _, s := range g.sides() {
			opp, ok := sc.byOwner[s.opp]
			if !ok {
				continue
			}
			sums[s.owner] = append(sums[s.owner], opp.PointsFor)
		}
	}
	out := make(map[model.OwnerID]float64, len(sums))
	for o, v := range sums {
		out[o] = stat.Mean(v, nil)
	}
	return out
}

func heavyweightChampion(sc *seasonCtx, em *emitter) {
	champ, ok := sc.champion()
	if !ok {
		return
	}
	strength := sc.opponentStrength()
	mine, ok := strength[champ.OwnerID]
	if !ok || len(strength) < 2 {
		return
	}
	values := make([]float64, 0, len(strength))
	for _, o := range sortedOwners(strength) {
		values = append(values, strength[o])
	}
	if q := percentile(values, 0.75); mine >= q {
		em.award(champ.OwnerID, model.CategoryChampion, "Heavyweight Champion", "", map[string]any{
			"avg_opponent_points_for": mine,
			"p75":                     q,
		})
	}
}

func comebackKid(sc *seasonCtx, em *emitter) {
	champ, ok := sc.champion()
	if !ok {
		return
	}
	played, won := 0, 0
	for _, g := range sc.games {
		if g.m.Week < 1 || g.m.Week > 5 {
			continue
		}
		for _, s := range g.sides() {
			if s.owner != champ.OwnerID {
				continue
			}
			played++
			if s.score > s.oppScore {
				won++
			}
		}
	}
	if played > 0 && won == 0 {
		em.award(champ.OwnerID, model.CategoryChampion, "Comeback Kid", "", map[string]any{"early_games": played})
	}
}

func againstAllOdds(sc *seasonCtx, em *emitter) {
	champ, ok := sc.champion()
	if !ok {
		return
	}
	played := sc.played()
	if len(played) < 2 {
		return
	}
	values := make([]float64, 0, len(played))
	for _, s := range played {
		values = append(values, s.LuckRating)
	}
	if q := percentile(values, 0.25); champ.LuckRating <= q {
		em.award(champ.OwnerID, model.CategoryChampion, "Against All Odds", "", map[string]any{
			"luck_rating": champ.LuckRating,
			"p25":         q,
		})
	}
}
