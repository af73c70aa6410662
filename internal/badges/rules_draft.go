package badges

import (
	"fmt"
	"sort"

	"github.com/moose735/TLOED/internal/draftvalue"
	"github.com/moose735/TLOED/internal/model"
)

func pickTag(p model.DraftPick) string {
	return fmt.Sprintf("pick%d", p.PickNo)
}

func pickMeta(v draftvalue.PickValue) map[string]any {
	return map[string]any{
		"pick_no":     v.Pick.PickNo,
		"round":       v.Pick.Round,
		"player_id":   v.Pick.PlayerID,
		"player_name": v.Pick.PlayerName,
		"position":    v.Position,
		"expected":    v.Expected,
		"actual":      v.Actual,
		"delta":       v.Delta,
	}
}

func draftKing(sc *seasonCtx, em *emitter) {
	totals := make(map[model.OwnerID]float64)
	for _, p := range sc.picks {
		if p.OwnerID == "" {
			continue
		}
		totals[p.OwnerID] += draftvalue.PlayerValue(p)
	}
	owners := sortedOwners(totals)
	top := highest(owners, func(o model.OwnerID) float64 { return totals[o] })
	for _, o := range top {
		if totals[o] <= 0 {
			return
		}
		em.award(o, model.CategoryDraft, "Draft King", "", map[string]any{"draft_value": totals[o]})
	}
}

// draftPicks awards the single best and worst picks of the draft by VORP
// delta.
func draftPicks(sc *seasonCtx, em *emitter) {
	values := draftvalue.EvaluatePicks(sc.picks, sc.e.opts.Curve)
	var gains, losses []draftvalue.PickValue
	for _, v := range values {
		switch {
		case v.Delta > 0:
			gains = append(gains, v)
		case v.Delta < 0:
			losses = append(losses, v)
		}
	}
	delta := func(v draftvalue.PickValue) float64 { return round(v.Delta, 6) }
	for _, v := range highest(gains, delta) {
		em.award(v.Pick.OwnerID, model.CategoryDraft, "Best Draft Pick", pickTag(v.Pick), pickMeta(v))
	}
	for _, v := range lowest(losses, delta) {
		em.award(v.Pick.OwnerID, sc.e.opts.DrafterBadgeCategory, "Worst Draft Pick", pickTag(v.Pick), pickMeta(v))
	}
}

func sortedPositions[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for p := range m {
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// positionDrafters compares owners' scaled VORP at each position.
func positionDrafters(sc *seasonCtx, em *emitter) {
	totals := draftvalue.TeamScaledVORPByPosition(sc.picks, draftvalue.Options{
		Strategy: sc.e.opts.VORPStrategy,
		Curve:    sc.e.opts.Curve,
	})
	byPos := make(map[string]map[model.OwnerID]draftvalue.Totals)
	for owner, positions := range totals {
		for pos, t := range positions {
			if byPos[pos] == nil {
				byPos[pos] = make(map[model.OwnerID]draftvalue.Totals)
			}
			byPos[pos][owner] = t
		}
	}

	for _, pos := range sortedPositions(byPos) {
		group := byPos[pos]
		if len(group) < 2 {
			continue
		}
		owners := sortedOwners(group)
		scaled := func(o model.OwnerID) float64 { return round(group[o].ScaledSum, 6) }
		top, bottom := highest(owners, scaled), lowest(owners, scaled)
		if scaled(top[0]) == scaled(bottom[0]) {
			continue
		}
		for _, o := range top {
			em.award(o, model.CategoryDraft, "Best "+pos+" Drafter", "", drafterMeta(pos, group[o]))
		}
		for _, o := range bottom {
			em.award(o, sc.e.opts.DrafterBadgeCategory, "Worst "+pos+" Drafter", "", drafterMeta(pos, group[o]))
		}
	}
}

func drafterMeta(pos string, t draftvalue.Totals) map[string]any {
	return map[string]any{
		"position":   pos,
		"picks":      t.Count,
		"raw_vorp":   t.RawSum,
		"scaled_sum": t.ScaledSum,
	}
}

// topRoster credits each owner with the season points of the players they
// drafted, per position.
func topRoster(sc *seasonCtx, em *emitter) {
	byPos := make(map[string]map[model.OwnerID]float64)
	for _, p := range sc.picks {
		if p.OwnerID == "" {
			continue
		}
		points := draftvalue.PlayerValue(p)
		pos := draftvalue.NormalizePosition(p.Position)
		if pos == "" {
			continue
		}
		if byPos[pos] == nil {
			byPos[pos] = make(map[model.OwnerID]float64)
		}
		byPos[pos][p.OwnerID] += points
	}

	for _, pos := range sortedPositions(byPos) {
		group := byPos[pos]
		for _, o := range highest(sortedOwners(group), func(o model.OwnerID) float64 { return round(group[o], 2) }) {
			if group[o] <= 0 {
				break
			}
			em.award(o, model.CategoryRoster, "Top "+pos+" Roster", "", map[string]any{"position": pos, "points": group[o]})
		}
	}
}
