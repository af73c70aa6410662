// Package keeper resolves which draft slot a keeper costs an owner.
//
// A keeper is charged a round. The owner may hold that round's pick through
// the draft itself, through the traded-picks ledger, or not at all, in which
// case the cost falls to the latest earlier round the owner holds.
package keeper

import (
	"fmt"
	"sort"

	"github.com/moose735/TLOED/internal/model"
)

// Request describes one keeper cost lookup. Owner may be either a franchise
// owner id or a season roster id.
type Request struct {
	Picks       []model.DraftPick
	TradedPicks []model.TradedPick
	Rosters     []model.SeasonStats
	Owner       string
	Season      int
	Round       int
}

type Result struct {
	Resolved    bool   `json:"resolved"`
	Round       int    `json:"round"`
	PickInRound int    `json:"pick_in_round"`
	PickNo      int    `json:"pick_no"`
	Label       string `json:"label"`
}

// Resolve finds the pick a keeper costs. An unresolved result is a normal
// outcome and carries a generic label for the requested round.
func Resolve(req Request) Result {
	owner := model.OwnerID(req.Owner)
	roster := resolveRoster(req.Rosters, req.Owner)

	picks := make([]model.DraftPick, 0, len(req.Picks))
	for _, p := range req.Picks {
		if req.Season != 0 && p.Season != 0 && p.Season != req.Season {
			continue
		}
		picks = append(picks, p)
	}

	for round := req.Round; round >= 1; round-- {
		if p, ok := findInRound(picks, req.TradedPicks, req.Season, round, owner, roster); ok {
			return resolved(picks, p)
		}
	}
	return Result{
		Round: req.Round,
		Label: fmt.Sprintf("Round Cost: R%d", req.Round),
	}
}

// resolveRoster maps an owner id to its roster id for the season. Values
// that already name a roster, or that match nothing, are returned as is.
func resolveRoster(rosters []model.SeasonStats, owner string) model.RosterID {
	for _, r := range rosters {
		if string(r.RosterID) == owner {
			return r.RosterID
		}
	}
	for _, r := range rosters {
		if string(r.OwnerID) == owner && r.RosterID != "" {
			return r.RosterID
		}
	}
	return model.RosterID(owner)
}

func findInRound(picks []model.DraftPick, traded []model.TradedPick, season, round int, owner model.OwnerID, roster model.RosterID) (model.DraftPick, bool) {
	for _, p := range picks {
		if p.Round != round {
			continue
		}
		if matches(p, owner, roster) {
			return p, true
		}
	}

	for _, t := range traded {
		if t.Round != round || t.CurrentOwnerID != roster {
			continue
		}
		if season != 0 && t.Season != 0 && t.Season != season {
			continue
		}
		if p, ok := linkedPick(picks, t); ok {
			return p, true
		}
	}
	return model.DraftPick{}, false
}

func matches(p model.DraftPick, owner model.OwnerID, roster model.RosterID) bool {
	if p.RosterID != "" && (p.RosterID == roster || string(p.RosterID) == string(owner)) {
		return true
	}
	if p.OwnerID != "" && (p.OwnerID == owner || string(p.OwnerID) == string(roster)) {
		return true
	}
	return false
}

// linkedPick finds the draft pick a traded-pick row refers to: by original
// roster when picks carry that link, else by pick number.
func linkedPick(picks []model.DraftPick, t model.TradedPick) (model.DraftPick, bool) {
	linked := false
	for _, p := range picks {
		if p.OriginalRosterID == "" {
			continue
		}
		linked = true
		if p.Round == t.Round && p.OriginalRosterID == t.OriginalRosterID {
			return p, true
		}
	}
	if linked || t.PickNo <= 0 {
		return model.DraftPick{}, false
	}
	for _, p := range picks {
		if p.PickNo == t.PickNo {
			return p, true
		}
	}
	return model.DraftPick{}, false
}

func resolved(picks []model.DraftPick, p model.DraftPick) Result {
	pir := p.PickInRound
	if pir <= 0 {
		pir = PickInRound(picks, p)
	}
	return Result{
		Resolved:    true,
		Round:       p.Round,
		PickInRound: pir,
		PickNo:      p.PickNo,
		Label:       fmt.Sprintf("Round Cost: R%d (Pick %d.%02d)", p.Round, p.Round, pir),
	}
}

// PickInRound derives a pick's 1-based position within its round by
// ordering the round's picks by overall pick number. Returns 0 when the
// pick is not in the list.
func PickInRound(picks []model.DraftPick, target model.DraftPick) int {
	round := make([]model.DraftPick, 0)
	for _, p := range picks {
		if p.Round == target.Round {
			round = append(round, p)
		}
	}
	sort.SliceStable(round, func(i, j int) bool {
		return round[i].PickNo < round[j].PickNo
	})
	for i, p := range round {
		if p.PickNo == target.PickNo && p.PlayerID == target.PlayerID && p.RosterID == target.RosterID {
			return i + 1
		}
	}
	return 0
}
