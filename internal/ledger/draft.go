package ledger

import (
	"sort"
	"strings"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

const component = "ledger"

// Identity resolves the canonical owner/roster pair of a season.
type Identity struct {
	ownerByRoster map[model.RosterID]model.OwnerID
	rosterByOwner map[model.OwnerID]model.RosterID
}

func NewIdentity(rosters []model.SeasonStats) Identity {
	id := Identity{
		ownerByRoster: make(map[model.RosterID]model.OwnerID, len(rosters)),
		rosterByOwner: make(map[model.OwnerID]model.RosterID, len(rosters)),
	}
	for _, r := range rosters {
		if r.RosterID == "" || r.OwnerID == "" {
			continue
		}
		id.ownerByRoster[r.RosterID] = r.OwnerID
		id.rosterByOwner[r.OwnerID] = r.RosterID
	}
	return id
}

// Resolve fills whichever half of the pair is missing. Either input may be
// empty; ok is false when no owner could be determined.
func (id Identity) Resolve(owner model.OwnerID, roster model.RosterID) (model.OwnerID, model.RosterID, bool) {
	if owner == "" && roster != "" {
		owner = id.ownerByRoster[roster]
	}
	if roster == "" && owner != "" {
		roster = id.rosterByOwner[owner]
	}
	// Some exports put the roster id in the owner field.
	if o, ok := id.ownerByRoster[model.RosterID(owner)]; ok && roster == "" {
		owner, roster = o, model.RosterID(owner)
	}
	return owner, roster, owner != ""
}

// Owner identity variants, most specific first.
var (
	ownerKeys  = []string{"picked_by", "owner_id", "metadata.owner_id", "metadata.picked_by"}
	rosterKeys = []string{"roster_id", "metadata.roster_id"}
)

// ParseDraftPicks normalizes one season's draft picks. Picks whose owner
// cannot be resolved are dropped with a diagnostic; output is ordered by
// pick number.
func ParseDraftPicks(season int, body []byte, rosters []model.SeasonStats, sink diag.Sink) ([]model.DraftPick, error) {
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	ident := NewIdentity(rosters)

	picks := make([]model.DraftPick, 0, len(recs))
	for _, r := range recs {
		owner, roster, ok := ident.Resolve(model.OwnerID(r.id(ownerKeys...)), model.RosterID(r.id(rosterKeys...)))
		if !ok {
			diag.Skip(sink, component, "draft pick without owner", map[string]any{"season": season, "pick_no": r.integer("pick_no")})
			continue
		}
		name := strings.TrimSpace(r.str("player_name", "metadata.player_name"))
		if name == "" {
			name = strings.TrimSpace(r.str("metadata.first_name") + " " + r.str("metadata.last_name"))
		}
		picks = append(picks, model.DraftPick{
			Season:           season,
			PickNo:           r.integer("pick_no", "overall", "metadata.pick_no"),
			Round:            r.integer("round"),
			PickInRound:      r.integer("pick_in_round", "metadata.pick_in_round"),
			OwnerID:          owner,
			RosterID:         roster,
			OriginalRosterID: model.RosterID(r.id("original_roster_id", "metadata.original_roster_id")),
			PlayerID:         r.str("player_id", "metadata.player_id"),
			PlayerName:       name,
			Position:         r.str("position", "player_position", "metadata.position"),
			FantasyPoints:    r.num("fantasy_points", "points", "metadata.fantasy_points"),
			IsKeeper:         r.boolean("is_keeper", "metadata.is_keeper"),
		})
	}
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].PickNo < picks[j].PickNo
	})
	return picks, nil
}

// ParseTradedPicks normalizes the traded-picks ledger. In the export,
// roster_id is the slot's original roster and owner_id its current holder.
func ParseTradedPicks(season int, body []byte, sink diag.Sink) ([]model.TradedPick, error) {
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	out := make([]model.TradedPick, 0, len(recs))
	for _, r := range recs {
		tp := model.TradedPick{
			Season:           r.integer("season"),
			Round:            r.integer("round"),
			OriginalRosterID: model.RosterID(r.id("original_roster_id", "roster_id")),
			CurrentOwnerID:   model.RosterID(r.id("current_owner_id", "owner_id")),
			PreviousOwnerID:  model.RosterID(r.id("previous_owner_id")),
			PickNo:           r.integer("pick_no"),
		}
		if tp.Season == 0 {
			tp.Season = season
		}
		if tp.Round <= 0 || tp.CurrentOwnerID == "" {
			diag.Skip(sink, component, "traded pick without round or holder", map[string]any{"season": season})
			continue
		}
		out = append(out, tp)
	}
	return out, nil
}
