package ledger

import (
	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
)

// ParseTransactions normalizes the league transaction log. The fee is left
// nil when no fee field is present at all.
func ParseTransactions(body []byte, sink diag.Sink) ([]model.Transaction, error) {
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(recs))
	for _, r := range recs {
		t := model.Transaction{
			ID:      r.str("transaction_id", "id", "_key"),
			Type:    r.str("type"),
			Status:  r.str("status"),
			Created: int64(r.num("created", "status_updated")),
		}
		if v, ok := r.get("roster_ids"); ok {
			if items, ok := v.([]any); ok {
				for _, it := range items {
					if s := asString(it); s != "" && s != "0" {
						t.RosterIDs = append(t.RosterIDs, model.RosterID(s))
					}
				}
			}
		}
		if v, ok := r.get("fee", "settings.waiver_bid", "metadata.fee"); ok {
			fee := asNumber(v)
			t.Fee = &fee
		}
		if t.Created <= 0 || len(t.RosterIDs) == 0 {
			diag.Skip(sink, component, "transaction without timestamp or rosters", map[string]any{"transaction_id": t.ID})
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func ParseUsers(body []byte, sink diag.Sink) ([]model.User, error) {
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(recs))
	for _, r := range recs {
		u := model.User{
			ID:          model.OwnerID(r.id("user_id", "owner_id", "_key")),
			DisplayName: r.str("display_name", "username"),
			TeamName:    r.str("team_name", "metadata.team_name"),
		}
		if u.ID == "" {
			diag.Skip(sink, component, "user without id", nil)
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// ParsePlayerPoints reads the per-player season point table, keyed by
// player id.
func ParsePlayerPoints(body []byte, sink diag.Sink) (map[string]model.PlayerSeasonPoints, error) {
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.PlayerSeasonPoints, len(recs))
	for _, r := range recs {
		p := model.PlayerSeasonPoints{
			PlayerID: r.id("player_id", "_key"),
			Position: r.str("position"),
			Points:   r.num("points", "pts_ppr", "fantasy_points"),
		}
		if p.PlayerID == "" {
			diag.Skip(sink, component, "player points without player_id", nil)
			continue
		}
		out[p.PlayerID] = p
	}
	return out, nil
}
