package model

type DraftPick struct {
	Season int `json:"season"`
	PickNo int `json:"pick_no"`
	Round  int `json:"round"`
	// PickInRound is 0 when the source did not record it; see keeper for
	// how it is derived.
	PickInRound int      `json:"pick_in_round,omitempty"`
	OwnerID     OwnerID  `json:"owner_id"`
	RosterID    RosterID `json:"roster_id"`
	// OriginalRosterID is the roster the slot originally belonged to before
	// any pick trade. Empty when the source does not link it.
	OriginalRosterID RosterID `json:"original_roster_id,omitempty"`
	PlayerID         string   `json:"player_id"`
	PlayerName       string   `json:"player_name"`
	Position         string   `json:"position"`
	FantasyPoints    float64  `json:"fantasy_points"`
	IsKeeper         bool     `json:"is_keeper"`
}

// TradedPick is one row of the traded-picks ledger: the pick originally
// owned by OriginalRosterID in Round is now held by CurrentOwnerID.
// CurrentOwnerID and PreviousOwnerID are roster ids.
type TradedPick struct {
	Season           int      `json:"season"`
	Round            int      `json:"round"`
	OriginalRosterID RosterID `json:"original_roster_id"`
	CurrentOwnerID   RosterID `json:"current_owner_id"`
	PreviousOwnerID  RosterID `json:"previous_owner_id,omitempty"`
	PickNo           int      `json:"pick_no,omitempty"`
}

// PlayerSeasonPoints is the authoritative season total for one player.
type PlayerSeasonPoints struct {
	PlayerID string  `json:"player_id"`
	Position string  `json:"position"`
	Points   float64 `json:"points"`
}

// SeasonPicks returns a copy of the season's draft picks with FantasyPoints,
// and Position where the table has one, taken from the player season table
// for every player it lists.
func (h *History) SeasonPicks(season int) []DraftPick {
	src := h.DraftPicksBySeason[season]
	table := h.PlayerSeasonPoints[season]
	out := make([]DraftPick, len(src))
	copy(out, src)
	for i, p := range out {
		row, ok := table[p.PlayerID]
		if !ok || p.PlayerID == "" {
			continue
		}
		out[i].FantasyPoints = row.Points
		if row.Position != "" {
			out[i].Position = row.Position
		}
	}
	return out
}
