package model

type Transaction struct {
	ID     string `json:"transaction_id"`
	Type   string `json:"type"`
	Status string `json:"status"`
	// Created is the raw creation epoch. Platforms disagree on whether it is
	// seconds or milliseconds; badges.TimestampUnit decides.
	Created   int64      `json:"created"`
	RosterIDs []RosterID `json:"roster_ids"`
	// Fee is nil when the transaction carried no fee field at all.
	Fee *float64 `json:"fee,omitempty"`
}
