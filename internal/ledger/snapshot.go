package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/moose735/TLOED/internal/model"
)

// HistorySnapshot is the normalized history as written to disk, so later
// runs can skip raw parsing.
type HistorySnapshot struct {
	GeneratedAtUTC string         `json:"generated_at_utc"`
	Seasons        []int          `json:"seasons"`
	History        *model.History `json:"history"`
}

func BuildSnapshot(h *model.History, now time.Time) *HistorySnapshot {
	return &HistorySnapshot{
		GeneratedAtUTC: now.UTC().Format(time.RFC3339),
		Seasons:        h.Seasons(),
		History:        h,
	}
}

func WriteSnapshot(path string, snapshot *HistorySnapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

func ReadSnapshot(path string) (*HistorySnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s HistorySnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.History == nil {
		s.History = &model.History{}
	}
	return &s, nil
}
