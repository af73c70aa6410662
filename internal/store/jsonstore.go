// Package store reads and writes a league history directory:
//
//	<root>/users.json
//	<root>/transactions.json
//	<root>/seasons/<year>/rosters.json
//	<root>/seasons/<year>/matchups.json
//	<root>/seasons/<year>/draft_picks.json
//	<root>/seasons/<year>/traded_picks.json
//	<root>/seasons/<year>/player_points.json
//
// Derived output (badges, records, snapshots) is written under the same root.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const (
	UsersFile        = "users.json"
	TransactionsFile = "transactions.json"
	RostersFile      = "rosters.json"
	MatchupsFile     = "matchups.json"
	DraftPicksFile   = "draft_picks.json"
	TradedPicksFile  = "traded_picks.json"
	PlayerPointsFile = "player_points.json"

	seasonsDir = "seasons"
)

type JSONStore struct {
	Root string // e.g. "data/league"
}

func NewJSONStore(root string) *JSONStore {
	return &JSONStore{Root: root}
}

func (s *JSONStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

// SeasonPath is the store-relative path of a per-season file.
func SeasonPath(season int, name string) string {
	return filepath.Join(seasonsDir, strconv.Itoa(season), name)
}

func (s *JSONStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

func (s *JSONStore) WriteRaw(rel string, body []byte, pretty bool) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if pretty {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			buf := &bytes.Buffer{}
			enc := json.NewEncoder(buf)
			enc.SetIndent("", "  ")
			_ = enc.Encode(v)
			body = buf.Bytes()
		}
	}

	return os.WriteFile(path, body, 0o644)
}

func (s *JSONStore) ReadRaw(rel string) ([]byte, error) {
	return os.ReadFile(s.Path(rel))
}

// ReadOptional is ReadRaw with a missing file reported as (nil, nil).
func (s *JSONStore) ReadOptional(rel string) ([]byte, error) {
	b, err := s.ReadRaw(rel)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

func (s *JSONStore) ReadJSON(rel string, v any) error {
	b, err := s.ReadRaw(rel)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", rel, err)
	}
	return nil
}

// WriteJSON writes v indented with a trailing newline.
func (s *JSONStore) WriteJSON(rel string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return s.WriteRaw(rel, b, false)
}

// Seasons lists the numeric season directories, ascending. A store without
// a seasons directory has no seasons.
func (s *JSONStore) Seasons() ([]int, error) {
	entries, err := os.ReadDir(s.Path(seasonsDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		year, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		out = append(out, year)
	}
	sort.Ints(out)
	return out, nil
}
