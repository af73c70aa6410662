package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/model"
	"github.com/moose735/TLOED/internal/store"
)

// Open loads a history from either a league directory or a snapshot file
// written by WriteSnapshot.
func Open(path string, sink diag.Sink) (*model.History, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
		snap, err := ReadSnapshot(path)
		if err != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", path, err)
		}
		return snap.History, nil
	}
	return LoadHistory(store.NewJSONStore(path), sink)
}

// LoadHistory reads every season directory in st and normalizes it into a
// History. Rosters and matchups are required per season; draft, traded pick
// and player point files are optional, as are the league-wide users and
// transactions files.
func LoadHistory(st *store.JSONStore, sink diag.Sink) (*model.History, error) {
	sink = diag.Or(sink)

	seasons, err := st.Seasons()
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	h := &model.History{
		MatchupsBySeason:    make(map[int][]model.Matchup),
		RostersBySeason:     make(map[int][]model.SeasonStats),
		DraftPicksBySeason:  make(map[int][]model.DraftPick),
		TradedPicksBySeason: make(map[int][]model.TradedPick),
		PlayerSeasonPoints:  make(map[int]map[string]model.PlayerSeasonPoints),
	}

	for _, season := range seasons {
		if err := loadSeason(st, season, h, sink); err != nil {
			return nil, fmt.Errorf("season %d: %w", season, err)
		}
	}

	if b, err := st.ReadOptional(store.UsersFile); err != nil {
		return nil, err
	} else if b != nil {
		if h.Users, err = ParseUsers(b, sink); err != nil {
			return nil, fmt.Errorf("%s: %w", store.UsersFile, err)
		}
	}

	if b, err := st.ReadOptional(store.TransactionsFile); err != nil {
		return nil, err
	} else if b != nil {
		if h.Transactions, err = ParseTransactions(b, sink); err != nil {
			return nil, fmt.Errorf("%s: %w", store.TransactionsFile, err)
		}
	}

	return h, nil
}

func loadSeason(st *store.JSONStore, season int, h *model.History, sink diag.Sink) error {
	b, err := st.ReadRaw(store.SeasonPath(season, store.RostersFile))
	if err != nil {
		return err
	}
	rosters, err := ParseRosters(season, b, sink)
	if err != nil {
		return fmt.Errorf("%s: %w", store.RostersFile, err)
	}
	h.RostersBySeason[season] = rosters

	b, err = st.ReadRaw(store.SeasonPath(season, store.MatchupsFile))
	if err != nil {
		return err
	}
	if h.MatchupsBySeason[season], err = ParseMatchups(season, b, sink); err != nil {
		return fmt.Errorf("%s: %w", store.MatchupsFile, err)
	}

	if b, err = st.ReadOptional(store.SeasonPath(season, store.DraftPicksFile)); err != nil {
		return err
	} else if b != nil {
		if h.DraftPicksBySeason[season], err = ParseDraftPicks(season, b, rosters, sink); err != nil {
			return fmt.Errorf("%s: %w", store.DraftPicksFile, err)
		}
	}

	if b, err = st.ReadOptional(store.SeasonPath(season, store.TradedPicksFile)); err != nil {
		return err
	} else if b != nil {
		if h.TradedPicksBySeason[season], err = ParseTradedPicks(season, b, sink); err != nil {
			return fmt.Errorf("%s: %w", store.TradedPicksFile, err)
		}
	}

	if b, err = st.ReadOptional(store.SeasonPath(season, store.PlayerPointsFile)); err != nil {
		return err
	} else if b != nil {
		if h.PlayerSeasonPoints[season], err = ParsePlayerPoints(b, sink); err != nil {
			return fmt.Errorf("%s: %w", store.PlayerPointsFile, err)
		}
	}

	return nil
}
