package main

import (
	"fmt"
	"strings"

	"github.com/moose735/TLOED/internal/badges"
	"github.com/moose735/TLOED/internal/draftvalue"
	"github.com/moose735/TLOED/internal/keeper"
	"github.com/moose735/TLOED/internal/model"
	"github.com/moose735/TLOED/internal/records"
	"github.com/moose735/TLOED/internal/streaks"
	"github.com/moose735/TLOED/internal/summary"
)

type LeagueBadgesArgs struct {
	Season *int `json:"season,omitempty" jsonschema:"Only badges from this season (career badges are always included)"`
	Recent bool `json:"recent,omitempty" jsonschema:"Return the recent-badge feed instead of badges by team"`
	Limit  int  `json:"limit,omitempty" jsonschema:"Recent feed size (default from config)"`
}

type LeagueBadgesOutput struct {
	Total  int                             `json:"total"`
	ByTeam map[model.OwnerID][]model.Badge `json:"badges_by_team,omitempty"`
	Recent []model.Badge                   `json:"recent_badges,omitempty"`
}

type OwnerBadgesArgs struct {
	OwnerID string `json:"owner_id" jsonschema:"Owner id (required)"`
	Season  *int   `json:"season,omitempty" jsonschema:"Only badges from this season"`
}

type OwnerBadgesOutput struct {
	OwnerID model.OwnerID `json:"owner_id"`
	Count   int           `json:"count"`
	Badges  []model.Badge `json:"badges"`
}

type LeagueRecordsArgs struct {
	Group string `json:"group,omitempty" jsonschema:"Record group: matchup|playoff|season|streak (default all)"`
}

type StreakRecordsArgs struct {
	Kind string `json:"kind,omitempty" jsonschema:"Streak kind: win|loss|highest_score|top_three (default all)"`
	Top  int    `json:"top,omitempty" jsonschema:"Also list the N longest streaks of each kind"`
}

type StreakKindOutput struct {
	Kind    streaks.Kind     `json:"kind"`
	Longest int              `json:"longest"`
	Holders []streaks.Streak `json:"holders"`
	Top     []streaks.Streak `json:"top,omitempty"`
}

type KeeperCostArgs struct {
	Owner  string `json:"owner" jsonschema:"Owner id or roster id (required)"`
	Season int    `json:"season" jsonschema:"Draft season (default current season from config)"`
	Round  int    `json:"round" jsonschema:"Round the keeper costs (required)"`
}

type KeeperCostOutput struct {
	Owner  string `json:"owner"`
	Season int    `json:"season"`
	keeper.Result
}

type DraftValueArgs struct {
	Season   int    `json:"season" jsonschema:"Draft season (required)"`
	Strategy string `json:"strategy,omitempty" jsonschema:"VORP aggregation: per-pick|sum-then-scale (default from config)"`
	OwnerID  string `json:"owner_id,omitempty" jsonschema:"Only this owner's picks"`
}

func (cfg ServerConfig) badgeResult(limit int) (badges.Result, error) {
	h, err := cfg.loadHistory()
	if err != nil {
		return badges.Result{}, err
	}
	opts := cfg.Config.BadgeOptions()
	opts.Clock = cfg.engineClock()
	opts.Diagnostics = cfg.Sink
	if limit != 0 {
		opts.RecentLimit = limit
	}
	res := badges.Compute(badges.Inputs{History: h}, opts)
	if cfg.Metrics != nil {
		cfg.Metrics.RecordBadges(summary.BadgeCounts(res))
	}
	return res, nil
}

// inSeason keeps career badges and badges of season.
func inSeason(bs []model.Badge, season *int) []model.Badge {
	if season == nil {
		return bs
	}
	out := make([]model.Badge, 0, len(bs))
	for _, b := range bs {
		if b.Year == nil || *b.Year == *season {
			out = append(out, b)
		}
	}
	return out
}

func buildLeagueBadges(cfg ServerConfig, args LeagueBadgesArgs) (LeagueBadgesOutput, error) {
	if args.Limit < 0 {
		return LeagueBadgesOutput{}, fmt.Errorf("limit must not be negative")
	}
	res, err := cfg.badgeResult(args.Limit)
	if err != nil {
		return LeagueBadgesOutput{}, err
	}
	if args.Recent {
		recent := inSeason(res.Recent, args.Season)
		return LeagueBadgesOutput{Total: len(recent), Recent: recent}, nil
	}
	out := LeagueBadgesOutput{ByTeam: make(map[model.OwnerID][]model.Badge, len(res.ByTeam))}
	for owner, bs := range res.ByTeam {
		kept := inSeason(bs, args.Season)
		if len(kept) == 0 {
			continue
		}
		out.ByTeam[owner] = kept
		out.Total += len(kept)
	}
	return out, nil
}

func buildOwnerBadges(cfg ServerConfig, args OwnerBadgesArgs) (OwnerBadgesOutput, error) {
	owner := model.OwnerID(strings.TrimSpace(args.OwnerID))
	if owner == "" {
		return OwnerBadgesOutput{}, fmt.Errorf("owner_id is required")
	}
	res, err := cfg.badgeResult(0)
	if err != nil {
		return OwnerBadgesOutput{}, err
	}
	bs := inSeason(summary.OwnerBadges(res, owner), args.Season)
	return OwnerBadgesOutput{OwnerID: owner, Count: len(bs), Badges: bs}, nil
}

func (cfg ServerConfig) recordOptions() records.Options {
	return records.Options{
		CurrentSeason: cfg.Config.Engine.CurrentSeason,
		CurrentWeek:   cfg.Config.Engine.CurrentWeek,
		Diagnostics:   cfg.Sink,
	}
}

func buildLeagueRecords(cfg ServerConfig, args LeagueRecordsArgs) (records.Book, error) {
	group := strings.ToLower(strings.TrimSpace(args.Group))
	switch group {
	case "", "matchup", "playoff", "season", "streak":
	default:
		return records.Book{}, fmt.Errorf("unknown record group: %q", args.Group)
	}
	h, err := cfg.loadHistory()
	if err != nil {
		return records.Book{}, err
	}
	in := records.Inputs{History: h}
	opts := cfg.recordOptions()
	switch group {
	case "matchup":
		return records.Book{Matchup: records.MatchupRecords(in, opts)}, nil
	case "playoff":
		return records.Book{Playoff: records.PlayoffRecords(in, opts)}, nil
	case "season":
		return records.Book{Season: records.SeasonRecords(in, opts)}, nil
	case "streak":
		return records.Book{Streak: records.StreakRecords(in, opts)}, nil
	}
	return records.Build(in, opts), nil
}

func buildStreakRecords(cfg ServerConfig, args StreakRecordsArgs) ([]StreakKindOutput, error) {
	kinds := streaks.Published
	if args.Kind != "" {
		k := streaks.Kind(strings.ToLower(strings.TrimSpace(args.Kind)))
		found := false
		for _, p := range streaks.Published {
			if p == k {
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown streak kind: %q", args.Kind)
		}
		kinds = []streaks.Kind{k}
	}
	h, err := cfg.loadHistory()
	if err != nil {
		return nil, err
	}
	res := records.DetectStreaks(records.Inputs{History: h}, cfg.recordOptions())

	out := make([]StreakKindOutput, 0, len(kinds))
	for _, k := range kinds {
		c := res.Category(k)
		o := StreakKindOutput{Kind: k, Longest: c.Longest, Holders: c.Holders}
		if args.Top > 0 {
			o.Top = c.All[:min(args.Top, len(c.All))]
		}
		out = append(out, o)
	}
	return out, nil
}

func buildKeeperCost(cfg ServerConfig, args KeeperCostArgs) (KeeperCostOutput, error) {
	owner := strings.TrimSpace(args.Owner)
	if owner == "" {
		return KeeperCostOutput{}, fmt.Errorf("owner is required")
	}
	if args.Round < 1 {
		return KeeperCostOutput{}, fmt.Errorf("round is required")
	}
	h, err := cfg.loadHistory()
	if err != nil {
		return KeeperCostOutput{}, err
	}
	season := args.Season
	if season == 0 {
		season = cfg.Config.Engine.CurrentSeason
	}
	if season == 0 {
		return KeeperCostOutput{}, fmt.Errorf("season is required (history has no seasons)")
	}
	return KeeperCostOutput{
		Owner:  owner,
		Season: season,
		Result: summary.KeeperCost(h, owner, season, args.Round),
	}, nil
}

func buildDraftValue(cfg ServerConfig, args DraftValueArgs) (summary.DraftValueSummary, error) {
	if args.Season == 0 {
		return summary.DraftValueSummary{}, fmt.Errorf("season is required")
	}
	name := args.Strategy
	if name == "" {
		name = cfg.Config.Engine.VORPStrategy
	}
	strategy, err := draftvalue.ParseStrategy(name)
	if err != nil {
		return summary.DraftValueSummary{}, err
	}
	h, err := cfg.loadHistory()
	if err != nil {
		return summary.DraftValueSummary{}, err
	}
	if len(h.DraftPicksBySeason[args.Season]) == 0 {
		return summary.DraftValueSummary{}, fmt.Errorf("no draft picks for season %d", args.Season)
	}
	dv := summary.DraftValues(h, args.Season, draftvalue.Options{Strategy: strategy, Curve: cfg.Config.Engine.Curve})
	if owner := model.OwnerID(strings.TrimSpace(args.OwnerID)); owner != "" {
		picks := make([]draftvalue.PickValue, 0)
		for _, v := range dv.Picks {
			if v.Pick.OwnerID == owner {
				picks = append(picks, v)
			}
		}
		dv.Picks = picks
		dv.Teams = draftvalue.TeamTotals{owner: dv.Teams[owner]}
	}
	return dv, nil
}
