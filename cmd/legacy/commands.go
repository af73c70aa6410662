package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/sirupsen/logrus"

	"github.com/moose735/TLOED/internal/badges"
	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/draftvalue"
	"github.com/moose735/TLOED/internal/ledger"
	"github.com/moose735/TLOED/internal/model"
	"github.com/moose735/TLOED/internal/reconcile"
	"github.com/moose735/TLOED/internal/records"
	"github.com/moose735/TLOED/internal/report"
	"github.com/moose735/TLOED/internal/summary"
)

type badgesCmd struct {
	Owner  string `help:"Only show this owner's badges."`
	Recent bool   `help:"Show the recent-badge feed instead of badges by team."`
}

func (c *badgesCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	opts := e.cfg.BadgeOptions()
	opts.Diagnostics = e.sink
	res := badges.Compute(badges.Inputs{History: e.history}, opts)

	owner := model.OwnerID(c.Owner)
	switch {
	case g.JSON && c.Recent:
		return g.printJSON(res.Recent)
	case g.JSON && owner != "":
		return g.printJSON(summary.OwnerBadges(res, owner))
	case g.JSON:
		return g.printJSON(res)
	case c.Recent:
		report.Recent(g.writer(), res)
	default:
		report.Badges(g.writer(), res, owner)
	}
	return nil
}

type recordsCmd struct{}

func (c *recordsCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	book := records.Build(records.Inputs{History: e.history}, records.Options{
		CurrentSeason: e.cfg.Engine.CurrentSeason,
		CurrentWeek:   e.cfg.Engine.CurrentWeek,
		Diagnostics:   e.sink,
	})
	if g.JSON {
		return g.printJSON(book)
	}
	report.Records(g.writer(), book)
	return nil
}

type streaksCmd struct{}

func (c *streaksCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	res := records.DetectStreaks(records.Inputs{History: e.history}, records.Options{
		CurrentSeason: e.cfg.Engine.CurrentSeason,
		CurrentWeek:   e.cfg.Engine.CurrentWeek,
		Diagnostics:   e.sink,
	})
	if g.JSON {
		return g.printJSON(res)
	}
	report.Streaks(g.writer(), res)
	return nil
}

type keeperCmd struct {
	Owner string `arg:"" help:"Owner id or roster id."`
	Round int    `arg:"" help:"Round the keeper costs."`
}

func (c *keeperCmd) Run(g *globalCmd) error {
	if c.Round < 1 {
		return fmt.Errorf("round must be at least 1, got %d", c.Round)
	}
	e, err := g.load()
	if err != nil {
		return err
	}
	season := e.cfg.Engine.CurrentSeason
	if season == 0 {
		return errors.New("keeper needs --season or a history with seasons")
	}
	res := summary.KeeperCost(e.history, c.Owner, season, c.Round)
	if g.JSON {
		return g.printJSON(res)
	}
	report.Keeper(g.writer(), c.Owner, season, res)
	return nil
}

type draftValueCmd struct {
	DraftSeason int    `name:"draft-season" help:"Draft to score. Defaults to the latest season with picks."`
	Strategy    string `help:"VORP aggregation: per-pick or sum-then-scale. Defaults to engine.vorp_strategy."`
}

func (c *draftValueCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	name := c.Strategy
	if name == "" {
		name = e.cfg.Engine.VORPStrategy
	}
	strategy, err := draftvalue.ParseStrategy(name)
	if err != nil {
		return err
	}
	season := c.DraftSeason
	if season == 0 {
		season = latestDraft(e.history)
	}
	if season == 0 {
		return errors.New("history has no draft picks")
	}
	dv := summary.DraftValues(e.history, season, draftvalue.Options{Strategy: strategy, Curve: e.cfg.Engine.Curve})
	if g.JSON {
		return g.printJSON(dv)
	}
	report.DraftValues(g.writer(), dv)
	return nil
}

func latestDraft(h *model.History) int {
	latest := 0
	for season, picks := range h.DraftPicksBySeason {
		if len(picks) > 0 && season > latest {
			latest = season
		}
	}
	return latest
}

type fitCurveCmd struct {
	Slots int `default:"12" help:"Pick slots to print."`
}

func (c *fitCurveCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	curve, n, err := summary.FitCurve(e.history)
	if err != nil {
		return fmt.Errorf("fit curve over %d picks: %w", n, err)
	}
	g.logger().WithField("samples", n).Info("curve fitted")
	if g.JSON {
		return g.printJSON(map[string]any{"curve": curve, "samples": n})
	}
	report.Curve(g.writer(), curve, c.Slots)
	return nil
}

type summarizeCmd struct {
	Out string `help:"Output directory. Defaults to data.output." type:"path"`
}

func (c *summarizeCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	s := summary.Build(e.history, summary.Options{
		Badges:      e.cfg.BadgeOptions(),
		CurrentWeek: e.cfg.Engine.CurrentWeek,
		Clock:       clock.New(),
		Diagnostics: e.sink,
	})
	out := c.Out
	if out == "" {
		out = e.cfg.OutputDir()
	}
	if err := summary.Write(out, s); err != nil {
		return err
	}
	g.logger().WithFields(logrus.Fields{"dir": out, "badges": s.Badges.Count(), "warnings": len(s.Warnings)}).Info("summary written")
	return nil
}

type snapshotCmd struct {
	Out string `help:"Snapshot file. Defaults to <data.output>/history.json." type:"path"`
}

func (c *snapshotCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	out := c.Out
	if out == "" {
		out = filepath.Join(e.cfg.OutputDir(), "history.json")
	}
	if err := ledger.WriteSnapshot(out, ledger.BuildSnapshot(e.history, time.Now())); err != nil {
		return err
	}
	g.logger().WithField("path", out).Info("snapshot written")
	return nil
}

type checkCmd struct {
	Strict bool `help:"Exit non-zero when any mismatch is found."`
}

var errMismatches = errors.New("history has roster mismatches")

func (c *checkCmd) Run(g *globalCmd) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	r := reconcile.BuildReport(e.history, e.cfg.Engine.CurrentSeason, time.Now())
	for _, m := range r.Entries {
		diag.Skip(e.sink, "reconcile", "roster mismatch", map[string]any{
			"season": m.Season, "roster_id": m.RosterID, "field": m.Field, "missing": m.MissingRoster,
		})
	}
	if g.JSON {
		err = g.printJSON(r)
	} else {
		report.Check(g.writer(), r)
	}
	if err == nil && c.Strict && len(r.Entries) > 0 {
		return fmt.Errorf("%w: %d", errMismatches, len(r.Entries))
	}
	return err
}
