// Command legacy runs the league analytics over a history directory or
// snapshot and prints tables or JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/moose735/TLOED/internal/config"
	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/ledger"
	"github.com/moose735/TLOED/internal/model"
)

type globalCmd struct {
	Config  string `help:"TOML configuration file." type:"path" env:"LEGACY_CONFIG"`
	Data    string `help:"League history directory or snapshot file. Overrides data.root." type:"path" env:"LEGACY_DATA"`
	Season  int    `help:"Season in progress. Overrides engine.current_season."`
	Week    int    `help:"Week in progress. Overrides engine.current_week."`
	JSON    bool   `help:"Print JSON instead of tables."`
	Verbose bool   `short:"v" help:"Log every diagnostic."`

	out io.Writer
	log *logrus.Logger
}

var CLI struct {
	globalCmd

	Badges    badgesCmd     `cmd:"" help:"Compute the badge catalog."`
	Records   recordsCmd    `cmd:"" help:"Build the league record book."`
	Streaks   streaksCmd    `cmd:"" help:"Detect win, loss and scoring streaks."`
	Keeper    keeperCmd     `cmd:"" help:"Resolve the draft pick a keeper costs."`
	DraftVal  draftValueCmd `cmd:"" name:"draft-value" help:"Score a season's draft picks against the value curve."`
	FitCurve  fitCurveCmd   `cmd:"" name:"fit-curve" help:"Fit the value curve to the league's draft history."`
	Summarize summarizeCmd  `cmd:"" help:"Write badges, records and streaks as JSON files."`
	Snapshot  snapshotCmd   `cmd:"" help:"Normalize the history directory into one snapshot file."`
	Check     checkCmd      `cmd:"" help:"Compare roster records with the results of their games."`
}

// env is what every command needs once flags and configuration are merged.
type env struct {
	cfg     *config.Config
	history *model.History
	sink    diag.Sink
}

func (g *globalCmd) writer() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (g *globalCmd) logger() *logrus.Logger {
	if g.log == nil {
		g.log = logrus.New()
		g.log.SetOutput(os.Stderr)
	}
	return g.log
}

func (g *globalCmd) load() (*env, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Data != "" {
		cfg.Data.Root = g.Data
	}
	if g.Season > 0 {
		cfg.Engine.CurrentSeason = g.Season
	}
	if g.Week > 0 {
		cfg.Engine.CurrentWeek = g.Week
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := g.logger()
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	if g.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	sink := diag.NewLogrus(log)

	h, err := ledger.Open(cfg.Data.Root, sink)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", cfg.Data.Root, err)
	}
	cfg = cfg.WithHistory(h)
	log.WithFields(logrus.Fields{"data": cfg.Data.Root, "seasons": len(h.Seasons()), "current_season": cfg.Engine.CurrentSeason}).Debug("history loaded")
	return &env{cfg: cfg, history: h, sink: sink}, nil
}

func (g *globalCmd) printJSON(v any) error {
	enc := json.NewEncoder(g.writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("legacy"),
		kong.Description("League history analytics: badges, records, streaks, keeper costs and draft value."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}
