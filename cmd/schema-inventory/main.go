// Command schema-inventory reports the field paths and value types present in
// a league history directory.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moose735/TLOED/internal/store"
)

func main() {
	var (
		root       = flag.String("data", "data/league", "league history directory")
		outPath    = flag.String("out", "data/derived/schema_inventory.json", "output path")
		maxSeasons = flag.Int("max-seasons", 0, "scan only the newest N seasons (0 = all)")
		verbose    = flag.Bool("v", false, "log skipped files")
	)
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	inv, err := buildInventory(store.NewJSONStore(*root), *maxSeasons, time.Now(), log)
	if err != nil {
		log.WithError(err).Fatal("scan failed")
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.WithError(err).Fatal("create output dir")
	}
	payload, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("encode inventory")
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
		log.WithError(err).Fatal("write inventory")
	}
	log.WithFields(logrus.Fields{"path": *outPath, "files": len(inv.Files)}).Info("inventory written")
}
