package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moose735/TLOED/internal/store"
)

type typeSet map[string]struct{}

type schemaMap map[string]typeSet

// Inventory lists every JSON path seen in each league export file and the
// value types found there. Platforms disagree on field spellings, so this is
// the first thing to look at when an export does not load.
type Inventory struct {
	GeneratedAtUTC string `json:"generated_at_utc"`
	Root           string `json:"root"`
	Seasons        []int  `json:"seasons"`
	Files          []File `json:"files"`
}

type File struct {
	Name         string  `json:"name"`
	FilesScanned int     `json:"files_scanned"`
	Fields       []Field `json:"fields"`
}

type Field struct {
	Path  string   `json:"path"`
	Types []string `json:"types"`
}

var (
	leagueFiles = []string{store.UsersFile, store.TransactionsFile}
	seasonFiles = []string{
		store.RostersFile,
		store.MatchupsFile,
		store.DraftPicksFile,
		store.TradedPicksFile,
		store.PlayerPointsFile,
	}
)

// buildInventory scans the store. maxSeasons limits the per-season files to
// the newest seasons; 0 scans all of them.
func buildInventory(st *store.JSONStore, maxSeasons int, now time.Time, log logrus.FieldLogger) (*Inventory, error) {
	seasons, err := st.Seasons()
	if err != nil {
		return nil, err
	}
	if maxSeasons > 0 && len(seasons) > maxSeasons {
		seasons = seasons[len(seasons)-maxSeasons:]
	}

	inv := &Inventory{
		GeneratedAtUTC: now.UTC().Format(time.RFC3339),
		Root:           st.Root,
		Seasons:        seasons,
		Files:          make([]File, 0, len(leagueFiles)+len(seasonFiles)),
	}

	scan := func(name string, rels []string) {
		schema := make(schemaMap)
		scanned := 0
		for _, rel := range rels {
			raw, err := st.ReadOptional(rel)
			if err != nil {
				log.WithError(err).WithField("file", rel).Warn("read failed")
				continue
			}
			if raw == nil {
				continue
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				log.WithError(err).WithField("file", rel).Warn("invalid json")
				continue
			}
			scanned++
			walkSchema(v, "$", schema)
		}
		if scanned == 0 {
			log.WithField("file", name).Debug("no files")
			return
		}
		inv.Files = append(inv.Files, File{Name: name, FilesScanned: scanned, Fields: schemaToFields(schema)})
	}

	for _, name := range leagueFiles {
		scan(name, []string{name})
	}
	for _, name := range seasonFiles {
		rels := make([]string, 0, len(seasons))
		for _, s := range seasons {
			rels = append(rels, store.SeasonPath(s, name))
		}
		scan(name, rels)
	}
	return inv, nil
}

// walkSchema records the type at path and descends into v. Arrays contribute
// every element so that optional fields on later rows are not missed.
func walkSchema(v any, path string, schema schemaMap) {
	switch x := v.(type) {
	case map[string]any:
		addType(schema, path, "object")
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkSchema(x[k], path+"."+k, schema)
		}
	case []any:
		addType(schema, path, "array")
		if len(x) == 0 {
			addType(schema, path+"[]", "unknown")
		}
		for _, el := range x {
			walkSchema(el, path+"[]", schema)
		}
	case string:
		addType(schema, path, "string")
	case bool:
		addType(schema, path, "bool")
	case float64:
		addType(schema, path, "number")
	case nil:
		addType(schema, path, "null")
	default:
		addType(schema, path, fmt.Sprintf("%T", v))
	}
}

func addType(schema schemaMap, path string, typ string) {
	set, ok := schema[path]
	if !ok {
		set = make(typeSet)
		schema[path] = set
	}
	set[typ] = struct{}{}
}

func schemaToFields(schema schemaMap) []Field {
	paths := make([]string, 0, len(schema))
	for p := range schema {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	fields := make([]Field, 0, len(paths))
	for _, p := range paths {
		types := make([]string, 0, len(schema[p]))
		for t := range schema[p] {
			types = append(types, t)
		}
		sort.Strings(types)
		fields = append(fields, Field{Path: p, Types: types})
	}
	return fields
}
