package badges

import (
	"fmt"
	"strconv"

	"github.com/moose735/TLOED/internal/model"
)

const (
	droughtStep     = 5
	winsStep        = 25
	veteranSeasons  = 5
	oldTimerSeasons = 10
)

// participation lists, per owner, the seasons they played, ascending.
func participation(ctxs []*seasonCtx) map[model.OwnerID][]*seasonCtx {
	out := make(map[model.OwnerID][]*seasonCtx)
	for _, sc := range ctxs {
		for _, s := range sc.played() {
			out[s.OwnerID] = append(out[s.OwnerID], sc)
		}
	}
	return out
}

// championDrought awards one badge per five seasons an active owner has gone
// without a title. The count runs from the last title, or from the season
// before the owner's first when they never won.
func championDrought(e *engine, ctxs []*seasonCtx, em *emitter) {
	if len(ctxs) == 0 {
		return
	}
	latest := ctxs[len(ctxs)-1]
	seasons := participation(ctxs)

	for _, s := range latest.played() {
		owner := s.OwnerID
		played := seasons[owner]
		if len(played) == 0 {
			continue
		}
		base := played[0].season - 1
		lastTitle := 0
		for _, sc := range played {
			if sc.byOwner[owner].IsChampion {
				base, lastTitle = sc.season, sc.season
			}
		}
		elapsed := latest.season - base
		for m := droughtStep; m <= elapsed; m += droughtStep {
			meta := map[string]any{"seasons": m}
			if lastTitle != 0 {
				meta["last_title"] = lastTitle
			}
			if b := em.awardIn(base+m, owner, model.CategoryBlunder, "Champion Drought", strconv.Itoa(m), meta); b != nil {
				b.DisplayName = fmt.Sprintf("Champion Drought (%d Seasons)", m)
			}
		}
	}
}

// totalWins awards a milestone for every 25 career wins, dated to the season
// the threshold was crossed.
func totalWins(e *engine, ctxs []*seasonCtx, em *emitter) {
	career := make(map[model.OwnerID]int)
	for _, sc := range ctxs {
		for _, s := range sc.stats {
			prev := career[s.OwnerID]
			cur := prev + s.Wins
			career[s.OwnerID] = cur
			for th := (prev/winsStep + 1) * winsStep; th <= cur; th += winsStep {
				key := model.BadgeKey{
					Category:      model.CategoryLeague,
					Slug:          slugify("Total Wins"),
					Season:        sc.season,
					OwnerID:       s.OwnerID,
					Disambiguator: strconv.Itoa(th),
				}
				if e.b.has(key) {
					continue
				}
				if b := em.awardIn(sc.season, s.OwnerID, model.CategoryLeague, "Total Wins", strconv.Itoa(th), map[string]any{"wins": th}); b != nil {
					b.DisplayName = fmt.Sprintf("%d Career Wins", th)
				}
			}
		}
	}
}

func tenure(e *engine, ctxs []*seasonCtx, em *emitter) {
	seasons := participation(ctxs)
	for _, owner := range sortedOwners(seasons) {
		n := len(seasons[owner])
		if n >= veteranSeasons {
			em.awardIn(0, owner, model.CategoryLeague, "Veteran Presence", "", map[string]any{"seasons": n})
		}
		if n >= oldTimerSeasons {
			em.awardIn(0, owner, model.CategoryLeague, "Old Timer", "", map[string]any{"seasons": n})
		}
	}
}
