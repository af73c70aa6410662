package badges

import (
	"sort"

	"github.com/moose735/TLOED/internal/model"
)

// builder accumulates badges from completed rules. A key is only ever
// accepted once.
type builder struct {
	seen   map[model.BadgeKey]bool
	badges []model.Badge
}

func newBuilder() *builder {
	return &builder{seen: make(map[model.BadgeKey]bool)}
}

func (b *builder) has(k model.BadgeKey) bool {
	return b.seen[k]
}

func (b *builder) merge(badges []model.Badge) {
	for _, badge := range badges {
		if b.seen[badge.Key] {
			continue
		}
		b.seen[badge.Key] = true
		b.badges = append(b.badges, badge)
	}
}

// build normalizes every badge and produces the result collections.
func (b *builder) build(e *engine) Result {
	res := Result{ByTeam: make(map[model.OwnerID][]model.Badge), Recent: []model.Badge{}}

	all := make([]model.Badge, 0, len(b.badges))
	for _, badge := range b.badges {
		all = append(all, e.normalize(badge))
	}

	for _, badge := range all {
		res.ByTeam[badge.TeamID] = append(res.ByTeam[badge.TeamID], badge)
	}
	for owner, bs := range res.ByTeam {
		sort.SliceStable(bs, func(i, j int) bool {
			yi, yj := sortYear(bs[i]), sortYear(bs[j])
			if yi != yj {
				return yi < yj
			}
			return bs[i].ID < bs[j].ID
		})
		res.ByTeam[owner] = bs
	}

	recent := make([]model.Badge, len(all))
	copy(recent, all)
	sort.SliceStable(recent, func(i, j int) bool {
		yi, yj := sortYear(recent[i]), sortYear(recent[j])
		if yi != yj {
			return yi > yj
		}
		if !recent[i].Timestamp.Equal(recent[j].Timestamp) {
			return recent[i].Timestamp.After(recent[j].Timestamp)
		}
		return recent[i].ID < recent[j].ID
	})
	limit := e.opts.RecentLimit
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	res.Recent = recent
	return res
}

// sortYear orders career badges by the year they were granted.
func sortYear(b model.Badge) int {
	if b.Year != nil {
		return *b.Year
	}
	return b.Timestamp.Year()
}
