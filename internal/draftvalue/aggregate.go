package draftvalue

import (
	"fmt"
	"math"
	"strings"

	"github.com/moose735/TLOED/internal/model"
)

// Strategy selects how per-pick deltas become per-team, per-position scores.
type Strategy int

const (
	// PerPickThenSum rescales each pick's delta against the min/max of all
	// deltas in the set, then sums per (owner, position).
	PerPickThenSum Strategy = iota
	// SumThenScale sums raw deltas per (owner, position), then rescales the
	// sums against their own min/max.
	SumThenScale
)

func (s Strategy) String() string {
	switch s {
	case PerPickThenSum:
		return "per-pick"
	case SumThenScale:
		return "sum-then-scale"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-pick", "per_pick", "perpickthensum":
		return PerPickThenSum, nil
	case "sum-then-scale", "sum_then_scale", "sumthenscale":
		return SumThenScale, nil
	default:
		return 0, fmt.Errorf("unknown vorp strategy: %q", s)
	}
}

type Options struct {
	Strategy  Strategy
	Curve     Curve
	MinTarget float64
	MaxTarget float64
}

func (o Options) targets() (float64, float64) {
	if o.MinTarget == 0 && o.MaxTarget == 0 {
		return 0, 100
	}
	return o.MinTarget, o.MaxTarget
}

type Totals struct {
	Count     int     `json:"count"`
	RawSum    float64 `json:"raw_sum"`
	ScaledSum float64 `json:"scaled_sum"`
}

// TeamTotals is keyed by owner, then normalized position.
type TeamTotals map[model.OwnerID]map[string]Totals

// TeamScaledVORPByPosition aggregates pick deltas per owner and position.
// Picks without a pick number or an owner are skipped.
func TeamScaledVORPByPosition(picks []model.DraftPick, opts Options) TeamTotals {
	values := EvaluatePicks(picks, opts.Curve)
	minT, maxT := opts.targets()
	out := make(TeamTotals)

	add := func(owner model.OwnerID, pos string, raw, scaled float64) {
		byPos, ok := out[owner]
		if !ok {
			byPos = make(map[string]Totals)
			out[owner] = byPos
		}
		t := byPos[pos]
		t.Count++
		t.RawSum += raw
		t.ScaledSum += scaled
		byPos[pos] = t
	}

	switch opts.Strategy {
	case SumThenScale:
		for _, v := range values {
			add(v.Pick.OwnerID, v.Position, v.Delta, 0)
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, byPos := range out {
			for _, t := range byPos {
				lo = math.Min(lo, t.RawSum)
				hi = math.Max(hi, t.RawSum)
			}
		}
		for owner, byPos := range out {
			for pos, t := range byPos {
				t.ScaledSum = Rescale(t.RawSum, lo, hi, minT, maxT)
				out[owner][pos] = t
			}
		}
	default:
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range values {
			lo = math.Min(lo, v.Delta)
			hi = math.Max(hi, v.Delta)
		}
		for _, v := range values {
			add(v.Pick.OwnerID, v.Position, v.Delta, Rescale(v.Delta, lo, hi, minT, maxT))
		}
	}
	return out
}
