package draftvalue

import (
	"math"
	"sort"

	"github.com/moose735/TLOED/internal/model"
)

// PlayerValue is what a pick actually produced: its recorded season fantasy
// points, or 0 when the figure is missing or not a finite number.
func PlayerValue(p model.DraftPick) float64 {
	v := p.FantasyPoints
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func VORPDelta(actual, expected float64) float64 {
	return actual - expected
}

// Rescale maps v linearly from [minRaw, maxRaw] onto [minTarget, maxTarget].
// A degenerate source range maps everything to minTarget.
func Rescale(v, minRaw, maxRaw, minTarget, maxTarget float64) float64 {
	if minRaw == maxRaw {
		return minTarget
	}
	return minTarget + (v-minRaw)*(maxTarget-minTarget)/(maxRaw-minRaw)
}

// PickValue is a draft pick scored against its slot.
type PickValue struct {
	Pick     model.DraftPick `json:"pick"`
	Position string          `json:"position"`
	Expected float64         `json:"expected"`
	Actual   float64         `json:"actual"`
	Delta    float64         `json:"delta"`
}

// EvaluatePicks scores every usable pick: pick number at least 1 and a
// known owner. Output is ordered by pick number.
func EvaluatePicks(picks []model.DraftPick, c Curve) []PickValue {
	c = c.OrDefault()
	out := make([]PickValue, 0, len(picks))
	for _, p := range picks {
		if p.PickNo <= 0 || p.OwnerID == "" {
			continue
		}
		expected := c.Value(p.PickNo)
		actual := PlayerValue(p)
		out = append(out, PickValue{
			Pick:     p,
			Position: NormalizePosition(p.Position),
			Expected: expected,
			Actual:   actual,
			Delta:    VORPDelta(actual, expected),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pick.PickNo < out[j].Pick.PickNo
	})
	return out
}
