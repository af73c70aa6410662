// Package draftvalue scores draft picks against the value a slot is expected
// to return.
//
// The expected value of overall pick p follows a log curve,
//
//	value(p) = A - B*ln(p)
//
// with A = 27.1 and B = A/ln(10): the first pick is worth 27.1, the tenth is
// worth nothing, and later picks are expected to cost value. The difference
// between what a pick actually produced and its slot value is its VORP delta.
package draftvalue

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

const DefaultIntercept = 27.1

// Curve is an expected-value-by-pick curve.
type Curve struct {
	A float64 `json:"a" toml:"a"`
	B float64 `json:"b" toml:"b"`
}

func DefaultCurve() Curve {
	return Curve{A: DefaultIntercept, B: DefaultIntercept / math.Ln10}
}

// IsZero reports whether the curve was left unset.
func (c Curve) IsZero() bool {
	return c.A == 0 && c.B == 0
}

// OrDefault returns c, or the default curve when c is unset.
func (c Curve) OrDefault() Curve {
	if c.IsZero() {
		return DefaultCurve()
	}
	return c
}

// Value returns the expected value of overall pick p. Picks below 1 are
// treated as pick 1.
func (c Curve) Value(p int) float64 {
	if p < 1 {
		p = 1
	}
	return c.A - c.B*math.Log(float64(p))
}

// ByPickSlot returns the expected value of every slot 1..totalPicks.
func (c Curve) ByPickSlot(totalPicks int) map[int]float64 {
	out := make(map[int]float64, max(totalPicks, 0))
	for p := 1; p <= totalPicks; p++ {
		out[p] = c.Value(p)
	}
	return out
}

// ExpectedValueByPickSlot evaluates the default curve for 1..totalPicks.
// totalPicks <= 0 yields an empty map.
func ExpectedValueByPickSlot(totalPicks int) map[int]float64 {
	return DefaultCurve().ByPickSlot(totalPicks)
}

var (
	ErrTooFewSamples = errors.New("draftvalue: need at least two distinct pick slots to fit a curve")
	ErrNotDecreasing = errors.New("draftvalue: fitted curve does not decrease with pick number")
)

// Validate rejects curves that reward later picks.
func (c Curve) Validate() error {
	if math.IsNaN(c.A) || math.IsNaN(c.B) || math.IsInf(c.A, 0) || math.IsInf(c.B, 0) {
		return fmt.Errorf("draftvalue: curve has non-finite coefficients (a=%v b=%v)", c.A, c.B)
	}
	if c.B <= 0 {
		return ErrNotDecreasing
	}
	return nil
}

// Sample is one observed (pick slot, produced value) pair.
type Sample struct {
	PickNo int
	Value  float64
}

// FitCurve fits A and B by least squares of value against ln(pick).
// Samples with a pick below 1 or a non-finite value are ignored.
func FitCurve(samples []Sample) (Curve, error) {
	xs := make([]float64, 0, len(samples))
	ys := make([]float64, 0, len(samples))
	slots := make(map[int]bool)
	for _, s := range samples {
		if s.PickNo < 1 || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			continue
		}
		xs = append(xs, math.Log(float64(s.PickNo)))
		ys = append(ys, s.Value)
		slots[s.PickNo] = true
	}
	if len(slots) < 2 {
		return Curve{}, ErrTooFewSamples
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	c := Curve{A: alpha, B: -beta}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}
