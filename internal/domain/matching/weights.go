package matching

import (
	"fmt"
	"math"
)

// Weights is the relative contribution of each sub-score to the hybrid score.
// Values do not need to sum to 1; they are normalized per comparison.
type Weights struct {
	Skills   float64 `json:"skills"`
	Location float64 `json:"location"`
	Semantic float64 `json:"semantic"`
}

var DefaultWeights = Weights{Skills: 0.75, Location: 0.15, Semantic: 0.10}

func (w Weights) Sum() float64 {
	return w.Skills + w.Location + w.Semantic
}

func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"skills", w.Skills},
		{"location", w.Location},
		{"semantic", w.Semantic},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &InvalidWeightsError{Reason: fmt.Sprintf("%s weight is not a finite number", f.name)}
		}
		if f.v < 0 {
			return &InvalidWeightsError{Reason: fmt.Sprintf("%s weight is negative (%g)", f.name, f.v)}
		}
	}
	return nil
}

// Normalize scales the weights to sum to 1. An all-zero triple falls back to defaults,
// which are normalized the same way.
func (w Weights) Normalize(defaults Weights) (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	sum := w.Sum()
	if sum == 0 {
		if err := defaults.Validate(); err != nil {
			return Weights{}, err
		}
		w = defaults
		sum = w.Sum()
		if sum == 0 {
			w = DefaultWeights
			sum = w.Sum()
		}
	}
	return Weights{
		Skills:   w.Skills / sum,
		Location: w.Location / sum,
		Semantic: w.Semantic / sum,
	}, nil
}

// withoutSemantic moves the semantic share onto the other two weights in proportion
// to their current values. When nothing is left to carry it, every weight is zero.
func (w Weights) withoutSemantic() Weights {
	rest := w.Skills + w.Location
	if rest == 0 {
		return Weights{}
	}
	return Weights{
		Skills:   w.Skills / rest,
		Location: w.Location / rest,
	}
}
