package rewards

import "math"

// Source yields uniform samples in [0, 1).
type Source interface {
	Float64() float64
}

// Draw picks one reward from p using exactly one sample from src.
//
// The sample is scaled to [0, total) and the entries are walked in order,
// accumulating weight; the first entry with positive weight whose cumulative
// weight reaches the scaled sample wins. Zero-weight entries are never picked.
func Draw(p *Pool, src Source) Reward {
	return p.entries[pick(p.weights, p.total, src.Float64())].Reward
}

// pick returns the index selected by u in [0,1) over weights summing to total.
func pick(weights []float64, total, u float64) int {
	target := clampUnit(u) * total

	var cum float64

	for i, w := range weights {
		if w <= 0 {
			continue
		}

		cum += w
		if cum >= target {
			return i
		}
	}

	return fallback(weights)
}

// fallback is the index chosen when accumulated rounding leaves the walk
// below the target: the last entry that can be selected at all.
func fallback(weights []float64) int {
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}

	return len(weights) - 1
}

func clampUnit(u float64) float64 {
	switch {
	case u < 0 || math.IsNaN(u):
		return 0
	case u >= 1:
		// Keep the target strictly inside [0, total) so the last positive
		// weight still wins through the normal walk.
		return 1 - 1e-16
	default:
		return u
	}
}
