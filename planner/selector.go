package planner

import "math/rand"

// Picker chooses the recommended index from the softmax weights. The
// deterministic argmax is the default; a probabilistic draw stays available
// for deployments that want load spreading across near-ties.
type Picker interface {
	Pick(scored []ScoredPath) int
}

// ArgmaxPicker deterministically picks the maximum-weight candidate.
type ArgmaxPicker struct{}

func (ArgmaxPicker) Pick(scored []ScoredPath) int {
	best := 0
	for i := range scored {
		if scored[i].Weight > scored[best].Weight {
			best = i
		}
	}
	return best
}

// RandomPicker draws a candidate from the softmax distribution.
type RandomPicker struct {
	Rand *rand.Rand
}

func (p RandomPicker) Pick(scored []ScoredPath) int {
	r := p.Rand.Float64()
	var cum float64
	for i := range scored {
		cum += scored[i].Weight
		if r <= cum {
			return i
		}
	}
	return len(scored) - 1
}

// selectAndLabel marks the recommended candidate plus the per-dimension
// minima, each found by an independent pass over the same candidate list so
// callers can compare the trade-offs.
func selectAndLabel(scored []ScoredPath, picker Picker) int {
	if len(scored) == 0 {
		return -1
	}

	shortest, fastest, smoothest := 0, 0, 0
	for i := range scored {
		if scored[i].Distance < scored[shortest].Distance {
			shortest = i
		}
		if scored[i].Duration < scored[fastest].Duration {
			fastest = i
		}
		if scored[i].CongestionCost < scored[smoothest].CongestionCost {
			smoothest = i
		}
	}
	scored[shortest].Label = LabelShortestDistance
	scored[fastest].Label = LabelFastestTime
	scored[smoothest].Label = LabelMostSmooth

	recommended := picker.Pick(scored)
	scored[recommended].Label = LabelRecommended
	return recommended
}
