package pathfinding

import "math"

// Softmax converts a slice of costs into a probability-like weight per
// entry, summing to 1. A low temperature sharply favors the lowest cost;
// the shift by the minimum cost keeps the exponentials in range.
func Softmax(costs []float64, temperature float64) []float64 {
	if len(costs) == 0 {
		return nil
	}
	if temperature <= 0 {
		temperature = 1e-10
	}

	min := costs[0]
	for _, c := range costs[1:] {
		if c < min {
			min = c
		}
	}

	weights := make([]float64, len(costs))
	var sum float64
	for i, c := range costs {
		w := math.Exp(-(c - min) / temperature)
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
