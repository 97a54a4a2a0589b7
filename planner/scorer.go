package planner

import (
	"routing/config"
	"routing/graph"
	"routing/pathfinding"
)

// pathDetails accumulates the per-edge metrics of a candidate.
type pathDetails struct {
	distance   float64 // km
	duration   float64 // seconds
	congestion float64 // sum of per-edge load factors
}

func detail(snap *graph.Snapshot, nodes []string) pathDetails {
	var d pathDetails
	for i := 0; i < len(nodes)-1; i++ {
		road, ok := snap.Edge(nodes[i], nodes[i+1])
		if !ok {
			continue
		}
		d.distance += road.BaseDistance
		d.duration += road.TravelSeconds()
		d.congestion += road.LoadFactor
	}
	return d
}

// Score converts candidates into scored paths. The composite cost blends
// normalized distance and normalized congestion (the congestion term
// dominates), discounted by a time-proximity reward for candidates near
// the fastest duration and, in a congested scenario, a relief reward that
// pulls selection toward the smoothest candidate. Costs become weights
// through a low-temperature softmax, so the weights sum to 1 and the best
// candidate stands out sharply.
func Score(snap *graph.Snapshot, candidates []pathfinding.Candidate) []ScoredPath {
	if len(candidates) == 0 {
		return nil
	}

	details := make([]pathDetails, len(candidates))
	var maxDistance, maxCongestion, minDuration, meanLoad float64
	for i, c := range candidates {
		details[i] = detail(snap, c.Nodes)
		if details[i].distance > maxDistance {
			maxDistance = details[i].distance
		}
		if details[i].congestion > maxCongestion {
			maxCongestion = details[i].congestion
		}
		if i == 0 || details[i].duration < minDuration {
			minDuration = details[i].duration
		}
		if n := len(c.Nodes) - 1; n > 0 {
			meanLoad += details[i].congestion / float64(n)
		}
	}
	meanLoad /= float64(len(candidates))
	congestedScenario := meanLoad > config.CongestedScenarioMean

	costs := make([]float64, len(candidates))
	for i := range candidates {
		d := details[i]

		var normDistance, normCongestion float64
		if maxDistance > 0 {
			normDistance = d.distance / maxDistance
		}
		if maxCongestion > 0 {
			normCongestion = d.congestion / maxCongestion
		}

		cost := config.WeightAlpha*normDistance + config.WeightBeta*normCongestion

		// Bounded monotone reward: the closer the candidate's duration is
		// to the fastest one, the larger the discount.
		if d.duration > 0 && minDuration > 0 {
			cost -= config.TimeProximityWeight * (minDuration / d.duration)
		}

		// Under a congested scenario the least-congested candidate earns an
		// extra discount scaled by how congested the scenario is.
		if congestedScenario && maxCongestion > 0 {
			cost -= config.CongestionReliefWeight * meanLoad * (1.0 - d.congestion/maxCongestion)
		}

		costs[i] = cost
	}

	weights := pathfinding.Softmax(costs, config.SoftmaxTemperature)

	scored := make([]ScoredPath, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredPath{
			Path:           c.Nodes,
			Distance:       details[i].distance,
			Duration:       details[i].duration,
			CongestionCost: details[i].congestion,
			Score:          costs[i],
			Weight:         weights[i],
			Rank:           c.Rank,
		}
	}
	return scored
}
