// Package ingest applies congestion reports coming from edge collectors to
// the live graph store.
package ingest

import (
	log "github.com/sirupsen/logrus"

	"routing/graph"
)

// RoadObservation is one per-road measurement from an intersection camera.
type RoadObservation struct {
	RoadID          string  `json:"road_id"`
	VehicleCount    float64 `json:"vehicle_count"`
	AverageSpeed    float64 `json:"average_speed"`
	CongestionLevel string  `json:"congestion_level"`
	Timestamp       string  `json:"timestamp"`
}

// Report is a batch of observations from one intersection.
type Report struct {
	IntersectionID string            `json:"intersection_id"`
	Roads          []RoadObservation `json:"roads"`
	Summary        Summary           `json:"summary"`
}

// Summary is the collector's own aggregate; stored only for logging.
type Summary struct {
	TotalVehicles int            `json:"total_vehicles"`
	VehicleTypes  map[string]int `json:"vehicle_types"`
	AverageSpeed  float64        `json:"average_speed"`
}

// Outcome reports per-road results of one batch. Unknown roads are skipped
// and listed; valid entries still apply.
type Outcome struct {
	IntersectionID string   `json:"intersection_id"`
	Updated        int      `json:"roads_updated"`
	Skipped        []string `json:"skipped_road_ids,omitempty"`
}

// Apply pushes a report into the store with partial-failure semantics: an
// unknown road id never aborts the batch.
func Apply(store *graph.Store, report Report) Outcome {
	outcome := Outcome{IntersectionID: report.IntersectionID}

	for _, obs := range report.Roads {
		err := store.ApplyCongestionUpdate(
			obs.RoadID,
			obs.VehicleCount,
			obs.AverageSpeed,
			parseLevel(obs.CongestionLevel),
		)
		if err != nil {
			log.Warnf("ingest from %s: %v", report.IntersectionID, err)
			outcome.Skipped = append(outcome.Skipped, obs.RoadID)
			continue
		}
		outcome.Updated++
	}

	log.Infof("ingest from %s: %d roads updated, %d skipped",
		report.IntersectionID, outcome.Updated, len(outcome.Skipped))
	return outcome
}

// parseLevel accepts only the known ordinal levels; anything else is left
// empty so the store derives the level from the new load factor.
func parseLevel(s string) graph.CongestionLevel {
	switch level := graph.CongestionLevel(s); level {
	case graph.LevelFree, graph.LevelLight, graph.LevelMedium, graph.LevelHeavy:
		return level
	default:
		return ""
	}
}
