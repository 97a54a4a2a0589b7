package planner

import (
	"fmt"
	"time"

	"routing/pathfinding"
)

// Vehicle types accepted by the planner.
const (
	VehicleNormal    = "normal"
	VehicleEmergency = "emergency"
	VehicleTruck     = "truck"
)

// Labels assigned by the selector.
const (
	LabelRecommended      = "recommended"
	LabelShortestDistance = "shortest_distance"
	LabelFastestTime      = "fastest_time"
	LabelMostSmooth       = "most_smooth"
)

// ErrNoPathFound mirrors the pathfinding sentinel for callers that only
// import the planner.
var ErrNoPathFound = pathfinding.ErrNoPathFound

// ValidationError rejects a malformed request before it reaches a worker.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Request is one planning job.
type Request struct {
	VehicleID   string `json:"vehicle_id"`
	VehicleType string `json:"vehicle_type"`
	StartNode   string `json:"start_node"`
	EndNode     string `json:"end_node"`
}

// ScoredPath is a candidate with its composite score, softmax weight and
// any label the selector assigned.
type ScoredPath struct {
	Path           []string `json:"path"`
	Distance       float64  `json:"distance"`
	Duration       float64  `json:"duration"`
	CongestionCost float64  `json:"congestion"`
	Score          float64  `json:"score"`
	Weight         float64  `json:"weight"`
	Rank           int      `json:"rank"`
	Label          string   `json:"label,omitempty"`
}

// Result is the outcome of one planning computation.
type Result struct {
	Recommended    ScoredPath    `json:"recommended"`
	Alternatives   []ScoredPath  `json:"all_paths"`
	ProcessingTime time.Duration `json:"processing_time"`
	Message        string        `json:"message"`
}
