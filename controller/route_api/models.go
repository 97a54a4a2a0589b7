package route_api

import (
	"time"

	"routing/executor"
	"routing/graph"
	"routing/planner"
)

// PathRequest is the planning request body shared by the sync and async
// endpoints.
type PathRequest struct {
	VehicleID   string `json:"vehicle_id"`
	VehicleType string `json:"vehicle_type"`
	StartNode   string `json:"start_node" binding:"required"`
	EndNode     string `json:"end_node" binding:"required"`
}

func (r PathRequest) toPlanner() planner.Request {
	vt := r.VehicleType
	if vt == "" {
		vt = planner.VehicleNormal
	}
	return planner.Request{
		VehicleID:   r.VehicleID,
		VehicleType: vt,
		StartNode:   r.StartNode,
		EndNode:     r.EndNode,
	}
}

// PathResponse is the sync planning response.
type PathResponse struct {
	Path           []string             `json:"path"`
	Weight         float64              `json:"weight"`
	Distance       float64              `json:"distance"`
	Duration       float64              `json:"duration"`
	Congestion     float64              `json:"congestion"`
	ProcessingTime float64              `json:"processing_time"`
	Message        string               `json:"message"`
	AllPaths       []planner.ScoredPath `json:"all_paths"`
}

func pathResponse(result *planner.Result) PathResponse {
	return PathResponse{
		Path:           result.Recommended.Path,
		Weight:         result.Recommended.Weight,
		Distance:       result.Recommended.Distance,
		Duration:       result.Recommended.Duration,
		Congestion:     result.Recommended.CongestionCost,
		ProcessingTime: result.ProcessingTime.Seconds(),
		Message:        result.Message,
		AllPaths:       result.Alternatives,
	}
}

// TaskSubmitResponse acknowledges an async submission.
type TaskSubmitResponse struct {
	TaskID  string          `json:"task_id"`
	Status  executor.Status `json:"status"`
	Message string          `json:"message"`
}

// TaskStatusResponse is the poll response.
type TaskStatusResponse struct {
	TaskID      string          `json:"task_id"`
	Status      executor.Status `json:"status"`
	Result      *PathResponse   `json:"result"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at"`
}

// NodesResponse lists the topology nodes.
type NodesResponse struct {
	Nodes []string `json:"nodes"`
	Count int      `json:"count"`
}

// RoadsResponse lists the roads with their live congestion state.
type RoadsResponse struct {
	Roads []graph.RoadView `json:"roads"`
}

// StatsResponse aggregates the pool, network and host picture.
type StatsResponse struct {
	ThreadPool executor.Stats `json:"thread_pool_stats"`
	Network    graph.Summary  `json:"network_stats"`
	Host       HostStats      `json:"host_stats"`
}

// HostStats is the gopsutil-sourced host state.
type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
}
