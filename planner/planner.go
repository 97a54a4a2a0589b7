package planner

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"routing/config"
	"routing/graph"
	"routing/pathfinding"
)

// Planner runs the full congestion-aware pipeline against snapshots of a
// graph store: K-shortest generation, composite scoring and selection.
type Planner struct {
	store            *graph.Store
	picker           Picker
	truckMinCapacity float64
}

// Option mutates a Planner at construction.
type Option func(*Planner)

// WithPicker swaps the selection strategy.
func WithPicker(p Picker) Option {
	return func(pl *Planner) { pl.picker = p }
}

// WithTruckMinCapacity sets the smallest road capacity trucks may use.
func WithTruckMinCapacity(c float64) Option {
	return func(pl *Planner) { pl.truckMinCapacity = c }
}

// New returns a planner bound to the store.
func New(store *graph.Store, opts ...Option) *Planner {
	p := &Planner{
		store:            store,
		picker:           ArgmaxPicker{},
		truckMinCapacity: 20,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Validate rejects malformed requests before they occupy a worker.
func (p *Planner) Validate(req Request) error {
	if req.StartNode == "" {
		return &ValidationError{Field: "start_node", Reason: "required"}
	}
	if req.EndNode == "" {
		return &ValidationError{Field: "end_node", Reason: "required"}
	}
	if req.StartNode == req.EndNode {
		return &ValidationError{Field: "end_node", Reason: "start and end must differ"}
	}
	switch req.VehicleType {
	case "", VehicleNormal, VehicleEmergency, VehicleTruck:
	default:
		return &ValidationError{Field: "vehicle_type", Reason: fmt.Sprintf("unknown type %q", req.VehicleType)}
	}
	if !p.store.HasNode(req.StartNode) {
		return &ValidationError{Field: "start_node", Reason: fmt.Sprintf("node %q not found", req.StartNode)}
	}
	if !p.store.HasNode(req.EndNode) {
		return &ValidationError{Field: "end_node", Reason: fmt.Sprintf("node %q not found", req.EndNode)}
	}
	return nil
}

// Plan computes the recommended path and its alternatives for one request.
// The computation runs against one snapshot; congestion updates landing
// meanwhile are picked up by later plans.
func (p *Planner) Plan(req Request) (*Result, error) {
	started := time.Now()

	if err := p.Validate(req); err != nil {
		return nil, err
	}

	snap := p.store.Snapshot()

	// Emergency vehicles skip the alternative pipeline: one congestion-blind
	// shortest path, no trade-off analysis.
	if req.VehicleType == VehicleEmergency {
		return p.planEmergency(snap, req, started)
	}

	cost := pathfinding.CostFunc(pathfinding.CongestionCost)
	if req.VehicleType == VehicleTruck {
		cost = p.truckCost
	}

	candidates, err := pathfinding.KShortest(snap, req.StartNode, req.EndNode, config.KShortestPaths, cost)
	if err != nil {
		return nil, err
	}
	if req.VehicleType == VehicleTruck {
		candidates = dropRestricted(candidates)
		if len(candidates) == 0 {
			return nil, ErrNoPathFound
		}
	}

	scored := Score(snap, candidates)
	recommended := selectAndLabel(scored, p.picker)

	result := &Result{
		Recommended:    scored[recommended],
		Alternatives:   scored,
		ProcessingTime: time.Since(started),
		Message:        fmt.Sprintf("planned %d candidate paths", len(scored)),
	}
	log.Debugf("plan %s->%s: %d candidates, recommended %v",
		req.StartNode, req.EndNode, len(scored), result.Recommended.Path)
	return result, nil
}

func (p *Planner) planEmergency(snap *graph.Snapshot, req Request, started time.Time) (*Result, error) {
	nodes, _, err := pathfinding.ShortestPath(snap, req.StartNode, req.EndNode, pathfinding.DistanceCost, pathfinding.Forbidden{})
	if err != nil {
		return nil, err
	}
	scored := Score(snap, []pathfinding.Candidate{{Nodes: nodes, Rank: 1}})
	scored[0].Label = LabelRecommended
	return &Result{
		Recommended:    scored[0],
		Alternatives:   scored,
		ProcessingTime: time.Since(started),
		Message:        "emergency vehicle shortest path",
	}, nil
}

// restrictedCost prices a road out of every search that must avoid it.
const restrictedCost = 1e9

// truckCost keeps trucks off low-capacity roads by pricing them out of the
// search entirely.
func (p *Planner) truckCost(v graph.RoadView) float64 {
	if v.Capacity < p.truckMinCapacity {
		return restrictedCost
	}
	return pathfinding.CongestionCost(v)
}

// dropRestricted removes candidates whose search cost betrays a priced-out
// road, re-ranking the survivors.
func dropRestricted(candidates []pathfinding.Candidate) []pathfinding.Candidate {
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Cost >= restrictedCost {
			continue
		}
		c.Rank = len(kept) + 1
		kept = append(kept, c)
	}
	return kept
}
