package graph

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store owns the road network: the node set, the roads keyed by id and the
// adjacency index. Topology is fixed once loaded; only per-road congestion
// state mutates afterwards, so the topology lock is almost always taken
// shared.
type Store struct {
	mu       sync.RWMutex
	nodes    map[string]struct{}
	roads    map[string]*Road       // road id -> road
	outgoing map[string][]*Road     // from node -> roads
	pairs    map[[2]string]struct{} // (from,to) uniqueness
}

// NewStore returns an empty road network.
func NewStore() *Store {
	return &Store{
		nodes:    make(map[string]struct{}),
		roads:    make(map[string]*Road),
		outgoing: make(map[string][]*Road),
		pairs:    make(map[[2]string]struct{}),
	}
}

// AddRoad registers a directed road. Self loops, duplicate (from,to) pairs,
// non-positive distances and non-positive capacities are rejected.
func (s *Store) AddRoad(id, from, to string, distance, capacity, maxSpeed float64) error {
	if id == "" || from == "" || to == "" {
		return fmt.Errorf("road %q: id, from and to are required", id)
	}
	if from == to {
		return fmt.Errorf("road %q: self loop %s -> %s", id, from, to)
	}
	if distance <= 0 {
		return fmt.Errorf("road %q: base distance must be positive, got %v", id, distance)
	}
	if capacity <= 0 {
		return fmt.Errorf("road %q: capacity must be positive, got %v", id, capacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roads[id]; exists {
		return fmt.Errorf("road %q already registered", id)
	}
	pair := [2]string{from, to}
	if _, exists := s.pairs[pair]; exists {
		return fmt.Errorf("road %q: duplicate edge %s -> %s", id, from, to)
	}

	road := &Road{
		ID:           id,
		From:         from,
		To:           to,
		BaseDistance: distance,
		Capacity:     capacity,
		MaxSpeed:     maxSpeed,
		level:        LevelFree,
	}
	s.nodes[from] = struct{}{}
	s.nodes[to] = struct{}{}
	s.roads[id] = road
	s.outgoing[from] = append(s.outgoing[from], road)
	s.pairs[pair] = struct{}{}
	return nil
}

// HasNode reports whether the node id exists in the topology.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns the sorted node ids.
func (s *Store) Nodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes := make([]string, 0, len(s.nodes))
	for n := range s.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Roads returns a view of every road in the network.
func (s *Store) Roads() []RoadView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := make([]RoadView, 0, len(s.roads))
	for _, r := range s.roads {
		views = append(views, r.view())
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// ApplyCongestionUpdate overwrites a road's flow and derived fields
// atomically. Returns an error for unknown road ids.
func (s *Store) ApplyCongestionUpdate(roadID string, vehicleCount, avgSpeed float64, level CongestionLevel) error {
	s.mu.RLock()
	road, ok := s.roads[roadID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("road %q not found", roadID)
	}
	road.applyUpdate(vehicleCount, avgSpeed, level)
	log.Debugf("road %s updated: flow=%.0f speed=%.1f", roadID, vehicleCount, avgSpeed)
	return nil
}

// Snapshot captures an internally consistent copy of the network for one
// planning computation. Each road is copied under its own lock; concurrent
// updates to other roads do not block the snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Nodes:    make(map[string]struct{}, len(s.nodes)),
		Outgoing: make(map[string][]RoadView, len(s.outgoing)),
		Edges:    make(map[[2]string]RoadView, len(s.roads)),
	}
	for n := range s.nodes {
		snap.Nodes[n] = struct{}{}
	}
	for from, roads := range s.outgoing {
		views := make([]RoadView, 0, len(roads))
		for _, r := range roads {
			v := r.view()
			views = append(views, v)
			snap.Edges[[2]string{v.From, v.To}] = v
		}
		snap.Outgoing[from] = views
	}
	return snap
}

// Summary aggregates the current network state for the stats surface.
type Summary struct {
	TotalNodes        int     `json:"total_nodes"`
	TotalRoads        int     `json:"total_roads"`
	TotalCapacity     float64 `json:"total_capacity"`
	TotalFlow         float64 `json:"total_flow"`
	AverageLoadFactor float64 `json:"average_load_factor"`
	CongestedRoads    int     `json:"congested_roads"`
}

// Summarize computes the aggregate congestion picture of the network.
func (s *Store) Summarize() Summary {
	views := s.Roads()

	sum := Summary{TotalRoads: len(views)}
	s.mu.RLock()
	sum.TotalNodes = len(s.nodes)
	s.mu.RUnlock()

	var lfTotal float64
	for _, v := range views {
		sum.TotalCapacity += v.Capacity
		sum.TotalFlow += v.Flow
		lfTotal += v.LoadFactor
		if v.Level == LevelMedium || v.Level == LevelHeavy {
			sum.CongestedRoads++
		}
	}
	if len(views) > 0 {
		sum.AverageLoadFactor = lfTotal / float64(len(views))
	}
	return sum
}
