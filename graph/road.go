package graph

import (
	"sync"
	"time"
)

// CongestionLevel is the ordinal congestion class derived from a road's
// load factor.
type CongestionLevel string

const (
	LevelFree   CongestionLevel = "free"
	LevelLight  CongestionLevel = "light"
	LevelMedium CongestionLevel = "medium"
	LevelHeavy  CongestionLevel = "heavy"
)

// Load factor thresholds for the ordinal levels.
const (
	lightThreshold  = 0.35
	mediumThreshold = 0.7
	heavyThreshold  = 1.0
)

// LevelFromLoadFactor maps flow/capacity to an ordinal congestion level.
func LevelFromLoadFactor(lf float64) CongestionLevel {
	switch {
	case lf < lightThreshold:
		return LevelFree
	case lf < mediumThreshold:
		return LevelLight
	case lf < heavyThreshold:
		return LevelMedium
	default:
		return LevelHeavy
	}
}

// Road is a directed edge of the live network. Topology fields (ID, From,
// To, BaseDistance, Capacity, MaxSpeed) are immutable after AddRoad; the
// congestion fields are guarded by mu so that updates to the same road are
// mutually exclusive while unrelated roads stay independent.
type Road struct {
	ID           string
	From         string
	To           string
	BaseDistance float64 // km
	Capacity     float64 // vehicles the road absorbs before saturating
	MaxSpeed     float64 // km/h

	mu         sync.RWMutex
	flow       float64
	avgSpeed   float64
	loadFactor float64
	level      CongestionLevel
	updatedAt  time.Time
}

// RoadView is an immutable copy of a road's state, taken under its lock.
// Planning computations only ever see RoadViews.
type RoadView struct {
	ID           string          `json:"road_id"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	BaseDistance float64         `json:"weight"`
	Capacity     float64         `json:"capacity"`
	MaxSpeed     float64         `json:"max_speed"`
	Flow         float64         `json:"flow"`
	AvgSpeed     float64         `json:"average_speed"`
	LoadFactor   float64         `json:"load_factor"`
	Level        CongestionLevel `json:"congestion_level"`
}

func (r *Road) view() RoadView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RoadView{
		ID:           r.ID,
		From:         r.From,
		To:           r.To,
		BaseDistance: r.BaseDistance,
		Capacity:     r.Capacity,
		MaxSpeed:     r.MaxSpeed,
		Flow:         r.flow,
		AvgSpeed:     r.avgSpeed,
		LoadFactor:   r.loadFactor,
		Level:        r.level,
	}
}

// applyUpdate overwrites the congestion state of the road. level may be
// empty, in which case it is derived from the new load factor.
func (r *Road) applyUpdate(vehicleCount, avgSpeed float64, level CongestionLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vehicleCount < 0 {
		vehicleCount = 0
	}
	r.flow = vehicleCount
	r.avgSpeed = avgSpeed
	r.loadFactor = r.flow / r.Capacity
	if level == "" {
		r.level = LevelFromLoadFactor(r.loadFactor)
	} else {
		r.level = level
	}
	r.updatedAt = time.Now()
}

// TravelSeconds estimates the traversal time of the road under its current
// congestion: free-flow time stretched by the load factor.
func (v RoadView) TravelSeconds() float64 {
	speed := v.MaxSpeed
	if speed <= 0 {
		speed = 60.0
	}
	base := v.BaseDistance / speed * 3600.0
	return base * (1.0 + v.LoadFactor)
}
