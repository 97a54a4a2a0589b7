package planner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routing/graph"
)

// triangle: a two-hop corridor A-B-C plus a direct detour A-C.
func triangle(t *testing.T, corridorCapacity float64) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	require.NoError(t, s.AddRoad("R1", "A", "B", 1.0, corridorCapacity, 60))
	require.NoError(t, s.AddRoad("R2", "B", "C", 1.0, corridorCapacity, 60))
	require.NoError(t, s.AddRoad("R3", "A", "C", 2.2, 100, 60))
	return s
}

func TestValidate(t *testing.T) {
	p := New(triangle(t, 100))

	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{name: "missing start", req: Request{EndNode: "C"}, field: "start_node"},
		{name: "missing end", req: Request{StartNode: "A"}, field: "end_node"},
		{name: "same node", req: Request{StartNode: "A", EndNode: "A"}, field: "end_node"},
		{name: "unknown vehicle", req: Request{StartNode: "A", EndNode: "C", VehicleType: "bicycle"}, field: "vehicle_type"},
		{name: "unknown start node", req: Request{StartNode: "X", EndNode: "C"}, field: "start_node"},
		{name: "unknown end node", req: Request{StartNode: "A", EndNode: "X"}, field: "end_node"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Validate(tc.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	assert.NoError(t, p.Validate(Request{StartNode: "A", EndNode: "C"}))
	assert.NoError(t, p.Validate(Request{StartNode: "A", EndNode: "C", VehicleType: VehicleEmergency}))
}

func TestPlanPrefersFreeCorridor(t *testing.T) {
	p := New(triangle(t, 100))

	res, err := p.Plan(Request{StartNode: "A", EndNode: "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Recommended.Path)
	assert.Len(t, res.Alternatives, 2)
}

func TestPlanRoutesAroundCongestion(t *testing.T) {
	s := triangle(t, 100)
	p := New(s)

	// Saturate the corridor; the detour becomes the recommendation even
	// though it is longer.
	require.NoError(t, s.ApplyCongestionUpdate("R1", 120, 12, ""))
	require.NoError(t, s.ApplyCongestionUpdate("R2", 120, 12, ""))

	res, err := p.Plan(Request{StartNode: "A", EndNode: "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, res.Recommended.Path)
	assert.Equal(t, LabelRecommended, res.Recommended.Label)
}

func TestPlanRecommendsLongerClearRoute(t *testing.T) {
	// The direct road is shorter but jammed; the clear two-hop route wins
	// because congestion dominates distance in the composite cost.
	s := graph.NewStore()
	require.NoError(t, s.AddRoad("R1", "A", "B", 1.0, 100, 60))
	require.NoError(t, s.AddRoad("R2", "B", "C", 1.0, 100, 60))
	require.NoError(t, s.AddRoad("R3", "A", "C", 1.6, 100, 60))
	require.NoError(t, s.ApplyCongestionUpdate("R3", 150, 8, ""))
	p := New(s)

	res, err := p.Plan(Request{StartNode: "A", EndNode: "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Recommended.Path)

	var direct ScoredPath
	for _, alt := range res.Alternatives {
		if len(alt.Path) == 2 {
			direct = alt
		}
	}
	assert.Greater(t, res.Recommended.Distance, direct.Distance)
}

func TestPlanDeterministic(t *testing.T) {
	s := triangle(t, 100)
	require.NoError(t, s.ApplyCongestionUpdate("R1", 60, 30, ""))
	p := New(s)

	first, err := p.Plan(Request{StartNode: "A", EndNode: "C"})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		res, err := p.Plan(Request{StartNode: "A", EndNode: "C"})
		require.NoError(t, err)
		assert.Equal(t, first.Recommended.Path, res.Recommended.Path)
	}
}

func TestPlanWeightsSumToOne(t *testing.T) {
	p := New(triangle(t, 100))

	res, err := p.Plan(Request{StartNode: "A", EndNode: "C"})
	require.NoError(t, err)

	var sum float64
	for _, alt := range res.Alternatives {
		sum += alt.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPlanLabels(t *testing.T) {
	s := triangle(t, 100)
	require.NoError(t, s.ApplyCongestionUpdate("R1", 120, 12, ""))
	require.NoError(t, s.ApplyCongestionUpdate("R2", 120, 12, ""))
	p := New(s)

	res, err := p.Plan(Request{StartNode: "A", EndNode: "C"})
	require.NoError(t, err)

	labels := map[string][]string{}
	for _, alt := range res.Alternatives {
		if alt.Label != "" {
			labels[alt.Label] = alt.Path
		}
	}
	// The congested corridor is still the shortest by distance; the clear
	// detour takes every other label.
	assert.Equal(t, []string{"A", "B", "C"}, labels[LabelShortestDistance])
	assert.Equal(t, []string{"A", "C"}, labels[LabelRecommended])
}

func TestPlanEmergencyIgnoresCongestion(t *testing.T) {
	s := triangle(t, 100)
	require.NoError(t, s.ApplyCongestionUpdate("R1", 150, 8, ""))
	require.NoError(t, s.ApplyCongestionUpdate("R2", 150, 8, ""))
	p := New(s)

	res, err := p.Plan(Request{StartNode: "A", EndNode: "C", VehicleType: VehicleEmergency})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Recommended.Path)
	assert.Equal(t, LabelRecommended, res.Recommended.Label)
	assert.Len(t, res.Alternatives, 1)
}

func TestPlanTruckAvoidsLowCapacityRoads(t *testing.T) {
	p := New(triangle(t, 10))

	res, err := p.Plan(Request{StartNode: "A", EndNode: "C", VehicleType: VehicleTruck})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, res.Recommended.Path)
	for _, alt := range res.Alternatives {
		assert.NotContains(t, alt.Path, "B")
	}

	// A normal vehicle still uses the corridor.
	res, err = p.Plan(Request{StartNode: "A", EndNode: "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Recommended.Path)
}

func TestPlanTruckNoEligibleRoute(t *testing.T) {
	s := graph.NewStore()
	require.NoError(t, s.AddRoad("R1", "A", "B", 1.0, 5, 60))
	p := New(s)

	_, err := p.Plan(Request{StartNode: "A", EndNode: "B", VehicleType: VehicleTruck})
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestPlanNoPath(t *testing.T) {
	s := graph.NewStore()
	require.NoError(t, s.AddRoad("R1", "A", "B", 1.0, 100, 60))
	require.NoError(t, s.AddRoad("R2", "C", "D", 1.0, 100, 60))
	p := New(s)

	_, err := p.Plan(Request{StartNode: "A", EndNode: "D"})
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestRandomPickerFollowsWeights(t *testing.T) {
	scored := []ScoredPath{
		{Path: []string{"A", "C"}, Weight: 0.9},
		{Path: []string{"A", "B", "C"}, Weight: 0.1},
	}

	picker := RandomPicker{Rand: rand.New(rand.NewSource(1))}
	counts := map[int]int{}
	for i := 0; i < 1000; i++ {
		counts[picker.Pick(scored)]++
	}
	assert.Greater(t, counts[0], counts[1])
}

func TestArgmaxPicker(t *testing.T) {
	scored := []ScoredPath{
		{Weight: 0.2},
		{Weight: 0.5},
		{Weight: 0.3},
	}
	assert.Equal(t, 1, ArgmaxPicker{}.Pick(scored))
}
