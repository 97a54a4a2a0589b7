package graph

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SeedNetwork builds the default 26-intersection grid used when no topology
// database is configured. Nodes A-Z are laid out in rows of five with
// horizontal and vertical city roads, diagonal expressways and two ring
// routes, so there are always several alternative paths between any pair.
func SeedNetwork() *Store {
	s := NewStore()

	nodes := make([]string, 26)
	for i := range nodes {
		nodes[i] = string(rune('A' + i))
	}

	roadID := 0
	add := func(from, to string, distance, capacity, maxSpeed float64) {
		roadID++
		if err := s.AddRoad(fmt.Sprintf("R%d", roadID), from, to, distance, capacity, maxSpeed); err != nil {
			log.Warnf("seed network: %v", err)
		}
	}

	// Horizontal city roads, five nodes per row.
	for i := 0; i < 25; i++ {
		if (i+1)%5 != 0 {
			add(nodes[i], nodes[i+1], 1.0, 100, 60)
		}
	}
	// Vertical arterials between rows.
	for i := 0; i < 20; i++ {
		add(nodes[i], nodes[i+5], 1.2, 120, 80)
	}
	// Diagonal expressways.
	for i := 0; i < 20; i++ {
		add(nodes[i], nodes[i+6], 1.7, 150, 100)
	}
	for i := 0; i < 19; i++ {
		add(nodes[i], nodes[i+7], 1.7, 150, 100)
	}
	// Ring routes.
	// Clockwise outer ring (the down legs reuse the vertical arterials)
	// plus a counter-clockwise inner ring.
	ring := [][2]int{
		{0, 4}, {24, 20}, {20, 15}, {15, 10}, {10, 5}, {5, 0},
		{1, 5}, {20, 25},
		{25, 21}, {21, 16}, {16, 11}, {11, 6}, {6, 1},
	}
	for _, r := range ring {
		add(nodes[r[0]], nodes[r[1]], 2.0, 200, 120)
	}
	// Long cross-town links.
	add("A", "Z", 30.0, 200, 120)
	add("B", "Y", 28.0, 200, 120)
	add("C", "X", 26.0, 200, 120)
	add("D", "W", 24.0, 200, 120)
	add("E", "V", 22.0, 200, 120)

	return s
}
