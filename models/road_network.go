package models

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"routing/graph"
)

// RoadRecord is one row of the road_network table.
type RoadRecord struct {
	RoadID    string
	StartNode string
	EndNode   string
	Length    float64 // km
	Capacity  float64
	MaxSpeed  float64 // km/h
}

// QueryRoadNetwork loads every road row from the topology table.
func QueryRoadNetwork(db *sql.DB) ([]RoadRecord, error) {
	rows, err := db.Query("SELECT road_id, start_node, end_node, length, capacity, max_speed FROM road_network")
	if err != nil {
		return nil, fmt.Errorf("query road_network: %w", err)
	}
	defer rows.Close()

	var records []RoadRecord
	for rows.Next() {
		var r RoadRecord
		if err := rows.Scan(&r.RoadID, &r.StartNode, &r.EndNode, &r.Length, &r.Capacity, &r.MaxSpeed); err != nil {
			return nil, fmt.Errorf("scan road_network row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadGraph builds a graph store from the road_network table. Rows that
// fail validation are logged and skipped so one bad row cannot take the
// topology down.
func LoadGraph(db *sql.DB) (*graph.Store, error) {
	records, err := QueryRoadNetwork(db)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("road_network table is empty")
	}

	store := graph.NewStore()
	loaded := 0
	for _, r := range records {
		if err := store.AddRoad(r.RoadID, r.StartNode, r.EndNode, r.Length, r.Capacity, r.MaxSpeed); err != nil {
			log.Warnf("skipping road row: %v", err)
			continue
		}
		loaded++
	}
	log.Infof("loaded %d of %d roads from road_network", loaded, len(records))
	return store, nil
}
