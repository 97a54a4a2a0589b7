package pathfinding

import (
	"container/heap"

	"routing/graph"
)

// CostFunc maps a road to a non-negative edge cost.
type CostFunc func(graph.RoadView) float64

// DistanceCost is the static base-distance cost.
func DistanceCost(v graph.RoadView) float64 {
	return v.BaseDistance
}

// CongestionCost folds the live load factor into the distance, so searches
// naturally drift away from saturated roads.
func CongestionCost(v graph.RoadView) float64 {
	return v.BaseDistance * (1.0 + v.LoadFactor)
}

// Forbidden carries the node and edge exclusions for one search. The zero
// value forbids nothing.
type Forbidden struct {
	Nodes map[string]struct{}
	Edges map[[2]string]struct{}
}

func (f Forbidden) node(id string) bool {
	if f.Nodes == nil {
		return false
	}
	_, ok := f.Nodes[id]
	return ok
}

func (f Forbidden) edge(from, to string) bool {
	if f.Edges == nil {
		return false
	}
	_, ok := f.Edges[[2]string{from, to}]
	return ok
}

type pqItem struct {
	node string
	dist float64
	idx  int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].dist < pq[j].dist }

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].idx = i
	pq[j].idx = j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.idx = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ShortestPath runs a single-source single-target Dijkstra search over the
// snapshot with the supplied cost function, skipping forbidden nodes and
// edges. The snapshot is never mutated, so repeated invocations with
// different exclusions are safe and cheap.
func ShortestPath(snap *graph.Snapshot, start, end string, cost CostFunc, forbidden Forbidden) ([]string, float64, error) {
	if !snap.HasNode(start) || !snap.HasNode(end) {
		return nil, 0, ErrNoPathFound
	}
	if start == end {
		return []string{start}, 0, nil
	}

	dist := map[string]float64{start: 0}
	prev := map[string]string{}
	visited := map[string]struct{}{}

	pq := priorityQueue{{node: start, dist: 0}}
	heap.Init(&pq)

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		if _, done := visited[current.node]; done {
			continue
		}
		visited[current.node] = struct{}{}
		if current.node == end {
			break
		}

		for _, road := range snap.Outgoing[current.node] {
			if forbidden.node(road.To) || forbidden.edge(road.From, road.To) {
				continue
			}
			if _, done := visited[road.To]; done {
				continue
			}
			next := current.dist + cost(road)
			if old, seen := dist[road.To]; !seen || next < old {
				dist[road.To] = next
				prev[road.To] = current.node
				heap.Push(&pq, &pqItem{node: road.To, dist: next})
			}
		}
	}

	total, reached := dist[end]
	if _, done := visited[end]; !done || !reached {
		return nil, 0, ErrNoPathFound
	}

	// Rebuild the path from the predecessor chain.
	var path []string
	for at := end; ; at = prev[at] {
		path = append(path, at)
		if at == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, total, nil
}
