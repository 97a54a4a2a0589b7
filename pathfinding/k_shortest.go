package pathfinding

import (
	"container/heap"
	"strings"

	"routing/graph"
)

// Candidate is one loop-free route emitted by the K-shortest generator,
// ranked by generation order.
type Candidate struct {
	Nodes []string
	Cost  float64
	Rank  int
}

type candidateHeap []Candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].Cost < h[j].Cost }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(Candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

func pathKey(nodes []string) string {
	return strings.Join(nodes, ">")
}

// KShortest emits up to k loop-free paths between start and end in
// increasing cost order, following Yen's deviation scheme: for every node
// along an already-accepted path the continuing edges are blocked, the
// remainder is re-searched from that spur node and the retained prefix is
// spliced back on. Fewer than k paths simply means the network does not
// hold k simple routes between the pair; that is not an error.
func KShortest(snap *graph.Snapshot, start, end string, k int, cost CostFunc) ([]Candidate, error) {
	if k <= 0 {
		return nil, nil
	}

	basePath, baseCost, err := ShortestPath(snap, start, end, cost, Forbidden{})
	if err != nil {
		return nil, err
	}

	accepted := []Candidate{{Nodes: basePath, Cost: baseCost, Rank: 1}}
	seen := map[string]struct{}{pathKey(basePath): {}}
	pool := candidateHeap{}
	heap.Init(&pool)

	for len(accepted) < k {
		prev := accepted[len(accepted)-1].Nodes

		for i := 0; i < len(prev)-1; i++ {
			spurNode := prev[i]
			rootPath := prev[:i+1]

			forbidden := Forbidden{
				Nodes: make(map[string]struct{}),
				Edges: make(map[[2]string]struct{}),
			}
			// Block the edges that continue any accepted path sharing this
			// root, forcing the spur search onto a new deviation.
			for _, c := range accepted {
				if len(c.Nodes) > i+1 && sliceEqual(c.Nodes[:i+1], rootPath) {
					forbidden.Edges[[2]string{c.Nodes[i], c.Nodes[i+1]}] = struct{}{}
				}
			}
			// Root nodes other than the spur node are off limits, keeping
			// every spliced path loop-free.
			for _, n := range rootPath[:len(rootPath)-1] {
				forbidden.Nodes[n] = struct{}{}
			}

			spurPath, _, err := ShortestPath(snap, spurNode, end, cost, forbidden)
			if err != nil {
				continue
			}

			total := make([]string, 0, len(rootPath)-1+len(spurPath))
			total = append(total, rootPath[:len(rootPath)-1]...)
			total = append(total, spurPath...)

			key := pathKey(total)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			heap.Push(&pool, Candidate{Nodes: total, Cost: pathCost(snap, total, cost)})
		}

		if pool.Len() == 0 {
			break
		}
		next := heap.Pop(&pool).(Candidate)
		next.Rank = len(accepted) + 1
		accepted = append(accepted, next)
	}

	return accepted, nil
}

func pathCost(snap *graph.Snapshot, nodes []string, cost CostFunc) float64 {
	var total float64
	for i := 0; i < len(nodes)-1; i++ {
		if road, ok := snap.Edge(nodes[i], nodes[i+1]); ok {
			total += cost(road)
		}
	}
	return total
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
