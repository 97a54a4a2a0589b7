package graph

// Snapshot is a value-typed copy of the network used by one planning
// computation. It is never mutated after creation and is safe to share
// between goroutines.
type Snapshot struct {
	Nodes    map[string]struct{}
	Outgoing map[string][]RoadView
	Edges    map[[2]string]RoadView
}

// HasNode reports whether the node exists in the snapshot.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.Nodes[id]
	return ok
}

// Edge returns the road view for from -> to.
func (s *Snapshot) Edge(from, to string) (RoadView, bool) {
	v, ok := s.Edges[[2]string{from, to}]
	return v, ok
}
