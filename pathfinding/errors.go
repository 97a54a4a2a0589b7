package pathfinding

import "errors"

// ErrNoPathFound is returned when start and end are not connected under the
// current forbidden sets.
var ErrNoPathFound = errors.New("no path found")
