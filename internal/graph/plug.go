package graph

import "fmt"

// Plug wires sink to read its value from src on every subsequent
// recomputation. Both signals must be of the same kind. A plug that would
// make the graph cyclic is rejected.
func Plug(src, sink Signal) error {
	if src == sink {
		return fmt.Errorf("%w: %s", ErrSelfPlug, src.Name())
	}
	if reaches(src, sink, make(map[Signal]bool)) {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, src.Name(), sink.Name())
	}
	if err := sink.setSource(src); err != nil {
		return fmt.Errorf("plug %s -> %s: %w", src.Name(), sink.Name(), err)
	}
	return nil
}

// reaches reports whether target is in the transitive dependency closure of
// from, following both compute deps and plug edges. Depth-first with a
// visited set, same as classic cycle detection.
func reaches(from, target Signal, visited map[Signal]bool) bool {
	if from == target {
		return true
	}
	if visited[from] {
		return false
	}
	visited[from] = true
	for _, d := range from.dependencies() {
		if reaches(d, target, visited) {
			return true
		}
	}
	if src := from.pluggedSource(); src != nil {
		return reaches(src, target, visited)
	}
	return false
}
