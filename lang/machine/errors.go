package machine

import "fmt"

// CallDepthError is raised when a Thread's MaxCallDepth safety net trips: a
// Lua call nested deeper than the configured limit, most often runaway
// non-tail recursion.
type CallDepthError struct {
	Depth int
}

func (e *CallDepthError) Error() string {
	return fmt.Sprintf("call depth exceeded: %d", e.Depth)
}
