package control

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/petriflow/petrisim"
)

// WatchRegistry is the set of place ids whose token-count changes are
// reported after each firing. Pure predicate evaluation; it never touches
// marking or history.
type WatchRegistry struct {
	mu     sync.Mutex
	places map[string]struct{}
}

func NewWatchRegistry(ids ...string) *WatchRegistry {
	r := &WatchRegistry{places: make(map[string]struct{})}
	for _, id := range ids {
		r.places[id] = struct{}{}
	}
	return r
}

func (r *WatchRegistry) Add(placeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.places[placeID] = struct{}{}
}

func (r *WatchRegistry) Remove(placeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.places, placeID)
}

func (r *WatchRegistry) Has(placeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.places[placeID]
	return ok
}

func (r *WatchRegistry) snapshot() map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[string]struct{}, len(r.places))
	for id := range r.places {
		ids[id] = struct{}{}
	}
	return ids
}

type breakpoint struct {
	condition *vm.Program
	source    string
}

// BreakpointRegistry is the set of transition ids that pause the run
// immediately before they would fire. A breakpoint may carry a condition:
// an expr expression over {tokens, step} that must evaluate true for the
// breakpoint to hit. An unconditional breakpoint always hits.
type BreakpointRegistry struct {
	mu     sync.Mutex
	points map[string]*breakpoint
}

func NewBreakpointRegistry(ids ...string) *BreakpointRegistry {
	r := &BreakpointRegistry{points: make(map[string]*breakpoint)}
	for _, id := range ids {
		r.points[id] = &breakpoint{}
	}
	return r
}

func (r *BreakpointRegistry) Add(transitionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[transitionID] = &breakpoint{}
}

// AddConditional compiles condition and registers it for the transition.
// The expression sees tokens (place name to count) and step (the number
// the pending firing would get).
func (r *BreakpointRegistry) AddConditional(transitionID, condition string) error {
	program, err := expr.Compile(condition, expr.AsBool())
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[transitionID] = &breakpoint{condition: program, source: condition}
	return nil
}

func (r *BreakpointRegistry) Remove(transitionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.points, transitionID)
}

func (r *BreakpointRegistry) Has(transitionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.points[transitionID]
	return ok
}

// Hits reports whether firing the transition should pause the run. A
// condition evaluation error counts as a hit so a broken expression fails
// loud rather than letting the firing slip through.
func (r *BreakpointRegistry) Hits(n *petrisim.Net, m petrisim.Marking, transitionID string, step int) (bool, error) {
	r.mu.Lock()
	bp, ok := r.points[transitionID]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	if bp.condition == nil {
		return true, nil
	}
	tokens := make(map[string]interface{}, len(n.Places))
	for _, p := range n.Places {
		tokens[p.Name] = m.Tokens(p.ID)
	}
	out, err := expr.Run(bp.condition, map[string]interface{}{
		"tokens": tokens,
		"step":   step,
	})
	if err != nil {
		return true, err
	}
	return out.(bool), nil
}
