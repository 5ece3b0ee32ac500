// Package firing implements the formal execution semantics of a net: the
// enabled-set rule and the firing rule. Both are pure; markings passed in
// are never mutated.
package firing

import "github.com/petriflow/petrisim"

// Enabled reports whether t may fire under m: every input arc (p -> t)
// must find at least its weight in tokens at p.
func Enabled(n *petrisim.Net, m petrisim.Marking, t *petrisim.Transition) bool {
	for _, arc := range n.Inputs(t) {
		p, ok := arc.Src.(*petrisim.Place)
		if !ok {
			return false
		}
		if m.Tokens(p.ID) < arc.Weight {
			return false
		}
	}
	return true
}

// EnabledSet returns the enabled transitions in declaration order. The
// ordering is stable, which is what deterministic tie-breaking rests on.
func EnabledSet(n *petrisim.Net, m petrisim.Marking) []*petrisim.Transition {
	enabled := make([]*petrisim.Transition, 0, len(n.Transitions))
	for _, t := range n.Transitions {
		if Enabled(n, m, t) {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

// Fire applies the firing rule: subtract each input arc's weight from its
// source place, add each output arc's weight to its target place. The
// input marking is left untouched; the successor marking and the movement
// record are returned. Firing a transition that is not enabled is a
// *petrisim.PreconditionError, never silently tolerated.
func Fire(n *petrisim.Net, m petrisim.Marking, transitionID string) (petrisim.Marking, *Event, error) {
	t := n.Transition(transitionID)
	if t == nil || !Enabled(n, m, t) {
		return nil, nil, &petrisim.PreconditionError{TransitionID: transitionID, Marking: m.Copy()}
	}
	next := m.Copy()
	ev := &Event{
		TransitionID: transitionID,
		Before:       m.Copy(),
	}
	for _, arc := range n.Inputs(t) {
		p := arc.Place()
		next[p.ID] -= arc.Weight
		ev.Removed = append(ev.Removed, Movement{PlaceID: p.ID, Tokens: arc.Weight})
	}
	for _, arc := range n.Outputs(t) {
		p := arc.Place()
		next[p.ID] += arc.Weight
		ev.Added = append(ev.Added, Movement{PlaceID: p.ID, Tokens: arc.Weight})
	}
	ev.After = next.Copy()
	return next, ev, nil
}

// WouldExceedCapacity reports whether firing t under m would push a
// bounded place past its capacity. Capacity is advisory; callers decide
// what to do with the answer.
func WouldExceedCapacity(n *petrisim.Net, m petrisim.Marking, t *petrisim.Transition) bool {
	next := make(map[string]int)
	for _, arc := range n.Inputs(t) {
		if p := arc.Place(); p != nil {
			next[p.ID] -= arc.Weight
		}
	}
	for _, arc := range n.Outputs(t) {
		if p := arc.Place(); p != nil {
			next[p.ID] += arc.Weight
		}
	}
	for id, delta := range next {
		p := n.Place(id)
		if p != nil && p.Capacity > 0 && m.Tokens(id)+delta > p.Capacity {
			return true
		}
	}
	return false
}
