package firing

import (
	"time"

	"github.com/petriflow/petrisim"
)

// Movement records tokens removed from or added to a single place.
type Movement struct {
	PlaceID string `json:"placeId"`
	Tokens  int    `json:"tokens"`
}

// Event is the record of one firing. The itemized movements are sufficient
// to reconstruct the step without re-deriving it from the net topology,
// which is what replay and the audit export rely on. Step and Time are
// stamped by the controller when the event enters the history.
type Event struct {
	Step         int              `json:"step"`
	Time         time.Time        `json:"time"`
	TransitionID string           `json:"transitionId"`
	Before       petrisim.Marking `json:"before"`
	After        petrisim.Marking `json:"after"`
	Removed      []Movement       `json:"removed"`
	Added        []Movement       `json:"added"`
}

// Copy returns a snapshot safe to hand to external listeners.
func (e *Event) Copy() *Event {
	ret := *e
	ret.Before = e.Before.Copy()
	ret.After = e.After.Copy()
	ret.Removed = append([]Movement(nil), e.Removed...)
	ret.Added = append([]Movement(nil), e.Added...)
	return &ret
}

// Apply folds the event's movements over m and returns the successor
// marking. It uses only the recorded movements, never the net. A movement
// that would drive a place negative reports the offending place id.
func (e *Event) Apply(m petrisim.Marking) (petrisim.Marking, error) {
	next := m.Copy()
	for _, mv := range e.Removed {
		next[mv.PlaceID] -= mv.Tokens
		if next[mv.PlaceID] < 0 {
			return nil, &petrisim.PreconditionError{TransitionID: e.TransitionID, Marking: m.Copy()}
		}
	}
	for _, mv := range e.Added {
		next[mv.PlaceID] += mv.Tokens
	}
	return next, nil
}
