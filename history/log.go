// Package history keeps the append-only record of a run and rebuilds any
// intermediate marking from it.
package history

import (
	"sync"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/firing"
)

// Log is an append-only, step-addressable sequence of firing events.
// Entries are never mutated after they are recorded; the log is cleared
// only by replacing it on reset.
type Log struct {
	mu     sync.RWMutex
	events []*firing.Event
}

func NewLog() *Log {
	return &Log{}
}

// Append records an event. Step numbers are the appender's business; the
// log only preserves order.
func (l *Log) Append(e *firing.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// At returns the event with the given step number (1-based).
func (l *Log) At(step int) (*firing.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if step < 1 || step > len(l.events) {
		return nil, &petrisim.ReplayOutOfRangeError{Index: step, Len: len(l.events)}
	}
	return l.events[step-1], nil
}

// Events returns a snapshot copy of the sequence. The returned slice is
// the caller's; the events themselves stay shared and must be treated as
// read-only.
func (l *Log) Events() []*firing.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*firing.Event(nil), l.events...)
}

// ReplayTo folds events [0, index) over the initial marking and returns
// the marking at that point. Only recorded movements are used; the net
// topology and any selection policy stay out of it, and nothing is
// appended or mutated.
func (l *Log) ReplayTo(initial petrisim.Marking, index int) (petrisim.Marking, error) {
	return ReplayTo(initial, l.Events(), index)
}

// ReplayTo is the log-independent fold used by export bundles.
func ReplayTo(initial petrisim.Marking, events []*firing.Event, index int) (petrisim.Marking, error) {
	if index < 0 || index > len(events) {
		return nil, &petrisim.ReplayOutOfRangeError{Index: index, Len: len(events)}
	}
	m := initial.Copy()
	for _, e := range events[:index] {
		next, err := e.Apply(m)
		if err != nil {
			return nil, err
		}
		m = next
	}
	return m, nil
}
