package control

import (
	"time"

	"go.uber.org/zap"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/firing"
)

// Report is published exactly once when a run reaches a terminal state.
type Report struct {
	State   State
	Final   petrisim.Marking
	Steps   int
	Elapsed time.Duration
	Events  []*firing.Event
}

// Listener receives engine notifications. Every value passed in is a
// snapshot owned by the receiver; callbacks run on the controller's step
// path and should return quickly.
type Listener interface {
	OnStateChange(s State, m petrisim.Marking, step int, elapsed time.Duration, enabled []string)
	OnMarkingChange(m petrisim.Marking)
	OnFiringEvent(e *firing.Event)
	OnCompletion(r *Report)
	OnBreakpointHit(transitionID string)
	OnWatchTriggered(placeID string, before, after int)
}

// NopListener implements Listener with no-ops, for embedding.
type NopListener struct{}

func (NopListener) OnStateChange(State, petrisim.Marking, int, time.Duration, []string) {}
func (NopListener) OnMarkingChange(petrisim.Marking)                                    {}
func (NopListener) OnFiringEvent(*firing.Event)                                         {}
func (NopListener) OnCompletion(*Report)                                                {}
func (NopListener) OnBreakpointHit(string)                                              {}
func (NopListener) OnWatchTriggered(string, int, int)                                   {}

// Listeners fans out to each member in order.
type Listeners []Listener

func (ll Listeners) OnStateChange(s State, m petrisim.Marking, step int, elapsed time.Duration, enabled []string) {
	for _, l := range ll {
		l.OnStateChange(s, m, step, elapsed, enabled)
	}
}

func (ll Listeners) OnMarkingChange(m petrisim.Marking) {
	for _, l := range ll {
		l.OnMarkingChange(m)
	}
}

func (ll Listeners) OnFiringEvent(e *firing.Event) {
	for _, l := range ll {
		l.OnFiringEvent(e)
	}
}

func (ll Listeners) OnCompletion(r *Report) {
	for _, l := range ll {
		l.OnCompletion(r)
	}
}

func (ll Listeners) OnBreakpointHit(id string) {
	for _, l := range ll {
		l.OnBreakpointHit(id)
	}
}

func (ll Listeners) OnWatchTriggered(id string, before, after int) {
	for _, l := range ll {
		l.OnWatchTriggered(id, before, after)
	}
}

// LogListener reports engine activity through a zap logger.
type LogListener struct {
	L *zap.Logger
}

func (l LogListener) OnStateChange(s State, m petrisim.Marking, step int, elapsed time.Duration, enabled []string) {
	l.L.Info("state change",
		zap.Stringer("state", s),
		zap.Stringer("marking", m),
		zap.Int("step", step),
		zap.Duration("elapsed", elapsed),
		zap.Strings("enabled", enabled),
	)
}

func (l LogListener) OnMarkingChange(m petrisim.Marking) {
	l.L.Debug("marking change", zap.Stringer("marking", m))
}

func (l LogListener) OnFiringEvent(e *firing.Event) {
	l.L.Info("fired",
		zap.Int("step", e.Step),
		zap.String("transition", e.TransitionID),
		zap.Stringer("marking", e.After),
	)
}

func (l LogListener) OnCompletion(r *Report) {
	l.L.Info("run finished",
		zap.Stringer("state", r.State),
		zap.Stringer("marking", r.Final),
		zap.Int("steps", r.Steps),
		zap.Duration("elapsed", r.Elapsed),
	)
}

func (l LogListener) OnBreakpointHit(id string) {
	l.L.Info("breakpoint hit", zap.String("transition", id))
}

func (l LogListener) OnWatchTriggered(id string, before, after int) {
	l.L.Info("watch triggered",
		zap.String("place", id),
		zap.Int("from", before),
		zap.Int("to", after),
	)
}
