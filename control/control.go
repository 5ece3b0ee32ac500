package control

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/firing"
	"github.com/petriflow/petrisim/history"
	"github.com/petriflow/petrisim/policy"
)

// Controller owns the live marking and history of one run and drives the
// state machine. All commands and queries are safe for concurrent use;
// the marking and history are only ever touched with the lock held, so a
// firing is atomic: marking and history update together or not at all.
type Controller struct {
	mu sync.Mutex

	net     *petrisim.Net
	initial petrisim.Marking
	cfg     Config
	pol     policy.Policy

	clock  Clock
	logger *zap.Logger
	out    Listeners

	watches *WatchRegistry
	breaks  *BreakpointRegistry

	state     State
	marking   petrisim.Marking
	log       *history.Log
	stepCount int
	lastErr   error

	elapsed   time.Duration
	resumedAt time.Time

	// pending is a chosen, breakpointed, not-yet-fired transition id. The
	// next step fires exactly it, bypassing selection and the gate.
	pending string

	// stopC identifies the current timer loop; a goroutine holding a
	// stale channel exits on its next tick.
	stopC chan struct{}

	// interactive suspension
	offer     []string
	resumeTo  State
	waitTimer *time.Timer

	// replay cursor, mutually exclusive with live execution
	replaying  bool
	replayIdx  int
	replayMark petrisim.Marking

	completionSent bool
}

type Option func(*Controller)

// WithClock swaps the timestamp source, pinning it for reproducibility.
func WithClock(clk Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithListener(l Listener) Option {
	return func(c *Controller) { c.out = append(c.out, l) }
}

// New validates the initial marking against the net and builds an IDLE
// controller. The net is read-only from here on; structural edits require
// a new controller.
func New(n *petrisim.Net, initial map[string]int, cfg Config, opts ...Option) (*Controller, error) {
	m, err := petrisim.NewMarking(n, initial)
	if err != nil {
		return nil, err
	}
	pol, err := cfg.policy()
	if err != nil {
		return nil, err
	}
	c := &Controller{
		net:     n,
		initial: m,
		cfg:     cfg,
		pol:     pol,
		clock:   WallClock(),
		logger:  zap.NewNop(),
		watches: NewWatchRegistry(cfg.WatchedPlaces...),
		breaks:  NewBreakpointRegistry(cfg.Breakpoints...),
		state:   Idle,
		marking: m.Copy(),
		log:     history.NewLog(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Start begins (from IDLE) or resumes (from PAUSED) periodic stepping at
// max(MinInterval, BaseInterval/SpeedMultiplier).
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replaying {
		return fmt.Errorf("controller is in replay mode")
	}
	switch c.state {
	case Idle, Paused:
	default:
		return fmt.Errorf("cannot start from %s", c.state)
	}
	c.setState(Running)
	c.startLoopLocked()
	return nil
}

// Pause cancels the periodic timer at the next step boundary; marking and
// history are unchanged. Pausing during an interactive suspension
// abandons the pending choice.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Running:
	case Interactive:
		c.abandonWaitLocked()
	default:
		return fmt.Errorf("cannot pause from %s", c.state)
	}
	c.stopLoopLocked()
	c.setState(Paused)
	return nil
}

// Step performs exactly one step and halts in PAUSED. Legal from IDLE and
// PAUSED; a retained breakpointed transition is fired first.
func (c *Controller) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replaying {
		return fmt.Errorf("controller is in replay mode")
	}
	switch c.state {
	case Idle, Paused:
	default:
		return fmt.Errorf("cannot step from %s", c.state)
	}
	c.runStep(Paused)
	return nil
}

// Choose supplies the transition for an interactive suspension. The id
// must be a member of the offered enabled set; anything else is rejected
// and the suspension stays in place.
func (c *Controller) Choose(transitionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Interactive {
		return fmt.Errorf("cannot choose from %s", c.state)
	}
	found := false
	for _, id := range c.offer {
		if id == transitionID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("transition %q is not in the offered enabled set", transitionID)
	}
	after := c.resumeTo
	c.abandonWaitLocked()
	c.gateLocked(transitionID, after)
	return nil
}

// CancelInteraction abandons an interactive suspension without firing and
// lands in PAUSED.
func (c *Controller) CancelInteraction() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Interactive {
		return fmt.Errorf("cannot cancel interaction from %s", c.state)
	}
	c.abandonWaitLocked()
	c.stopLoopLocked()
	c.setState(Paused)
	return nil
}

// Reset returns to IDLE from any state: initial marking restored, history
// cleared, timers cancelled.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonWaitLocked()
	c.stopLoopLocked()
	c.marking = c.initial.Copy()
	c.log = history.NewLog()
	c.stepCount = 0
	c.lastErr = nil
	c.pending = ""
	c.elapsed = 0
	c.replaying = false
	c.replayIdx = 0
	c.replayMark = nil
	c.completionSent = false
	c.state = Idle
	c.out.OnStateChange(Idle, c.marking.Copy(), 0, 0, c.enabledIDsLocked())
}

// timer loop

func (c *Controller) startLoopLocked() {
	stop := make(chan struct{})
	c.stopC = stop
	go c.loop(stop, c.cfg.Interval())
}

func (c *Controller) stopLoopLocked() {
	if c.stopC != nil {
		close(c.stopC)
		c.stopC = nil
	}
}

func (c *Controller) loop(stop chan struct{}, iv time.Duration) {
	ticker := time.NewTicker(iv)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.tick(stop) {
				return
			}
			// a tick that fired while the step was in progress is
			// dropped, never queued
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (c *Controller) tick(stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopC != stop {
		return false
	}
	if c.state != Running {
		// an interactive suspension parks the loop without killing it
		return true
	}
	c.runStep(Running)
	return true
}

// stepping, lock held throughout

// runStep performs one step. after is the state a firing lands in:
// Running from the timer, Paused from an explicit step.
func (c *Controller) runStep(after State) {
	if c.pending != "" {
		id := c.pending
		c.pending = ""
		c.fireLocked(id, after)
		return
	}
	enabled := c.enabledLocked()
	if len(enabled) == 0 {
		c.finishLocked()
		return
	}
	if c.cfg.MaxSteps > 0 && c.stepCount >= c.cfg.MaxSteps {
		c.logger.Info("step budget reached", zap.Int("maxSteps", c.cfg.MaxSteps))
		c.stopLoopLocked()
		c.setState(Paused)
		return
	}
	if c.pol.Kind() == policy.Interactive {
		c.suspendLocked(enabled, after)
		return
	}
	t := c.pol.Select(enabled)
	c.gateLocked(t.ID, after)
}

func (c *Controller) enabledLocked() []*petrisim.Transition {
	enabled := firing.EnabledSet(c.net, c.marking)
	if !c.cfg.EnforceCapacity {
		return enabled
	}
	kept := make([]*petrisim.Transition, 0, len(enabled))
	for _, t := range enabled {
		if firing.WouldExceedCapacity(c.net, c.marking, t) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// gateLocked runs the breakpoint check after selection, before firing. A
// hit retains the chosen transition with the marking untouched; the next
// step fires exactly it.
func (c *Controller) gateLocked(id string, after State) {
	hit, err := c.breaks.Hits(c.net, c.marking, id, c.stepCount+1)
	if err != nil {
		c.logger.Warn("breakpoint condition failed, pausing",
			zap.String("transition", id), zap.Error(err))
	}
	if hit {
		c.pending = id
		c.stopLoopLocked()
		c.setState(Paused)
		c.out.OnBreakpointHit(id)
		return
	}
	c.fireLocked(id, after)
}

func (c *Controller) fireLocked(id string, after State) {
	next, ev, err := firing.Fire(c.net, c.marking, id)
	if err != nil {
		c.failLocked(err)
		return
	}
	c.stepCount++
	ev.Step = c.stepCount
	ev.Time = c.clock.Now()
	before := c.marking
	c.marking = next
	c.log.Append(ev)

	if !c.cfg.EnforceCapacity {
		for _, p := range c.net.Places {
			if p.Capacity > 0 && next[p.ID] > p.Capacity {
				c.logger.Warn("place above advisory capacity",
					zap.String("place", p.ID),
					zap.Int("tokens", next[p.ID]),
					zap.Int("capacity", p.Capacity))
			}
		}
	}

	c.out.OnFiringEvent(ev.Copy())
	c.out.OnMarkingChange(next.Copy())
	watched := c.watches.snapshot()
	for _, p := range c.net.Places {
		if _, ok := watched[p.ID]; !ok {
			continue
		}
		if before[p.ID] != next[p.ID] {
			c.out.OnWatchTriggered(p.ID, before[p.ID], next[p.ID])
		}
	}
	c.setState(after)
}

func (c *Controller) suspendLocked(enabled []*petrisim.Transition, after State) {
	c.offer = transitionIDs(enabled)
	c.resumeTo = after
	c.setState(Interactive)
	if c.cfg.InteractionTimeout > 0 {
		c.waitTimer = time.AfterFunc(c.cfg.InteractionTimeout, c.interactionTimeout)
	}
}

func (c *Controller) interactionTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Interactive {
		return
	}
	c.lastErr = &petrisim.InteractionTimeoutError{Timeout: c.cfg.InteractionTimeout}
	c.logger.Warn("interaction timed out", zap.Duration("timeout", c.cfg.InteractionTimeout))
	c.abandonWaitLocked()
	c.stopLoopLocked()
	c.setState(Paused)
}

func (c *Controller) abandonWaitLocked() {
	c.offer = nil
	if c.waitTimer != nil {
		c.waitTimer.Stop()
		c.waitTimer = nil
	}
}

// finishLocked ends the run: COMPLETED when every place is empty,
// DEADLOCKED otherwise. The completion report is published exactly once.
func (c *Controller) finishLocked() {
	terminal := Deadlocked
	if c.marking.Zero() {
		terminal = Completed
	}
	c.stopLoopLocked()
	c.setState(terminal)
	if c.completionSent {
		return
	}
	c.completionSent = true
	c.out.OnCompletion(&Report{
		State:   terminal,
		Final:   c.marking.Copy(),
		Steps:   c.stepCount,
		Elapsed: c.elapsed,
		Events:  c.log.Events(),
	})
}

func (c *Controller) failLocked(err error) {
	c.lastErr = err
	c.stopLoopLocked()
	c.logger.Error("fatal simulation error", zap.Error(err))
	c.setState(Errored)
}

// setState publishes a state change and keeps the elapsed-time account:
// time accrues only while RUNNING.
func (c *Controller) setState(s State) {
	if s == Running && c.state != Running {
		c.resumedAt = c.clock.Now()
	}
	if c.state == Running && s != Running {
		c.elapsed += c.clock.Now().Sub(c.resumedAt)
	}
	if s == c.state {
		return
	}
	c.state = s
	c.out.OnStateChange(s, c.marking.Copy(), c.stepCount, c.elapsedLocked(), c.enabledIDsLocked())
}

func (c *Controller) elapsedLocked() time.Duration {
	if c.state == Running {
		return c.elapsed + c.clock.Now().Sub(c.resumedAt)
	}
	return c.elapsed
}

func (c *Controller) enabledIDsLocked() []string {
	return transitionIDs(c.enabledLocked())
}

func transitionIDs(tt []*petrisim.Transition) []string {
	ids := make([]string, 0, len(tt))
	for _, t := range tt {
		ids = append(ids, t.ID)
	}
	return ids
}

// queries; every returned value is a snapshot

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error behind an ERROR state or an abandoned interactive
// wait.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) Marking() petrisim.Marking {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marking.Copy()
}

func (c *Controller) StepCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepCount
}

func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

// EnabledTransitions returns the ids of the currently fireable
// transitions in declaration order.
func (c *Controller) EnabledTransitions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabledIDsLocked()
}

// History returns a snapshot of the firing events so far.
func (c *Controller) History() []*firing.Event {
	c.mu.Lock()
	log := c.log
	c.mu.Unlock()
	return log.Events()
}

// Pending returns the retained breakpointed transition id, if any.
func (c *Controller) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Offer returns the enabled set exposed by an interactive suspension.
func (c *Controller) Offer() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.offer...)
}

func (c *Controller) Net() *petrisim.Net { return c.net }

func (c *Controller) InitialMarking() petrisim.Marking {
	return c.initial.Copy()
}

func (c *Controller) Watches() *WatchRegistry { return c.watches }

func (c *Controller) Breakpoints() *BreakpointRegistry { return c.breaks }

// Export snapshots the run into a self-sufficient replayable bundle.
func (c *Controller) Export() *history.Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return history.NewBundle(c.net, c.initial, c.log)
}
