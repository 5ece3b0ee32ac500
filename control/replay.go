package control

import (
	"fmt"

	"github.com/petriflow/petrisim"
)

// EnterReplay derives a replay cursor from the live history. Replay is
// mutually exclusive with live execution: live commands are rejected
// until ExitReplay, and replay never appends to the history, never moves
// the live marking, and never consults the selection policy.
func (c *Controller) EnterReplay() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replaying {
		return fmt.Errorf("already in replay mode")
	}
	switch c.state {
	case Running, Interactive:
		return fmt.Errorf("cannot enter replay from %s", c.state)
	}
	c.replaying = true
	c.replayIdx = 0
	c.replayMark = c.initial.Copy()
	return nil
}

// ReplaySeek folds the history to the given index: 0 is the initial
// marking, Len the final one. An index outside that range is a
// *petrisim.ReplayOutOfRangeError.
func (c *Controller) ReplaySeek(index int) (petrisim.Marking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.replaying {
		return nil, fmt.Errorf("not in replay mode")
	}
	return c.replaySeekLocked(index)
}

func (c *Controller) replaySeekLocked(index int) (petrisim.Marking, error) {
	m, err := c.log.ReplayTo(c.initial, index)
	if err != nil {
		return nil, err
	}
	c.replayIdx = index
	c.replayMark = m
	return m.Copy(), nil
}

// ReplayStep advances the cursor by one event.
func (c *Controller) ReplayStep() (petrisim.Marking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.replaying {
		return nil, fmt.Errorf("not in replay mode")
	}
	return c.replaySeekLocked(c.replayIdx + 1)
}

// ReplayIndex returns the cursor position.
func (c *Controller) ReplayIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replayIdx
}

// ReplayMarking returns the marking at the cursor.
func (c *Controller) ReplayMarking() petrisim.Marking {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replayMark == nil {
		return nil
	}
	return c.replayMark.Copy()
}

// ExitReplay drops the cursor and hands control back to live execution.
func (c *Controller) ExitReplay() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.replaying {
		return fmt.Errorf("not in replay mode")
	}
	c.replaying = false
	c.replayMark = nil
	c.replayIdx = 0
	return nil
}
