package control

import (
	"fmt"
	"time"

	"github.com/petriflow/petrisim/policy"
)

const (
	DefaultBaseInterval = 500 * time.Millisecond
	DefaultMinInterval  = 10 * time.Millisecond
)

// Config carries everything a run needs besides the net and its initial
// marking.
type Config struct {
	// Mode selects the policy: deterministic, stochastic or interactive.
	Mode policy.Kind
	// Seed drives stochastic selection. Ignored in other modes.
	Seed int64
	// SpeedMultiplier scales the stepping rate; values at or below zero
	// mean 1x.
	SpeedMultiplier float64
	// BaseInterval and MinInterval bound the periodic step interval:
	// max(MinInterval, BaseInterval/SpeedMultiplier). Zero values take the
	// defaults.
	BaseInterval time.Duration
	MinInterval  time.Duration
	// MaxSteps pauses the run once this many firings have happened.
	// Zero means unbounded.
	MaxSteps int
	// Breakpoints are transition ids that pause the run immediately before
	// they would fire.
	Breakpoints []string
	// WatchedPlaces are place ids whose token-count changes are reported.
	WatchedPlaces []string
	// InteractionTimeout bounds an interactive suspension. Zero waits
	// forever.
	InteractionTimeout time.Duration
	// EnforceCapacity makes bounded places hard limits: a firing that
	// would overflow one is not offered for selection. Off by default;
	// capacity is advisory.
	EnforceCapacity bool
}

// Interval returns the effective periodic step interval.
func (c Config) Interval() time.Duration {
	base := c.BaseInterval
	if base <= 0 {
		base = DefaultBaseInterval
	}
	min := c.MinInterval
	if min <= 0 {
		min = DefaultMinInterval
	}
	speed := c.SpeedMultiplier
	if speed <= 0 {
		speed = 1
	}
	iv := time.Duration(float64(base) / speed)
	if iv < min {
		iv = min
	}
	return iv
}

func (c Config) policy() (policy.Policy, error) {
	switch c.Mode {
	case policy.Deterministic:
		return policy.First{}, nil
	case policy.Stochastic:
		return policy.Random{Src: policy.NewSource(c.Seed)}, nil
	case policy.Interactive:
		return policy.Await{}, nil
	default:
		return nil, fmt.Errorf("unknown selection mode %d", c.Mode)
	}
}
