// Package control runs a net: it owns the live marking and history, drives
// periodic stepping, applies the configured selection policy, gates firings
// on breakpoints, reports watched places, and detects termination.
//
// Execution is strictly sequential; at most one firing is in flight. The
// timer is a sampling mechanism: a tick that arrives while the previous
// step is still being processed is dropped, never queued. Every value
// handed to a listener is a snapshot.
//
// Termination follows the classical empty-enabled-set rule: COMPLETED when
// no transition is enabled and every place is empty, DEADLOCKED when no
// transition is enabled and tokens remain. Note that a net whose intended
// terminal marking leaves tokens in sink places is therefore reported as
// DEADLOCKED; model a drain transition for each sink if that distinction
// matters.
package control
