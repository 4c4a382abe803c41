// Package metrics holds the engine's flow outcome counters.
//
// Counters are plain atomics so the hot path never takes a lock; the
// Prometheus [Collector] reads a consistent-enough snapshot on scrape.
package metrics

import "sync/atomic"

// ID identifies one counter.
type ID uint8

const (
	// RegisterSuccess is an exported constant or variable used by the authentication engine.
	RegisterSuccess ID = iota
	// RegisterDuplicate is an exported constant or variable used by the authentication engine.
	RegisterDuplicate
	// LoginSuccess is an exported constant or variable used by the authentication engine.
	LoginSuccess
	// LoginFailure is an exported constant or variable used by the authentication engine.
	LoginFailure
	// VerifySuccess is an exported constant or variable used by the authentication engine.
	VerifySuccess
	// VerifyFailure is an exported constant or variable used by the authentication engine.
	VerifyFailure
	// VerificationResent is an exported constant or variable used by the authentication engine.
	VerificationResent
	// ResetRequested is an exported constant or variable used by the authentication engine.
	ResetRequested
	// ResetSuccess is an exported constant or variable used by the authentication engine.
	ResetSuccess
	// ResetFailure is an exported constant or variable used by the authentication engine.
	ResetFailure
	// TokenRejected is an exported constant or variable used by the authentication engine.
	TokenRejected
	// PermissionDenied is an exported constant or variable used by the authentication engine.
	PermissionDenied
	// MailSendFailure is an exported constant or variable used by the authentication engine.
	MailSendFailure

	idCount
)

var names = [idCount]string{
	RegisterSuccess:    "register_success",
	RegisterDuplicate:  "register_duplicate",
	LoginSuccess:       "login_success",
	LoginFailure:       "login_failure",
	VerifySuccess:      "verify_success",
	VerifyFailure:      "verify_failure",
	VerificationResent: "verification_resent",
	ResetRequested:     "reset_requested",
	ResetSuccess:       "reset_success",
	ResetFailure:       "reset_failure",
	TokenRejected:      "token_rejected",
	PermissionDenied:   "permission_denied",
	MailSendFailure:    "mail_send_failure",
}

// String returns the counter's snake_case name, as used in [Metrics.Snapshot]
// keys and Prometheus metric names.
func (id ID) String() string {
	if id >= idCount {
		return "unknown"
	}
	return names[id]
}

// Metrics defines a public type used by authflow APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [idCount]atomic.Uint64
}

// New describes the new operation and its observable behavior.
//
// When enabled is false every operation is a no-op.
func New(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc describes the inc operation and its observable behavior.
func (m *Metrics) Inc(id ID) {
	if m == nil || !m.enabled || id >= idCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot returns a point-in-time copy of all counters keyed by name.
func (m *Metrics) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, idCount)
	if m == nil {
		return out
	}
	for id := ID(0); id < idCount; id++ {
		out[names[id]] = m.counters[id].Load()
	}
	return out
}

// Value returns the current count for one counter.
func (m *Metrics) Value(id ID) uint64 {
	if m == nil || id >= idCount {
		return 0
	}
	return m.counters[id].Load()
}
