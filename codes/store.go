package codes

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the code lifetime applied when a store is constructed with a
// non-positive TTL.
const DefaultTTL = 5 * time.Minute

var (
	// ErrNoMatch is returned by [Store.Consume] when no unexpired code exists
	// for the key or the provided code differs from the stored one. The two
	// causes are deliberately indistinguishable.
	ErrNoMatch = errors.New("code missing or mismatched")
	// ErrUnavailable is an exported constant or variable used by the authentication engine.
	ErrUnavailable = errors.New("code store unavailable")
)

// Store defines a public type used by authflow APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store interface {
	// Set stores code under key with the store's TTL, replacing any pending
	// entry for the same key.
	Set(ctx context.Context, key string, code int) error

	// Get returns the unexpired code for key, if any.
	Get(ctx context.Context, key string) (int, bool, error)

	// Delete removes the entry for key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Consume atomically compares code against the stored entry and deletes
	// it on match. Absence, expiry, and mismatch all fail with [ErrNoMatch];
	// a mismatched code stays stored until it expires or is replaced.
	Consume(ctx context.Context, key string, code int) error
}
