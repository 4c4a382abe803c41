package codes

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type memoryEntry struct {
	code      int
	expiresAt time.Time
}

// MemoryStore defines a public type used by authflow APIs.
//
// MemoryStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry

	done      chan struct{}
	closeOnce sync.Once

	// now is replaceable for expiry tests.
	now func() time.Time
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// The returned store owns a background janitor goroutine; call
// [MemoryStore.Close] when the store is no longer needed. Expiry is also
// enforced lazily on every read, so an expired code never validates even
// between sweeps.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
		now:     time.Now,
	}

	interval := sweepInterval
	if ttl < interval {
		interval = ttl
	}
	go s.janitor(interval)

	return s
}

// Close stops the janitor goroutine. The store stays usable afterwards;
// expiry remains lazily enforced.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Set describes the set operation and its observable behavior.
//
// Set does not fail for an in-memory store unless the context is already
// cancelled.
func (s *MemoryStore) Set(ctx context.Context, key string, code int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{code: code, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Get describes the get operation and its observable behavior.
func (s *MemoryStore) Get(ctx context.Context, key string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return 0, false, nil
	}

	return entry.code, true, nil
}

// Delete describes the delete operation and its observable behavior.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// The compare-and-delete happens under a single lock acquisition, so no
// concurrent Set or Consume for the same key can observe partial state.
func (s *MemoryStore) Consume(ctx context.Context, key string, code int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return ErrNoMatch
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return ErrNoMatch
	}
	if entry.code != code {
		return ErrNoMatch
	}

	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}
