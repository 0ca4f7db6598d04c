// internal/store/memory.go
//
// In-memory implementation of the game Store. The authoritative copy of
// every game lives here between requests; durability is not a goal (the
// history package keeps a durable record of outcomes separately).
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map guarded by an RWMutex.
//   - Update serializes mutations per game id with a dedicated mutex, so
//     interleaved reveal/clue requests for one game apply one at a time.
//   - Reads (Get, ListActive, Update's return value) take the same per-id
//     mutex and hand back deep copies, so a caller never projects a view
//     from a half-applied mutation.
//   - Sweep takes the same per-id mutex before deleting, so an eviction
//     never races an in-flight mutation on the same game.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tarunjain15/codenames-local/internal/game"
)

// ErrNotFound: no game exists under the requested id.
var ErrNotFound = errors.New("game not found")

// Store defines the persistence contract for live game state.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a consistent snapshot of a game by id; ErrNotFound if
	// missing. The snapshot is the caller's to mutate.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update applies fn to the stored game under the game's own lock and
	// returns a snapshot taken inside the same critical section.
	// Errors from fn abort the update and pass through unchanged.
	Update(ctx context.Context, id string, fn func(*game.Game) error) (*game.Game, error)

	// Delete removes a game, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// ListActive returns snapshots of all non-finished games,
	// newest-created first.
	ListActive(ctx context.Context) ([]*game.Game, error)

	// Sweep evicts games whose UpdatedAt is older than olderThan, returning
	// the number evicted.
	Sweep(ctx context.Context, olderThan time.Duration) (int, error)
}

// memory is a map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
	locks map[string]*sync.Mutex // per-game mutation locks
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		games: make(map[string]*game.Game),
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	if _, ok := m.locks[g.ID]; !ok {
		m.locks[g.ID] = &sync.Mutex{}
	}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	lock, err := m.gameLock(id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	m.mu.RLock()
	g, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return g.Clone(), nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Game) error) (*game.Game, error) {
	lock, err := m.gameLock(id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	// Re-fetch under the per-game lock; the game may have been swept
	// between lookup and acquisition.
	m.mu.RLock()
	g, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	// Snapshot inside the critical section; the caller's post-mutation
	// reads must not race the next mutation.
	return g.Clone(), nil
}

func (m *memory) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.games[id]
	delete(m.games, id)
	delete(m.locks, id)
	return ok, nil
}

func (m *memory) ListActive(ctx context.Context) ([]*game.Game, error) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var out []*game.Game
	for _, id := range ids {
		lock, err := m.gameLock(id)
		if err != nil {
			continue // swept since the scan
		}
		lock.Lock()
		m.mu.RLock()
		g, ok := m.games[id]
		m.mu.RUnlock()
		if ok && !g.Finished() {
			out = append(out, g.Clone())
		}
		lock.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memory) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	m.mu.RLock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	evicted := 0
	for _, id := range ids {
		lock, err := m.gameLock(id)
		if err != nil {
			continue // already gone
		}
		lock.Lock()
		m.mu.Lock()
		// Timestamps are only read under the game's lock; a mutation may
		// have landed while we waited for it.
		if g, ok := m.games[id]; ok && g.UpdatedAt.Before(cutoff) {
			delete(m.games, id)
			delete(m.locks, id)
			evicted++
		}
		m.mu.Unlock()
		lock.Unlock()
	}
	return evicted, nil
}

// gameLock returns the per-game mutation lock for id.
func (m *memory) gameLock(id string) (*sync.Mutex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.locks[id]; ok {
		return l, nil
	}
	return nil, ErrNotFound
}
