// internal/words/selector.go
//
// Anti-repetition word selection.
//
// A Selector remembers the words handed out for the last few boards and
// steers fresh games away from them. The memory is a bounded FIFO: once
// MaxRecent entries are held, recording new picks evicts the oldest. When
// the remembered history starves a pool below a full board, the history is
// cleared and the draw retried once; a repeated board beats a failed
// creation.
//
// This is a soft heuristic, not a uniqueness guarantee. The Selector is an
// injected component (constructed in main, passed to the HTTP layer) so it
// can be scoped per deployment or per test.

package words

import (
	mrand "math/rand"
	"sync"

	"github.com/tarunjain15/codenames-local/internal/game"
)

// MaxRecent bounds the selection history: three boards' worth of words.
const MaxRecent = 75

// Selector picks words from a pool while avoiding recently used ones.
// Safe for concurrent use.
type Selector struct {
	mu      sync.Mutex
	recent  []string            // FIFO order, oldest first
	inUse   map[string]struct{} // membership mirror of recent
	maxSize int
}

// NewSelector returns a Selector with the standard MaxRecent bound.
func NewSelector() *Selector {
	return &Selector{
		inUse:   make(map[string]struct{}),
		maxSize: MaxRecent,
	}
}

// Select draws count distinct words from pool, preferring words not seen
// in recent games. The pool is normalized first; an insufficient pool is
// game.ErrInsufficientWords regardless of history.
func (s *Selector) Select(pool []string, count int) ([]string, error) {
	normalized := game.NormalizePool(pool)
	if len(normalized) < count {
		return nil, game.ErrInsufficientWords
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := s.filterLocked(normalized)
	if len(candidates) < count {
		// History starved the pool: forget everything and retry once.
		s.recent = s.recent[:0]
		s.inUse = make(map[string]struct{})
		candidates = normalized
	}

	mrand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	picked := candidates[:count]
	s.recordLocked(picked)
	return picked, nil
}

// HistorySize returns the number of remembered words.
func (s *Selector) HistorySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recent)
}

// filterLocked returns pool minus the remembered history.
func (s *Selector) filterLocked(pool []string) []string {
	out := make([]string, 0, len(pool))
	for _, w := range pool {
		if _, used := s.inUse[w]; !used {
			out = append(out, w)
		}
	}
	return out
}

// recordLocked appends picks to the history, evicting oldest entries until
// the bound holds.
func (s *Selector) recordLocked(picked []string) {
	for _, w := range picked {
		if _, dup := s.inUse[w]; dup {
			continue
		}
		s.recent = append(s.recent, w)
		s.inUse[w] = struct{}{}
	}
	for len(s.recent) > s.maxSize {
		evicted := s.recent[0]
		s.recent = s.recent[1:]
		delete(s.inUse, evicted)
	}
}
