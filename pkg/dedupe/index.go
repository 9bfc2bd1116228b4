package dedupe

import "sync"

// Index is the per-run set of identity keys already accepted. It performs
// first-wins acceptance only: the caller's encounter order decides which of
// several duplicates is kept, the index never reorders or picks a "best"
// candidate.
//
// The mutex allows different systems to be processed on different
// goroutines; files within one system must still be offered sequentially to
// preserve first-wins semantics.
type Index struct {
	mu   sync.Mutex
	seen map[Key]struct{}
}

// NewIndex returns an empty index scoped to one consolidation run.
func NewIndex() *Index {
	return &Index{seen: make(map[Key]struct{})}
}

// TryAccept reports whether key is new. On a miss it records the key and
// returns true (keep the file); on a hit it returns false (duplicate, skip).
func (ix *Index) TryAccept(key Key) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.seen[key]; ok {
		return false
	}
	ix.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct keys accepted so far.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.seen)
}
