package question

import (
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
)

// CooldownConfig sizes the per-realm served-identity sets.
// Both values are measured in questions served, not wall-clock time.
type CooldownConfig struct {
	Period    int
	BatchSize int
}

// Threshold is the set size above which a realm is pruned.
func (c CooldownConfig) Threshold() int {
	return max(c.Period*c.BatchSize, 1)
}

// Retain is how many of the most recently served identities survive a prune.
func (c CooldownConfig) Retain() int {
	return max(c.Period*3*c.BatchSize, 1)
}

// capacity bounds each realm's set. A set larger than Threshold is cut back to
// Retain entries, so the effective ceiling is the larger of the two.
func (c CooldownConfig) capacity() int {
	return max(c.Threshold(), c.Retain())
}

// CooldownTracker remembers which questions each realm served recently.
type CooldownTracker struct {
	mu     sync.Mutex
	cfg    CooldownConfig
	realms map[string]*simplelru.LRU
}

// NewCooldownTracker returns a tracker with no served history.
func NewCooldownTracker(cfg CooldownConfig) *CooldownTracker {
	return &CooldownTracker{
		cfg:    cfg,
		realms: make(map[string]*simplelru.LRU),
	}
}

// FilterAvailable drops candidates the realm served recently. When fewer than
// floor candidates would remain the realm's history is cleared and every
// candidate is returned; reset reports that this happened.
func (t *CooldownTracker) FilterAvailable(realm string, candidates []Question, floor int) (available []Question, reset bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.realms[realm]
	if !ok || set.Len() == 0 {
		return candidates, false
	}

	available = make([]Question, 0, len(candidates))
	for _, q := range candidates {
		if !set.Contains(q.ID) {
			available = append(available, q)
		}
	}
	if len(available) < floor {
		set.Purge()
		return candidates, true
	}
	return available, false
}

// RecordServed adds the identities of a served batch to the realm's set.
// The identities must be the ones assigned before options were shuffled.
func (t *CooldownTracker) RecordServed(realm string, served []Question) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.realms[realm]
	if !ok {
		// capacity is always positive so NewLRU cannot fail.
		set, _ = simplelru.NewLRU(t.cfg.capacity(), nil)
		t.realms[realm] = set
	}
	for _, q := range served {
		set.Add(q.ID, struct{}{})
	}
	if set.Len() > t.cfg.Threshold() {
		for set.Len() > t.cfg.Retain() {
			set.RemoveOldest()
		}
	}
}

// Len reports how many identities a realm currently holds.
func (t *CooldownTracker) Len(realm string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if set, ok := t.realms[realm]; ok {
		return set.Len()
	}
	return 0
}

// Reset clears one realm.
func (t *CooldownTracker) Reset(realm string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.realms, realm)
}

// ResetAll clears every realm.
func (t *CooldownTracker) ResetAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.realms = make(map[string]*simplelru.LRU)
}
