package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withIDs(qs []Question) []Question {
	for i := range qs {
		qs[i].ID = IdentityKey(qs[i].Text, qs[i].Correct)
	}
	return qs
}

func TestCooldownNewRealmIsUnfiltered(t *testing.T) {
	tracker := NewCooldownTracker(CooldownConfig{Period: 3, BatchSize: 6})
	candidates := withIDs(tiered("fresh", 2, 2, 2))

	got, reset := tracker.FilterAvailable("fresh", candidates, 6)
	assert.False(t, reset)
	assert.Equal(t, candidates, got)
}

func TestCooldownFiltersServed(t *testing.T) {
	tracker := NewCooldownTracker(CooldownConfig{Period: 3, BatchSize: 2})
	candidates := withIDs(tiered("g", 3, 3, 3))

	tracker.RecordServed("g", candidates[:2])
	got, reset := tracker.FilterAvailable("g", candidates, 2)
	assert.False(t, reset)
	assert.ElementsMatch(t, ids(candidates[2:]), ids(got))
	assert.Equal(t, 2, tracker.Len("g"))
}

func TestCooldownResetsWhenBelowFloor(t *testing.T) {
	tracker := NewCooldownTracker(CooldownConfig{Period: 3, BatchSize: 6})
	candidates := withIDs(tiered("gaming", 3, 3, 3))

	tracker.RecordServed("gaming", candidates[:6])
	got, reset := tracker.FilterAvailable("gaming", candidates, 6)
	assert.True(t, reset)
	assert.Len(t, got, 9)
	assert.Equal(t, 0, tracker.Len("gaming"))
}

func TestCooldownIsPerRealm(t *testing.T) {
	tracker := NewCooldownTracker(CooldownConfig{Period: 3, BatchSize: 1})
	candidates := withIDs(tiered("shared", 2, 0, 0))

	tracker.RecordServed("a", candidates[:1])
	got, _ := tracker.FilterAvailable("b", candidates, 1)
	assert.Len(t, got, 2)
}

func TestCooldownPrunesToMostRecent(t *testing.T) {
	cfg := CooldownConfig{Period: 1, BatchSize: 2}
	tracker := NewCooldownTracker(cfg)
	candidates := withIDs(makeQuestions("p", DifficultyEasy, 8))

	for i := 0; i < len(candidates); i += 2 {
		tracker.RecordServed("p", candidates[i:i+2])
	}
	require.Equal(t, cfg.Retain(), tracker.Len("p"))

	// The two oldest identities were evicted; everything later is still cooling.
	got, reset := tracker.FilterAvailable("p", candidates, 1)
	assert.False(t, reset)
	assert.ElementsMatch(t, ids(candidates[:2]), ids(got))
}

func TestCooldownReAddRefreshesRecency(t *testing.T) {
	tracker := NewCooldownTracker(CooldownConfig{Period: 1, BatchSize: 1})
	candidates := withIDs(makeQuestions("r", DifficultyEasy, 4))

	tracker.RecordServed("r", candidates[0:3])
	tracker.RecordServed("r", candidates[0:1])
	tracker.RecordServed("r", candidates[3:4])

	got, _ := tracker.FilterAvailable("r", candidates, 1)
	assert.Equal(t, []string{candidates[1].ID}, ids(got))
}

func TestCooldownAdminResets(t *testing.T) {
	tracker := NewCooldownTracker(CooldownConfig{Period: 3, BatchSize: 2})
	candidates := withIDs(tiered("x", 2, 2, 0))

	tracker.RecordServed("a", candidates[:2])
	tracker.RecordServed("b", candidates[:2])

	tracker.Reset("a")
	assert.Equal(t, 0, tracker.Len("a"))
	assert.Equal(t, 2, tracker.Len("b"))

	tracker.ResetAll()
	assert.Equal(t, 0, tracker.Len("b"))
}

func TestCooldownConfigBounds(t *testing.T) {
	cfg := CooldownConfig{Period: 3, BatchSize: 6}
	assert.Equal(t, 18, cfg.Threshold())
	assert.Equal(t, 54, cfg.Retain())
	assert.Equal(t, 54, cfg.capacity())
}
