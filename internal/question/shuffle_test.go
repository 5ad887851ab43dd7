package question

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFromSession(t *testing.T) {
	cases := map[string]uint32{
		"a":                  97,
		"ab":                 3105,
		"battle-42":          487980109,
		"session-123456789":  1263423042,
		"t3_abcdefg":         2140306020,
		"polygenelubricants": 2147483648,
	}
	for in, want := range cases {
		assert.Equal(t, want, SeedFromSession(in), in)
	}
}

func TestSeedFromEmptySessionUsesClock(t *testing.T) {
	before := uint32(time.Now().UnixMilli())
	seed := SeedFromSession("")
	after := uint32(time.Now().UnixMilli())
	if before <= after {
		assert.GreaterOrEqual(t, seed, before)
		assert.LessOrEqual(t, seed, after)
	}
}

func TestSeededOrderIsDeterministic(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	seed := SeedFromSession("battle-42")

	first := SeededOrder(items, seed)
	second := SeededOrder(items, seed)
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, items, first)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, items, "input must not be reordered")
}

func TestSeededOrderVariesWithSeed(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}
	distinct := map[string]struct{}{}
	for seed := uint32(0); seed < 10; seed++ {
		distinct[fmtInts(SeededOrder(items, seed))] = struct{}{}
	}
	assert.Greater(t, len(distinct), 1)
}

func TestShuffleIsPermutation(t *testing.T) {
	qs := withIDs(tiered("perm", 3, 3, 3))

	for i := 0; i < 50; i++ {
		out := Shuffle(qs, uint32(i))
		require.Len(t, out, len(qs))
		assert.ElementsMatch(t, ids(qs), ids(out))
	}
	assert.Empty(t, Shuffle([]Question{}, 1))
}

func TestShuffleOptionsTracksCorrectAnswer(t *testing.T) {
	q := Question{Text: "Q", Options: []string{"w", "x", "y", "z"}, Correct: 2, Difficulty: DifficultyEasy}
	q.ID = IdentityKey(q.Text, q.Correct)

	for i := 0; i < 100; i++ {
		got := ShuffleOptions(q, SeededRand(uint32(i)))
		require.Len(t, got.Options, 4)
		assert.Equal(t, "y", got.Options[got.Correct])
		assert.ElementsMatch(t, q.Options, got.Options)
		assert.Equal(t, q.ID, got.ID, "identity must survive option shuffling")
	}
	assert.Equal(t, []string{"w", "x", "y", "z"}, q.Options, "input must not be modified")
}

func TestShuffleOptionsWithDuplicateText(t *testing.T) {
	q := Question{Text: "dup", Options: []string{"same", "other", "same", "last"}, Correct: 2}

	textLookupWouldFail := 0
	for i := 0; i < 100; i++ {
		got := ShuffleOptions(q, SeededRand(uint32(i)))

		// Replay the permutation to find where original option 2 went.
		order := []int{0, 1, 2, 3}
		fisherYates(order, SeededRand(uint32(i)))
		want := -1
		for pos, from := range order {
			if from == q.Correct {
				want = pos
			}
		}
		require.Equal(t, want, got.Correct)

		first := -1
		for pos, opt := range got.Options {
			if opt == "same" {
				first = pos
				break
			}
		}
		if first != got.Correct {
			textLookupWouldFail++
		}
	}
	assert.Positive(t, textLookupWouldFail)
}

func fmtInts(xs []int) string {
	b := make([]byte, 0, len(xs)*3)
	for _, x := range xs {
		b = append(b, byte('a'+x))
	}
	return string(b)
}
