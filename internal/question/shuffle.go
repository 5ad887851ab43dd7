package question

import (
	"math/rand/v2"
	"time"
	"unicode/utf16"
)

// pcgStream is the fixed PCG increment for session-seeded generators.
const pcgStream = 0x9e3779b97f4a7c15

// SeedFromSession derives a 32-bit seed from a session identifier using the
// rolling hash h = h*31 + c over UTF-16 code units, wrapped to int32, then
// made non-negative. An empty identifier seeds from the current time.
func SeedFromSession(sessionID string) uint32 {
	if sessionID == "" {
		return uint32(time.Now().UnixMilli())
	}
	var h int32
	for _, c := range utf16.Encode([]rune(sessionID)) {
		h = h*31 + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// SeededRand returns the deterministic generator used for a seed.
func SeededRand(seed uint32) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgStream))
}

func unseededRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// SeededOrder applies only the seed-driven Fisher–Yates pass to a copy of
// items. Equal seeds over equal input always give the same order.
func SeededOrder[T any](items []T, seed uint32) []T {
	out := append([]T(nil), items...)
	fisherYates(out, SeededRand(seed))
	return out
}

// Shuffle returns a permutation of items: a seeded pass followed by an
// unseeded one, so the final order cannot be rebuilt from the seed alone.
func Shuffle[T any](items []T, seed uint32) []T {
	out := SeededOrder(items, seed)
	fisherYates(out, unseededRand())
	return out
}

func fisherYates[T any](s []T, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// ShuffleOptions permutes a question's options and moves Correct with them.
// The answer is tracked by its original index, so options with identical text
// never confuse which position is correct. The input question is not modified.
func ShuffleOptions(q Question, rng *rand.Rand) Question {
	order := make([]int, len(q.Options))
	for i := range order {
		order[i] = i
	}
	fisherYates(order, rng)

	opts := make([]string, len(order))
	correct := -1
	for pos, from := range order {
		opts[pos] = q.Options[from]
		if from == q.Correct {
			correct = pos
		}
	}
	q.Options = opts
	q.Correct = correct
	return q
}
