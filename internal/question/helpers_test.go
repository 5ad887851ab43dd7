package question

import (
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func makeQuestions(prefix, difficulty string, n int) []Question {
	qs := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, Question{
			Text:       fmt.Sprintf("%s %s question %d?", prefix, difficulty, i),
			Options:    []string{"A", "B", "C", "D"},
			Correct:    i % OptionCount,
			Difficulty: difficulty,
		})
	}
	return qs
}

func tiered(prefix string, easy, medium, hard int) []Question {
	var qs []Question
	qs = append(qs, makeQuestions(prefix, DifficultyEasy, easy)...)
	qs = append(qs, makeQuestions(prefix, DifficultyMedium, medium)...)
	qs = append(qs, makeQuestions(prefix, DifficultyHard, hard)...)
	return qs
}

func newTestRepo(t *testing.T, realms map[string][]Question, fallback []Question) *Repository {
	t.Helper()
	repo, err := NewRepository(realms, fallback)
	require.NoError(t, err)
	return repo
}

func newTestEngine(t *testing.T, repo *Repository, opts EngineOptions) *Engine {
	t.Helper()
	return NewEngine(repo, opts, zerolog.New(io.Discard))
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func tierCounts(qs []Question) map[string]int {
	counts := map[string]int{}
	for _, q := range qs {
		counts[q.Difficulty]++
	}
	return counts
}
