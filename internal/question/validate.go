package question

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCorpus is returned when no realm, not even the fallback set, holds a question.
var ErrEmptyCorpus = errors.New("question corpus is empty")

// ErrNoFallback is returned when neither a "general" realm nor the built-in
// fallback set holds questions, so unknown realms would get empty batches.
var ErrNoFallback = errors.New("no general realm or built-in fallback questions")

// ErrCountTooLarge is returned for requests above the configured batch limit.
var ErrCountTooLarge = errors.New("question count exceeds the per-session limit")

// ValidationError collects every malformed record found while loading a corpus.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid question: " + e.Problems[0]
	}
	return fmt.Sprintf("%d invalid questions: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Validate checks a single question's structural invariants.
func Validate(q Question) error {
	verr := &ValidationError{}
	validateInto(verr, "question", q)
	return verr.orNil()
}

func validateInto(verr *ValidationError, where string, q Question) {
	label := fmt.Sprintf("%s %q", where, truncate(q.Text, 40))
	if strings.TrimSpace(q.Text) == "" {
		verr.add("%s: empty text", where)
		return
	}
	if len(q.Options) != OptionCount {
		verr.add("%s: has %d options, want %d", label, len(q.Options), OptionCount)
		return
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		verr.add("%s: correct index %d out of range", label, q.Correct)
		return
	}
	switch q.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		verr.add("%s: unknown difficulty %q", label, q.Difficulty)
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			verr.add("%s: option %d is empty", label, i)
			continue
		}
		// A distractor that reads exactly like the answer makes the question unanswerable.
		if i != q.Correct && opt == q.Options[q.Correct] {
			verr.add("%s: option %d duplicates the correct answer", label, i)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
