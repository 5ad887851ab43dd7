package question

import (
	"strconv"
	"strings"
)

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Source tags describe where a question came from.
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceAI      = "ai"
	SourceOpenTDB = "opentdb"
)

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// GeneralRealm is the first fallback when a realm has no questions of its own.
const GeneralRealm = "general"

// Question is a single multiple-choice item delivered to clients.
type Question struct {
	ID         string   `json:"id" yaml:"-"`
	Text       string   `json:"text" yaml:"text"`
	Options    []string `json:"options" yaml:"options"`
	Correct    int      `json:"correct" yaml:"correct"`
	Difficulty string   `json:"difficulty" yaml:"difficulty"`
	Realm      string   `json:"realm" yaml:"-"`
	Source     string   `json:"source" yaml:"-"`
}

// IdentityKey derives the cooldown identity from the text and the correct
// index as stored in the corpus. It must be computed before options move.
func IdentityKey(text string, correct int) string {
	return strconv.Itoa(correct) + ":" + text
}

func (q Question) clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// NormalizeRealm lowercases a realm name and strips a leading "r/".
func NormalizeRealm(realm string) string {
	r := strings.ToLower(strings.TrimSpace(realm))
	r = strings.TrimPrefix(r, "r/")
	return strings.TrimSpace(r)
}

// SelectionRequest asks the engine for a batch of questions.
type SelectionRequest struct {
	Realm     string
	Count     int
	SessionID string
}

// SelectionResult holds one served batch.
type SelectionResult struct {
	RequestedRealm string     `json:"requested_realm"`
	Realm          string     `json:"realm"`
	Seed           uint32     `json:"seed"`
	Questions      []Question `json:"questions"`
}

// RealmStats summarises one realm for monitoring.
type RealmStats struct {
	Realm   string `json:"realm"`
	Total   int    `json:"total"`
	Easy    int    `json:"easy"`
	Medium  int    `json:"medium"`
	Hard    int    `json:"hard"`
	Cooling int    `json:"cooling"`
}
