package question

import (
	"fmt"
	"sort"
)

// Repository is the immutable, per-realm question corpus.
// It is populated once by NewRepository and only read afterwards.
type Repository struct {
	realms   map[string][]Question
	fallback []Question
	size     int
}

// NewRepository validates every question, assigns identities and groups them by
// normalized realm. The fallback set answers realms that resolve to nothing,
// including "general". Repeated identities within a realm are kept once.
// An empty corpus is not rejected here; callers check Size.
func NewRepository(realms map[string][]Question, fallback []Question) (*Repository, error) {
	r := &Repository{realms: make(map[string][]Question, len(realms))}
	verr := &ValidationError{}
	seen := make(map[string]map[string]struct{})
	fresh := func(realm, id string) bool {
		ids, ok := seen[realm]
		if !ok {
			ids = make(map[string]struct{})
			seen[realm] = ids
		}
		if _, dup := ids[id]; dup {
			return false
		}
		ids[id] = struct{}{}
		return true
	}

	for name, qs := range realms {
		key := NormalizeRealm(name)
		if key == "" {
			verr.add("realm %q normalizes to an empty name", name)
			continue
		}
		for i, q := range qs {
			q, ok := prepare(verr, fmt.Sprintf("%s[%d]", key, i), q, key)
			if !ok || !fresh(key, q.ID) {
				continue
			}
			r.realms[key] = append(r.realms[key], q)
			r.size++
		}
	}
	for i, q := range fallback {
		q, ok := prepare(verr, fmt.Sprintf("fallback[%d]", i), q, GeneralRealm)
		if !ok || !fresh("\x00fallback", q.ID) {
			continue
		}
		r.fallback = append(r.fallback, q)
		r.size++
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return r, nil
}

func prepare(verr *ValidationError, where string, q Question, realm string) (Question, bool) {
	before := len(verr.Problems)
	validateInto(verr, where, q)
	if len(verr.Problems) > before {
		return Question{}, false
	}
	q = q.clone()
	q.ID = IdentityKey(q.Text, q.Correct)
	if q.Realm == "" {
		q.Realm = realm
	}
	if q.Source == "" {
		q.Source = SourceBuiltin
	}
	return q, true
}

// Candidates returns the questions for a realm and the realm actually used.
// The chain is realm, then "general", then the built-in fallback set.
// The returned slice is a copy; the questions inside must not be mutated.
func (r *Repository) Candidates(realm string) (string, []Question) {
	key := NormalizeRealm(realm)
	if qs := r.realms[key]; len(qs) > 0 {
		return key, append([]Question(nil), qs...)
	}
	if qs := r.realms[GeneralRealm]; len(qs) > 0 {
		return GeneralRealm, append([]Question(nil), qs...)
	}
	return GeneralRealm, append([]Question(nil), r.fallback...)
}

// Size is the number of questions across all realms and the fallback set.
func (r *Repository) Size() int {
	return r.size
}

// FallbackSize is the number of built-in fallback questions.
func (r *Repository) FallbackSize() int {
	return len(r.fallback)
}

// Realms lists the realm keys that own questions, sorted.
func (r *Repository) Realms() []string {
	names := make([]string, 0, len(r.realms))
	for name := range r.realms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats reports total and per-tier counts for every realm.
func (r *Repository) Stats() []RealmStats {
	names := r.Realms()
	out := make([]RealmStats, 0, len(names))
	for _, name := range names {
		out = append(out, countTiers(name, r.realms[name]))
	}
	return out
}

func countTiers(realm string, qs []Question) RealmStats {
	st := RealmStats{Realm: realm, Total: len(qs)}
	for _, q := range qs {
		switch q.Difficulty {
		case DifficultyEasy:
			st.Easy++
		case DifficultyMedium:
			st.Medium++
		case DifficultyHard:
			st.Hard++
		}
	}
	return st
}
