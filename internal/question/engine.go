package question

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// EngineOptions tunes batch sizes and the cooldown window. Requests above
// MaxCount fail with ErrCountTooLarge; zero means no limit.
type EngineOptions struct {
	DefaultCount int
	MaxCount     int
	Cooldown     CooldownConfig
	Metrics      *Metrics
}

// Engine serves question batches for a realm. It owns the cooldown state;
// the repository it reads from is shared and immutable.
type Engine struct {
	repo     *Repository
	cooldown *CooldownTracker
	metrics  *Metrics
	logger   zerolog.Logger

	defaultCount int
	maxCount     int

	// mu spans filter, pick and record so concurrent batches for a realm
	// always see each other's served identities.
	mu sync.Mutex
}

// NewEngine wires a selection engine over repo.
func NewEngine(repo *Repository, opts EngineOptions, logger zerolog.Logger) *Engine {
	defaultCount := opts.DefaultCount
	if defaultCount <= 0 {
		defaultCount = 6
	}
	maxCount := opts.MaxCount
	if maxCount > 0 && maxCount < defaultCount {
		maxCount = defaultCount
	}
	cooldown := opts.Cooldown
	if cooldown.Period <= 0 {
		cooldown.Period = 3
	}
	if cooldown.BatchSize <= 0 {
		cooldown.BatchSize = defaultCount
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Engine{
		repo:         repo,
		cooldown:     NewCooldownTracker(cooldown),
		metrics:      metrics,
		logger:       logger.With().Str("component", "selection").Logger(),
		defaultCount: defaultCount,
		maxCount:     maxCount,
	}
}

// CheckReady reports why the engine cannot serve every realm, or nil.
// Without a "general" realm or fallback set, unknown realms resolve to nothing.
func (e *Engine) CheckReady() error {
	if e.repo.Size() == 0 {
		return ErrEmptyCorpus
	}
	if _, qs := e.repo.Candidates(GeneralRealm); len(qs) == 0 {
		return ErrNoFallback
	}
	return nil
}

// Ready reports whether CheckReady passes.
func (e *Engine) Ready() bool {
	return e.CheckReady() == nil
}

// Select returns up to req.Count questions for req.Realm, avoiding recently
// served questions and approximating the tier mix. Options and batch order are
// shuffled. Fewer questions come back only when the realm, after fallback,
// holds fewer. Errors are an empty corpus and a count above the limit.
func (e *Engine) Select(req SelectionRequest) (SelectionResult, error) {
	if e.repo.Size() == 0 {
		return SelectionResult{}, ErrEmptyCorpus
	}

	count := req.Count
	if count <= 0 {
		count = e.defaultCount
	}
	if e.maxCount > 0 && count > e.maxCount {
		return SelectionResult{}, fmt.Errorf("%w: %d > %d", ErrCountTooLarge, count, e.maxCount)
	}

	requested := NormalizeRealm(req.Realm)
	realm, candidates := e.repo.Candidates(requested)
	rng := unseededRand()

	e.mu.Lock()
	available, reset := e.cooldown.FilterAvailable(realm, candidates, count)
	picked, backfilled := Balance(available, count, rng)
	e.cooldown.RecordServed(realm, picked)
	e.mu.Unlock()

	for i := range picked {
		picked[i] = ShuffleOptions(picked[i], rng)
	}
	seed := SeedFromSession(req.SessionID)
	ordered := Shuffle(picked, seed)

	e.observe(requested, realm, ordered, backfilled, reset)

	return SelectionResult{
		RequestedRealm: requested,
		Realm:          realm,
		Seed:           seed,
		Questions:      ordered,
	}, nil
}

func (e *Engine) observe(requested, realm string, served []Question, backfilled int, reset bool) {
	e.metrics.Selections.WithLabelValues(realm).Inc()
	e.metrics.BatchSize.Observe(float64(len(served)))
	for _, q := range served {
		e.metrics.Served.WithLabelValues(realm, q.Difficulty).Inc()
	}
	if backfilled > 0 {
		e.metrics.Backfilled.WithLabelValues(realm).Add(float64(backfilled))
	}
	if reset {
		e.metrics.CooldownResets.WithLabelValues(realm).Inc()
		e.logger.Info().Str("realm", realm).Msg("cooldown reset: too few fresh questions")
	}
	if realm != requested {
		e.metrics.Fallbacks.WithLabelValues(realm).Inc()
	}

	e.logger.Debug().
		Str("requested_realm", requested).
		Str("realm", realm).
		Int("served", len(served)).
		Int("backfilled", backfilled).
		Msg("selection served")
}

// Stats reports per-realm corpus counts and current cooldown sizes.
func (e *Engine) Stats() []RealmStats {
	stats := e.repo.Stats()
	for i := range stats {
		stats[i].Cooling = e.cooldown.Len(stats[i].Realm)
	}
	return stats
}

// ResetCooldown clears the served history of the realm that realm resolves
// to, the same key Select records under, and returns that key.
func (e *Engine) ResetCooldown(realm string) string {
	key, _ := e.repo.Candidates(realm)
	e.cooldown.Reset(key)
	e.logger.Info().Str("requested_realm", NormalizeRealm(realm)).Str("realm", key).Msg("cooldown cleared")
	return key
}

// ResetAllCooldowns clears every realm's served history.
func (e *Engine) ResetAllCooldowns() {
	e.cooldown.ResetAll()
	e.logger.Info().Msg("all cooldowns cleared")
}
