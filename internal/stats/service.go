package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/realm-quiz/internal/question"
)

// ErrInvalidResult is returned for results that cannot be recorded.
var ErrInvalidResult = errors.New("invalid game result")

// PlayerStats aggregates a player's finished sessions.
type PlayerStats struct {
	PlayerID  string         `json:"player_id"`
	Games     int            `json:"games"`
	Questions int            `json:"questions"`
	Correct   int            `json:"correct"`
	Accuracy  float64        `json:"accuracy"`
	Realms    map[string]int `json:"realms"`
}

// ResultRequest describes one finished session.
type ResultRequest struct {
	PlayerID string `json:"-"`
	Realm    string `json:"realm"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
}

// Validate checks the counters are consistent.
func (r ResultRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.PlayerID) == "":
		return fmt.Errorf("%w: player id required", ErrInvalidResult)
	case r.Total <= 0:
		return fmt.Errorf("%w: total must be positive", ErrInvalidResult)
	case r.Correct < 0 || r.Correct > r.Total:
		return fmt.Errorf("%w: correct must be between 0 and total", ErrInvalidResult)
	}
	return nil
}

// ServiceOptions configures the stats store.
type ServiceOptions struct {
	RedisKeyPrefix string
	EntryTTL       time.Duration
}

// Service keeps per-player counters in Redis hashes.
type Service struct {
	redis    *redis.Client
	logger   zerolog.Logger
	prefix   string
	entryTTL time.Duration
}

// NewService constructs a stats service instance.
func NewService(redis *redis.Client, logger zerolog.Logger, opts ServiceOptions) *Service {
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = "player"
	}
	return &Service{
		redis:    redis,
		logger:   logger.With().Str("component", "player_stats").Logger(),
		prefix:   prefix,
		entryTTL: opts.EntryTTL,
	}
}

// RecordResult folds one finished session into the player's counters.
func (s *Service) RecordResult(ctx context.Context, req ResultRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	realm := question.NormalizeRealm(req.Realm)
	if realm == "" {
		realm = question.GeneralRealm
	}

	statsKey := s.statsKey(req.PlayerID)
	realmsKey := s.realmsKey(req.PlayerID)

	pipe := s.redis.TxPipeline()
	pipe.HIncrBy(ctx, statsKey, "games", 1)
	pipe.HIncrBy(ctx, statsKey, "questions", int64(req.Total))
	pipe.HIncrBy(ctx, statsKey, "correct", int64(req.Correct))
	pipe.HIncrBy(ctx, realmsKey, realm, 1)
	if s.entryTTL > 0 {
		pipe.Expire(ctx, statsKey, s.entryTTL)
		pipe.Expire(ctx, realmsKey, s.entryTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record result for %s: %w", req.PlayerID, err)
	}

	s.logger.Debug().Str("player_id", req.PlayerID).Str("realm", realm).Msg("result recorded")
	return nil
}

// Get reads a player's counters. Unknown players have all-zero stats.
func (s *Service) Get(ctx context.Context, playerID string) (PlayerStats, error) {
	pipe := s.redis.Pipeline()
	statsCmd := pipe.HGetAll(ctx, s.statsKey(playerID))
	realmsCmd := pipe.HGetAll(ctx, s.realmsKey(playerID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return PlayerStats{}, fmt.Errorf("fetch stats for %s: %w", playerID, err)
	}
	return buildStats(playerID, statsCmd.Val(), realmsCmd.Val()), nil
}

// Ping checks the Redis connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func buildStats(playerID string, counters, realms map[string]string) PlayerStats {
	st := PlayerStats{
		PlayerID:  playerID,
		Games:     parseInt(counters["games"]),
		Questions: parseInt(counters["questions"]),
		Correct:   parseInt(counters["correct"]),
		Realms:    make(map[string]int, len(realms)),
	}
	if st.Questions > 0 {
		st.Accuracy = float64(st.Correct) / float64(st.Questions)
	}
	for realm, n := range realms {
		st.Realms[realm] = parseInt(n)
	}
	return st
}

func (s *Service) statsKey(playerID string) string {
	return fmt.Sprintf("%s:%s:stats", s.prefix, playerID)
}

func (s *Service) realmsKey(playerID string) string {
	return fmt.Sprintf("%s:%s:realms", s.prefix, playerID)
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
