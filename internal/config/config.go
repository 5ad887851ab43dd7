package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"realm-quiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Redis     Redis
	Selection Selection
	AI        AI
	OpenTDB   OpenTDB
}

// Redis holds the player stats store connection. An empty address disables stats.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	StatsTTL time.Duration `env:"PLAYER_STATS_TTL" envDefault:"0s"`
}

// Enabled reports whether a Redis address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Selection groups gameplay defaults for question batches.
type Selection struct {
	QuestionsPerSession    int    `env:"QUESTIONS_PER_SESSION" envDefault:"6"`
	MaxQuestionsPerSession int    `env:"MAX_QUESTIONS_PER_SESSION" envDefault:"20"`
	CooldownPeriod         int    `env:"COOLDOWN_PERIOD" envDefault:"3"`
	CorpusPath             string `env:"CORPUS_PATH"`
}

// AI configures the optional startup import of generated questions.
type AI struct {
	GeneratorURL      string        `env:"AI_GENERATOR_URL"`
	GeneratorKey      string        `env:"AI_GENERATOR_API_KEY"`
	HTTPTimeout       time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"6s"`
	Realms            []string      `env:"AI_REALMS" envSeparator:","`
	QuestionsPerRealm int           `env:"AI_QUESTIONS_PER_REALM" envDefault:"12"`
}

// Enabled reports whether generated questions should be imported.
func (a AI) Enabled() bool {
	return a.GeneratorURL != "" && len(a.Realms) > 0
}

// OpenTDB configures the optional startup import from the Open Trivia DB.
// Realms maps a realm name to an OpenTDB category id, e.g. "gaming:15,science:17".
type OpenTDB struct {
	BaseURL           string            `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	Realms            map[string]string `env:"OPENTDB_REALMS" envSeparator:"," envKeyValSeparator:":"`
	QuestionsPerRealm int               `env:"OPENTDB_QUESTIONS_PER_REALM" envDefault:"20"`
	HTTPTimeout       time.Duration     `env:"OPENTDB_HTTP_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether any realm is mapped to an OpenTDB category.
func (o OpenTDB) Enabled() bool {
	return len(o.Realms) > 0
}

// Load parses environment variables into App config.
func Load() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	s := c.Selection
	switch {
	case s.QuestionsPerSession <= 0:
		return fmt.Errorf("QUESTIONS_PER_SESSION must be positive, got %d", s.QuestionsPerSession)
	case s.MaxQuestionsPerSession < s.QuestionsPerSession:
		return fmt.Errorf("MAX_QUESTIONS_PER_SESSION (%d) must be at least QUESTIONS_PER_SESSION (%d)", s.MaxQuestionsPerSession, s.QuestionsPerSession)
	case s.CooldownPeriod <= 0:
		return fmt.Errorf("COOLDOWN_PERIOD must be positive, got %d", s.CooldownPeriod)
	}
	return nil
}
