package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/realm-quiz/internal/question"
)

// Config holds connection details for the AI generator service.
type Config struct {
	GeneratorURL string
	GeneratorKey string
	Timeout      time.Duration
}

// Generator fetches already-generated questions for a realm over HTTP.
// Prompting happens on the generator side; this client only normalizes and
// validates what comes back so it can join the corpus at startup.
type Generator struct {
	httpClient  *http.Client
	config      Config
	logger      zerolog.Logger
	generateURL string
}

func NewGenerator(cfg Config, logger zerolog.Logger) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	base := strings.TrimSuffix(cfg.GeneratorURL, "/")

	return &Generator{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config:      cfg,
		logger:      logger.With().Str("component", "ai_generator").Logger(),
		generateURL: base + "/generate",
	}
}

// GenerateRealm requests count questions for realm. Records that fail
// validation are dropped and logged; an empty usable set is an error.
func (g *Generator) GenerateRealm(ctx context.Context, realm string, count int) ([]question.Question, error) {
	if g.config.GeneratorURL == "" {
		return nil, fmt.Errorf("generator endpoint not configured")
	}

	body, err := json.Marshal(generatorRequest{
		Realm: question.NormalizeRealm(realm),
		Count: count,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.generateURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.GeneratorKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.GeneratorKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var genResp generatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("decode generator payload: %w", err)
	}

	questions := make([]question.Question, 0, len(genResp.Questions))
	for _, raw := range genResp.Questions {
		q := normalizeAIQuestion(raw)
		if err := question.Validate(q); err != nil {
			g.logger.Warn().Err(err).Str("realm", realm).Msg("dropping generated question")
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("generator returned no usable questions for %q", realm)
	}
	return questions, nil
}

func normalizeAIQuestion(q aiQuestion) question.Question {
	correct := -1
	if q.CorrectIndex != nil {
		correct = *q.CorrectIndex
	} else {
		// Older generator builds send the answer text instead of its position.
		for i, opt := range q.Options {
			if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(q.Answer)) {
				correct = i
				break
			}
		}
	}

	return question.Question{
		Text:       strings.TrimSpace(q.Prompt),
		Options:    q.Options,
		Correct:    correct,
		Difficulty: strings.ToLower(strings.TrimSpace(q.Difficulty)),
		Source:     question.SourceAI,
	}
}

type generatorRequest struct {
	Realm string `json:"realm"`
	Count int    `json:"count"`
}

type aiQuestion struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index"`
	Answer       string   `json:"answer"`
	Difficulty   string   `json:"difficulty"`
}

type generatorResponse struct {
	Questions []aiQuestion `json:"questions"`
}
