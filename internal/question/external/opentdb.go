package external

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/realm-quiz/internal/question"
)

// maxOpenTDBAmount is the largest batch the API hands out per call.
const maxOpenTDBAmount = 50

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With().Str("component", "opentdb").Logger(),
	}
}

type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// Fetch returns raw multiple-choice records for an OpenTDB category id.
// An empty category asks for any category.
func (c *OpenTDBClient) Fetch(ctx context.Context, category string, amount int) ([]OpenTDBQuestion, error) {
	if amount <= 0 || amount > maxOpenTDBAmount {
		amount = maxOpenTDBAmount
	}
	values := url.Values{}
	values.Set("amount", fmt.Sprint(amount))
	values.Set("type", "multiple")
	if category != "" {
		values.Set("category", category)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}
	return payload.Results, nil
}

// FetchRealm imports a category as corpus questions. Records that are not
// four-option questions or fail validation are dropped.
func (c *OpenTDBClient) FetchRealm(ctx context.Context, category string, amount int) ([]question.Question, error) {
	raw, err := c.Fetch(ctx, category, amount)
	if err != nil {
		return nil, err
	}

	out := make([]question.Question, 0, len(raw))
	for _, r := range raw {
		q := convertOpenTDB(r)
		if err := question.Validate(q); err != nil {
			c.logger.Debug().Err(err).Str("category", r.Category).Msg("dropping opentdb question")
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("opentdb returned no usable questions for category %q", category)
	}
	return out, nil
}

// convertOpenTDB unescapes the HTML entities OpenTDB uses and appends the
// correct answer after the distractors.
func convertOpenTDB(r OpenTDBQuestion) question.Question {
	options := make([]string, 0, len(r.IncorrectAnswer)+1)
	for _, opt := range r.IncorrectAnswer {
		options = append(options, html.UnescapeString(opt))
	}
	options = append(options, html.UnescapeString(r.CorrectAnswer))

	return question.Question{
		Text:       html.UnescapeString(r.Question),
		Options:    options,
		Correct:    len(options) - 1,
		Difficulty: strings.ToLower(r.Difficulty),
		Source:     question.SourceOpenTDB,
	}
}
