package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/realm-quiz/pkg/http/errors"
)

// Selector is the engine surface the HTTP layer needs.
type Selector interface {
	Select(req SelectionRequest) (SelectionResult, error)
	Stats() []RealmStats
	ResetCooldown(realm string) string
	ResetAllCooldowns()
}

// HTTPHandler exposes session initialization and realm administration.
type HTTPHandler struct {
	selector Selector
	logger   zerolog.Logger
}

// NewHTTPHandler constructs a question HTTP handler.
func NewHTTPHandler(selector Selector, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		selector: selector,
		logger:   logger.With().Str("component", "question_http").Logger(),
	}
}

type createSessionRequest struct {
	Realm     string `json:"realm"`
	Count     int    `json:"count"`
	SessionID string `json:"session_id"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	SelectionResult
	CreatedAt string `json:"created_at"`
}

// HandleCreateSession starts a quiz session with a fresh question batch.
// Route: POST /v1/sessions
func (h *HTTPHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "request body must be JSON")
		return
	}
	if req.Count < 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "count must not be negative", "count")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := h.selector.Select(SelectionRequest{
		Realm:     req.Realm,
		Count:     req.Count,
		SessionID: req.SessionID,
	})
	if err != nil {
		if errors.Is(err, ErrCountTooLarge) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "count")
			return
		}
		if errors.Is(err, ErrEmptyCorpus) {
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeCorpusUnavailable, "no questions are loaded")
			return
		}
		h.logger.Error().Err(err).Str("realm", req.Realm).Msg("selection failed")
		httperrors.RespondInternalError(w, "selection failed")
		return
	}

	httperrors.WriteJSON(w, createSessionResponse{
		SessionID:       req.SessionID,
		SelectionResult: result,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleRealmStats reports per-realm question counts and cooldown sizes.
// Route: GET /v1/realms/stats
func (h *HTTPHandler) HandleRealmStats(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteJSON(w, map[string]any{
		"realms":       h.selector.Stats(),
		"retrieved_at": time.Now().UTC().Format(time.RFC3339),
	})
}

type resetCooldownRequest struct {
	Realm string `json:"realm"`
}

// HandleResetCooldown clears one realm's cooldown, or every realm's when no
// realm is given.
// Route: POST /v1/admin/cooldowns/reset
func (h *HTTPHandler) HandleResetCooldown(w http.ResponseWriter, r *http.Request) {
	var req resetCooldownRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "request body must be JSON")
			return
		}
	}

	realm := NormalizeRealm(req.Realm)
	if realm == "" {
		h.selector.ResetAllCooldowns()
		httperrors.WriteJSON(w, map[string]any{"reset": "all"})
		return
	}
	httperrors.WriteJSON(w, map[string]any{
		"requested_realm": realm,
		"reset":           h.selector.ResetCooldown(realm),
	})
}
