package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/realm-quiz/pkg/http/errors"
)

// Store is the persistence surface used by the HTTP handler.
type Store interface {
	RecordResult(ctx context.Context, req ResultRequest) error
	Get(ctx context.Context, playerID string) (PlayerStats, error)
}

// HTTPHandler exposes player stats endpoints. A nil store answers 503.
type HTTPHandler struct {
	store  Store
	logger zerolog.Logger
}

// NewHTTPHandler constructs a stats HTTP handler.
func NewHTTPHandler(store Store, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		store:  store,
		logger: logger.With().Str("component", "stats_http").Logger(),
	}
}

// HandleRecordResult stores a finished session.
// Route: POST /v1/players/{player}/results
func (h *HTTPHandler) HandleRecordResult(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeStatsUnavailable, "player stats are not configured")
		return
	}

	var req ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "request body must be JSON")
		return
	}
	req.PlayerID = strings.TrimSpace(r.PathValue("player"))

	if err := h.store.RecordResult(r.Context(), req); err != nil {
		if errors.Is(err, ErrInvalidResult) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidResult, err.Error())
			return
		}
		h.logger.Error().Err(err).Str("player_id", req.PlayerID).Msg("record result failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeRecordFailed, "failed to record result")
		return
	}
	httperrors.WriteJSON(w, map[string]any{"recorded": true})
}

// HandleGet returns a player's counters.
// Route: GET /v1/players/{player}/stats
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeStatsUnavailable, "player stats are not configured")
		return
	}

	playerID := strings.TrimSpace(r.PathValue("player"))
	if playerID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "player id required", "player")
		return
	}

	st, err := h.store.Get(r.Context(), playerID)
	if err != nil {
		h.logger.Warn().Err(err).Str("player_id", playerID).Msg("stats fetch failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeStatsFetchFailed, "failed to fetch stats")
		return
	}
	httperrors.WriteJSON(w, st)
}
