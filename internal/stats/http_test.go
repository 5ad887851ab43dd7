package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) RecordResult(ctx context.Context, req ResultRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockStore) Get(ctx context.Context, playerID string) (PlayerStats, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(PlayerStats), args.Error(1)
}

func newMux(store Store) *http.ServeMux {
	h := NewHTTPHandler(store, zerolog.New(io.Discard))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/players/{player}/results", h.HandleRecordResult)
	mux.HandleFunc("GET /v1/players/{player}/stats", h.HandleGet)
	return mux
}

func TestHandleRecordResult(t *testing.T) {
	store := new(mockStore)
	want := ResultRequest{PlayerID: "p1", Realm: "gaming", Correct: 4, Total: 6}
	store.On("RecordResult", mock.Anything, want).Return(nil)

	rec := httptest.NewRecorder()
	body := `{"realm":"gaming","correct":4,"total":6}`
	newMux(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/players/p1/results", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestHandleRecordResultInvalid(t *testing.T) {
	store := new(mockStore)
	store.On("RecordResult", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: total must be positive", ErrInvalidResult))

	rec := httptest.NewRecorder()
	newMux(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/players/p1/results", strings.NewReader(`{"total":0}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_result", resp["error"])
}

func TestHandleRecordResultStoreFailure(t *testing.T) {
	store := new(mockStore)
	store.On("RecordResult", mock.Anything, mock.Anything).Return(assert.AnError)

	rec := httptest.NewRecorder()
	newMux(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/players/p1/results", strings.NewReader(`{"correct":1,"total":2}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleGet(t *testing.T) {
	store := new(mockStore)
	st := PlayerStats{PlayerID: "p1", Games: 2, Questions: 12, Correct: 6, Accuracy: 0.5, Realms: map[string]int{"gaming": 2}}
	store.On("Get", mock.Anything, "p1").Return(st, nil)

	rec := httptest.NewRecorder()
	newMux(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/p1/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got PlayerStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, st, got)
}

func TestHandlersWithoutStore(t *testing.T) {
	mux := newMux(nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/p1/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/players/p1/results", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
