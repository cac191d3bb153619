package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftboard/internal/external"
	"driftboard/internal/types"
)

type stubBroker struct {
	session *types.VoiceSession
	err     error
	lastReq external.SessionRequest
}

func (b *stubBroker) CreateSession(_ context.Context, req external.SessionRequest) (*types.VoiceSession, error) {
	b.lastReq = req
	return b.session, b.err
}

func newVoiceRouter(broker *stubBroker) *chi.Mux {
	h := &VoiceHandler{Broker: broker}
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func TestVoiceHandler_CreateSession(t *testing.T) {
	broker := &stubBroker{session: &types.VoiceSession{
		ClientSecret: json.RawMessage(`{"value":"ephemeral-key"}`),
	}}
	r := newVoiceRouter(broker)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/voice/session", nil))

	require.Equal(t, http.StatusCreated, w.Code)

	var session types.VoiceSession
	require.NoError(t, json.NewDecoder(w.Body).Decode(&session))
	assert.JSONEq(t, `{"value":"ephemeral-key"}`, string(session.ClientSecret))
}

func TestVoiceHandler_BodyOverrides(t *testing.T) {
	broker := &stubBroker{session: &types.VoiceSession{}}
	r := newVoiceRouter(broker)

	body := `{"voice":"alloy","instructions":"Answer in haiku."}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/voice/session", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alloy", broker.lastReq.Voice)
	assert.Equal(t, "Answer in haiku.", broker.lastReq.Instructions)
}

func TestVoiceHandler_MalformedBody(t *testing.T) {
	r := newVoiceRouter(&stubBroker{session: &types.VoiceSession{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/voice/session", strings.NewReader(`{oops`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoiceHandler_MissingCredential(t *testing.T) {
	broker := &stubBroker{err: types.NewAppError(
		types.ErrCodeConfigMissingCredential,
		"voice API key not configured",
		nil,
	)}
	r := newVoiceRouter(broker)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/voice/session", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), string(types.ErrCodeConfigMissingCredential))
}

func TestVoiceHandler_UpstreamFailure(t *testing.T) {
	broker := &stubBroker{err: types.NewAppError(
		types.ErrCodeUpstreamVoice,
		"voice session API error: 503",
		nil,
	)}
	r := newVoiceRouter(broker)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/voice/session", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
