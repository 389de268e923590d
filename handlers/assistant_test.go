package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthguide/handlers"
	"healthguide/models"
	"healthguide/routes"
	"healthguide/services/localstore"
	"healthguide/services/orchestrator"
	"healthguide/services/remote"
	"healthguide/utils"
)

func newRemote(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/session":
			_, _ = io.WriteString(w, `{"session_id":"sess-http"}`)
		case "/api/triage":
			_, _ = io.WriteString(w, `{"message":"Do you have chills?","conversation_complete":false}`)
		case "/api/medication/frequency-options":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"boom"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"not found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := newRemote(t)
	api := remote.NewClient(srv.URL, srv.Client(), nil)
	backend, err := localstore.NewBackend(localstore.StoreTypeMemory)
	require.NoError(t, err)

	registry := orchestrator.NewRegistry(func(ctx context.Context, clientID string) *orchestrator.Orchestrator {
		return orchestrator.New(ctx, clientID, orchestrator.Deps{
			API:     api,
			Backend: backend,
			Config:  orchestrator.Config{PrefillWait: time.Second},
		})
	}, time.Minute, nil)
	t.Cleanup(registry.Close)

	r := gin.New()
	routes.RegisterRoutes(r, handlers.NewHandlerBundle(handlers.NewAssistantHandler(registry)), routes.Options{})
	return r
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(utils.ClientTokenHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) models.AssistantView {
	t.Helper()
	var v models.AssistantView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestStateIssuesClientToken(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/assistant/state", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(utils.ClientTokenHeader)
	require.NotEmpty(t, token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), utils.ClientCookieName+"=")
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))

	v := decodeView(t, w)
	require.NotEmpty(t, v.Conversation.Messages)
	assert.True(t, v.ShowLocationPermission)

	require.Eventually(t, func() bool {
		w := do(r, http.MethodGet, "/api/assistant/state", token, nil)
		return decodeView(t, w).SessionID == "sess-http"
	}, time.Second, 10*time.Millisecond)

	again := do(r, http.MethodGet, "/api/assistant/state", token, nil)
	assert.Empty(t, again.Header().Get(utils.ClientTokenHeader), "a valid token is not reissued")
}

func TestInvalidTokenStartsNewBrowserSession(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/assistant/state", "not-a-jwt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(utils.ClientTokenHeader))
}

func TestStateRejectsUnknownFilter(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodGet, "/api/assistant/state?filter=spa", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat(t *testing.T) {
	r := setupRouter(t)
	token := do(r, http.MethodGet, "/api/assistant/state", "", nil).Header().Get(utils.ClientTokenHeader)

	w := do(r, http.MethodPost, "/api/assistant/chat", token, map[string]string{"message": "I have a fever"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Turn struct {
			Reply string `json:"reply"`
		} `json:"turn"`
		View models.AssistantView `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Do you have chills?", resp.Turn.Reply)
	assert.True(t, resp.View.Conversation.InputEnabled)

	w = do(r, http.MethodPost, "/api/assistant/chat", token, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemperatureRejectsBadReading(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodPost, "/api/assistant/temperature", "", map[string]any{"type": "numeric", "value": 39, "unit": "K"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var e utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "Invalid temperature reading", e.Message)
}

func TestManualLocationEmptyQuery(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodPost, "/api/assistant/location/manual", "", map[string]string{"city": " "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter city or pincode", decodeView(t, w).LocationError)
}

func TestGPSDenied(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodPost, "/api/assistant/location/gps", "", map[string]int{"error_code": 1})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Location permission denied. Please enable location access.", decodeView(t, w).LocationError)
}

func TestUnknownQuickAction(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodPost, "/api/assistant/quick-actions/teleport", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReminderRoutes(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodDelete, "/api/assistant/reminders/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/assistant/reminders/frequency-options", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var opts struct {
		Options []models.FrequencyOption `json:"options"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.NotEmpty(t, opts.Options)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
