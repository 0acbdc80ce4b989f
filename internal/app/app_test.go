package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chemibot/backend/internal/config"
)

// newOllamaServer fakes the endpoints the Ollama backend uses and counts requests.
func newOllamaServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/show":
			_, _ = w.Write([]byte(`{"details":{"family":"t5"}}`))
		case "/api/generate":
			response := ""
			if prompt, _ := body["prompt"].(string); prompt != "" {
				response = "<pad> Answer to " + prompt + "</s>"
			}
			payload, _ := json.Marshal(map[string]any{"model": "chemibot", "response": response, "done": true})
			_, _ = w.Write(append(payload, '\n'))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, ollamaURL string) *config.Config {
	return &config.Config{
		LogLevel:          "DEBUG",
		StoreDriver:       config.StoreSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "chemibot.db"),
		InferenceBackend:  config.BackendOllama,
		OllamaURL:         ollamaURL,
		ModelName:         "chemibot",
		MaxInputWords:     384,
		MaxOutputTokens:   128,
		RepetitionPenalty: 1.3,
		NoRepeatNgramSize: 3,
		GenerationTimeout: 10 * time.Second,
		HistoryLimit:      10,
		CacheTTL:          time.Hour,
	}
}

func newTestApp(t *testing.T) (*App, *atomic.Int32) {
	calls := &atomic.Int32{}
	server := newOllamaServer(t, calls)

	app, err := NewApp(testConfig(t, server.URL))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, calls
}

func request(t *testing.T, app *App, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestNewApp(t *testing.T) {
	app, calls := newTestApp(t)

	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Engine)
	assert.False(t, app.Repository.Connected())

	rr := request(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, calls.Load(), "health must not reach the model backend")
	assert.False(t, app.Engine.Loaded())
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.InferenceBackend = "tgi"

	_, err := NewApp(cfg)
	assert.Error(t, err)
}

func TestApp_PredictAndHistory(t *testing.T) {
	app, _ := newTestApp(t)

	rr := request(t, app, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	for i := 0; i < 12; i++ {
		rr := request(t, app, http.MethodPost, "/predict", `{"text":"question `+string(rune('a'+i))+`"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		// Records must have distinct times for the ordering check below.
		time.Sleep(2 * time.Millisecond)
	}

	rr = request(t, app, http.MethodPost, "/predict", `{"text":"What is an acid?"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"output":"Answer to What is an acid?"}`, rr.Body.String())

	rr = request(t, app, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var history []map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 10)
	assert.Equal(t, "What is an acid?", history[0]["input"])
	assert.Equal(t, "question l", history[1]["input"])
	assert.NotContains(t, rr.Body.String(), `"id"`)

	rr = request(t, app, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestApp_Warmup(t *testing.T) {
	app, _ := newTestApp(t)

	rr := request(t, app, http.MethodPost, "/warmup", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","model_loaded":true,"store_connected":true}`, rr.Body.String())
	assert.True(t, app.Engine.Loaded())
}

func TestApp_HealthAndReadyAnswerDuringModelLoad(t *testing.T) {
	loading := make(chan struct{})
	release := make(chan struct{})
	var loadingOnce, releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/show":
		case "/api/generate":
			_, _ = w.Write([]byte(`{"model":"chemibot","response":"","done":true}` + "\n"))
			return
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		loadingOnce.Do(func() { close(loading) })
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(`{"details":{"family":"t5"}}`))
	}))
	t.Cleanup(server.Close)
	t.Cleanup(unblock)

	app, err := NewApp(testConfig(t, server.URL))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	warmup := make(chan *httptest.ResponseRecorder, 1)
	go func() { warmup <- request(t, app, http.MethodPost, "/warmup", "") }()

	select {
	case <-loading:
	case <-time.After(5 * time.Second):
		t.Fatal("model load did not start")
	}

	start := time.Now()
	rr := request(t, app, http.MethodGet, "/health", "")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, http.StatusOK, rr.Code)

	start = time.Now()
	rr = request(t, app, http.MethodGet, "/ready", "")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var readiness map[string]bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &readiness))
	assert.False(t, readiness["model_loaded"])

	unblock()
	select {
	case rr := <-warmup:
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	case <-time.After(5 * time.Second):
		t.Fatal("warmup did not finish after the load was released")
	}

	rr = request(t, app, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestApp_Auth(t *testing.T) {
	app, _ := newTestApp(t)
	creds := `{"email":"student@example.com","password":"s3cret"}`

	rr := request(t, app, http.MethodPost, "/signup", creds)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = request(t, app, http.MethodPost, "/api/signup", creds)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, app, http.MethodPost, "/login", creds)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"msg":"Login success","email":"student@example.com"}`, rr.Body.String())

	wrongPassword := request(t, app, http.MethodPost, "/login", `{"email":"student@example.com","password":"nope"}`)
	unknownUser := request(t, app, http.MethodPost, "/api/login", `{"email":"ghost@example.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestApp_ServeShutsDownOnCancel(t *testing.T) {
	calls := &atomic.Int32{}
	server := newOllamaServer(t, calls)
	cfg := testConfig(t, server.URL)
	cfg.WarmupOnStart = true

	app, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()

	require.Eventually(t, app.Engine.Loaded, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
