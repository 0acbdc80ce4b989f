package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chemibot/backend/internal/api"
	"chemibot/backend/internal/inference"
	"chemibot/backend/internal/interfaces/mocks"
	"chemibot/backend/internal/model"
	"chemibot/backend/internal/service"
)

func setupRouter(t *testing.T) (*chi.Mux, *mocks.MockPredictionService, *mocks.MockAuthService) {
	predictions := mocks.NewMockPredictionService(t)
	auth := mocks.NewMockAuthService(t)
	router := api.NewRouter(api.NewPredictionHandler(predictions), api.NewAuthHandler(auth), api.RouterOptions{
		AllowedOrigins:    []string{"https://chemibot.netlify.app"},
		GenerationTimeout: 5 * time.Second,
	})
	return router, predictions, auth
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestSystemRoutes(t *testing.T) {
	t.Run("Health never touches the services", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rr := do(router, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("Root banner", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rr := do(router, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "/predict")
	})

	t.Run("Ready", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Readiness").Return(model.Readiness{ModelLoaded: true, StoreConnected: true}).Once()

		rr := do(router, http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"model_loaded":true,"store_connected":true}`, rr.Body.String())
	})

	t.Run("Not ready", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Readiness").Return(model.Readiness{ModelLoaded: false, StoreConnected: true}).Once()

		rr := do(router, http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		router, _, _ := setupRouter(t)
		do(router, http.MethodGet, "/health", "")

		rr := do(router, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "chemibot_http_requests_total")
	})
}

func TestUnknownRoute(t *testing.T) {
	router, _, _ := setupRouter(t)

	rr := do(router, http.MethodGet, "/api/v1/answers", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "The requested resource was not found.", decodeDetail(t, rr))
	assert.NotContains(t, rr.Body.String(), "/api/v1/answers")
}

func TestPredictionHandler_Predict(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Predict", mock.Anything, "What is an acid?").
			Return(&service.PredictResult{Output: "A proton donor."}, nil).Once()

		rr := do(router, http.MethodPost, "/predict", `{"text":"What is an acid?"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"output":"A proton donor."}`, rr.Body.String())
	})

	t.Run("Degraded persistence is reported", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Predict", mock.Anything, "What is an acid?").
			Return(&service.PredictResult{Output: "A proton donor.", Degraded: true}, nil).Once()

		rr := do(router, http.MethodPost, "/predict", `{"text":"What is an acid?"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"output":"A proton donor.","degraded":true}`, rr.Body.String())
	})

	t.Run("Missing text", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rr := do(router, http.MethodPost, "/predict", `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeDetail(t, rr), "Field 'text' failed on the 'required' tag")
	})

	t.Run("Malformed body", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rr := do(router, http.MethodPost, "/predict", `{"text":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Model unavailable", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Predict", mock.Anything, "What is an acid?").
			Return(nil, inference.ErrModelUnavailable).Once()

		rr := do(router, http.MethodPost, "/predict", `{"text":"What is an acid?"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "Model is busy or loading. Please retry.", decodeDetail(t, rr))
	})

	t.Run("Unexpected error hides details", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Predict", mock.Anything, "q").Return(nil, errors.New("secret internals")).Once()

		rr := do(router, http.MethodPost, "/predict", `{"text":"q"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret internals")
	})
}

func TestPredictionHandler_History(t *testing.T) {
	router, predictions, _ := setupRouter(t)
	predictions.On("History", mock.Anything).Return([]model.HistoryItem{
		{Input: "q2", Output: "a2"},
		{Input: "q1", Output: "a1"},
	}).Once()

	rr := do(router, http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"input":"q2","output":"a2"},{"input":"q1","output":"a1"}]`, rr.Body.String())
}

func TestPredictionHandler_Warmup(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Warmup", mock.Anything).
			Return(&service.WarmupResult{Status: "ready", ModelLoaded: true, StoreConnected: true}, nil).Once()

		rr := do(router, http.MethodPost, "/warmup", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ready","model_loaded":true,"store_connected":true}`, rr.Body.String())
	})

	t.Run("Model failure", func(t *testing.T) {
		router, predictions, _ := setupRouter(t)
		predictions.On("Warmup", mock.Anything).Return(nil, inference.ErrModelUnavailable).Once()

		rr := do(router, http.MethodPost, "/warmup", "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestCORS(t *testing.T) {
	router, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "https://chemibot.netlify.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "https://chemibot.netlify.app", rr.Header().Get("Access-Control-Allow-Origin"))
}
