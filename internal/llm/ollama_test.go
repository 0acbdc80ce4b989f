package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama stands in for the Ollama HTTP API. It serves one known model and records
// the generate requests it receives.
type fakeOllama struct {
	mu        sync.Mutex
	known     string
	pulled    bool
	generates []map[string]any
}

func (f *fakeOllama) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		f.mu.Lock()
		defer f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/show":
			if body["model"] != f.known && !f.pulled {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"model not found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"details":{"family":"t5","parent_model":"flan-t5-base"}}`))
		case "/api/pull":
			f.pulled = true
			w.Header().Set("Content-Type", "application/x-ndjson")
			_, _ = w.Write([]byte("{\"status\":\"pulling manifest\"}\n{\"status\":\"success\"}\n"))
		case "/api/generate":
			f.generates = append(f.generates, body)
			resp := `{"model":"chemibot","response":"","done":true}`
			if body["prompt"] != nil && body["prompt"] != "" {
				resp = `{"model":"chemibot","response":"An acid donates protons .","done":true}`
			}
			_, _ = w.Write([]byte(resp + "\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestOllamaProvider(t *testing.T) {
	fake := &fakeOllama{known: "chemibot"}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	ctx := context.Background()

	t.Run("Load pins the model", func(t *testing.T) {
		provider, err := NewOllamaProvider(OllamaOptions{BaseURL: server.URL, Model: "chemibot"})
		require.NoError(t, err)

		require.NoError(t, provider.Load(ctx))

		fake.mu.Lock()
		defer fake.mu.Unlock()
		require.NotEmpty(t, fake.generates)
		preload := fake.generates[len(fake.generates)-1]
		assert.Equal(t, "chemibot", preload["model"])
		assert.Empty(t, preload["prompt"])
		assert.NotNil(t, preload["keep_alive"])
	})

	t.Run("Generate sends fixed decoding options", func(t *testing.T) {
		provider, err := NewOllamaProvider(OllamaOptions{BaseURL: server.URL + "/v1/", Model: "chemibot"})
		require.NoError(t, err)

		out, err := provider.Generate(ctx, "What is an acid?", DecodingOptions{MaxTokens: 128, RepetitionPenalty: 1.3})
		require.NoError(t, err)
		assert.Equal(t, "An acid donates protons .", out)

		fake.mu.Lock()
		defer fake.mu.Unlock()
		last := fake.generates[len(fake.generates)-1]
		assert.Equal(t, "What is an acid?", last["prompt"])
		assert.Equal(t, false, last["stream"])
		opts, ok := last["options"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 128, opts["num_predict"])
		assert.EqualValues(t, 1.3, opts["repeat_penalty"])
		assert.EqualValues(t, 0, opts["temperature"])
		assert.EqualValues(t, 1, opts["top_k"])
	})

	t.Run("Load reports a missing model", func(t *testing.T) {
		provider, err := NewOllamaProvider(OllamaOptions{BaseURL: server.URL, Model: "unknown"})
		require.NoError(t, err)

		err = provider.Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelNotFound))
	})

	t.Run("Load pulls a missing model when allowed", func(t *testing.T) {
		provider, err := NewOllamaProvider(OllamaOptions{BaseURL: server.URL, Model: "other", PullMissing: true})
		require.NoError(t, err)

		require.NoError(t, provider.Load(ctx))

		fake.mu.Lock()
		defer fake.mu.Unlock()
		assert.True(t, fake.pulled)
	})
}

func TestOllamaProvider_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider, err := NewOllamaProvider(OllamaOptions{BaseURL: url, Model: "chemibot"})
	require.NoError(t, err)

	err = provider.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrModelNotFound))
}
