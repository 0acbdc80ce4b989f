package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures a backend speaking the OpenAI completions API, such as a
// vLLM or text-generation-inference server hosting the merged model.
type OpenAIOptions struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

type openAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a Provider backed by an OpenAI-compatible server.
func NewOpenAIProvider(opts OpenAIOptions) Provider {
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = opts.BaseURL

	client := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		client = &copied
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = &extraBodyTransport{base: base}
	cfg.HTTPClient = client
	return &openAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
	}
}

func (p *openAIProvider) Name() string { return p.model }

func (p *openAIProvider) Load(ctx context.Context) error {
	m, err := p.client.GetModel(ctx, p.model)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrModelNotFound, p.model)
		}
		return fmt.Errorf("could not query model %s: %w", p.model, err)
	}
	slog.Info("Found model on openai-compatible server.", "model", m.ID, "owned_by", m.OwnedBy)
	return nil
}

func (p *openAIProvider) Generate(ctx context.Context, prompt string, opts DecodingOptions) (string, error) {
	// vLLM and TGI accept these sampling fields on the completions endpoint; the
	// OpenAI request type has no field for them.
	ctx = withExtraBody(ctx, map[string]any{
		"repetition_penalty": opts.RepetitionPenalty,
		"top_k":              1,
	})

	seed := greedySeed
	resp, err := p.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     p.model,
		Prompt:    prompt,
		MaxTokens: opts.MaxTokens,
		// go-openai omits a zero temperature, which servers read as their default.
		Temperature: math.SmallestNonzeroFloat32,
		N:           1,
		Seed:        &seed,
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Text, nil
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

type extraBodyKey struct{}

func withExtraBody(ctx context.Context, fields map[string]any) context.Context {
	return context.WithValue(ctx, extraBodyKey{}, fields)
}

// extraBodyTransport merges the fields stored by withExtraBody into a JSON request
// body. Fields the body already carries are left alone.
type extraBodyTransport struct {
	base http.RoundTripper
}

func (t *extraBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fields, ok := req.Context().Value(extraBodyKey{}).(map[string]any)
	if !ok || len(fields) == 0 || req.Body == nil {
		return t.base.RoundTrip(req)
	}

	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("could not read request body: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("could not decode request body: %w", err)
	}
	for key, value := range fields {
		if _, set := body[key]; !set {
			body[key] = value
		}
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("could not encode request body: %w", err)
	}

	out := req.Clone(req.Context())
	out.Body = io.NopCloser(bytes.NewReader(encoded))
	out.ContentLength = int64(len(encoded))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(encoded)), nil
	}
	return t.base.RoundTrip(out)
}
