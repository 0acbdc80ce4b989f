package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaOptions configures the Ollama backend.
type OllamaOptions struct {
	BaseURL   string
	Model     string
	BaseModel string
	// PullMissing pulls the model from the registry when the server does not have it.
	PullMissing bool
	HTTPClient  *http.Client
}

type ollamaProvider struct {
	client      *api.Client
	model       string
	baseModel   string
	pullMissing bool
}

// NewOllamaProvider creates a Provider backed by an Ollama server.
func NewOllamaProvider(opts OllamaOptions) (Provider, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(opts.BaseURL, "/"), "/v1")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", opts.BaseURL, err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ollamaProvider{
		client:      api.NewClient(parsed, httpClient),
		model:       opts.Model,
		baseModel:   opts.BaseModel,
		pullMissing: opts.PullMissing,
	}, nil
}

func (p *ollamaProvider) Name() string { return p.model }

// Load verifies the model exists (pulling it if allowed) and pins it in memory.
func (p *ollamaProvider) Load(ctx context.Context) error {
	info, err := p.client.Show(ctx, &api.ShowRequest{Model: p.model})
	switch {
	case err == nil:
		slog.Info("Found model on ollama server.", "model", p.model, "family", info.Details.Family,
			"parent_model", info.Details.ParentModel, "base_model", p.baseModel)
	case isNotFound(err) && p.pullMissing:
		slog.Info("Model missing on ollama server, pulling.", "model", p.model)
		if err := p.pull(ctx); err != nil {
			return err
		}
	case isNotFound(err):
		return fmt.Errorf("%w: %s", ErrModelNotFound, p.model)
	default:
		return fmt.Errorf("could not query ollama for model %s: %w", p.model, err)
	}

	// An empty prompt only loads the weights; a negative keep-alive keeps them resident.
	stream := false
	req := &api.GenerateRequest{
		Model:     p.model,
		Stream:    &stream,
		KeepAlive: &api.Duration{Duration: -1},
	}
	if err := p.client.Generate(ctx, req, func(api.GenerateResponse) error { return nil }); err != nil {
		return fmt.Errorf("could not preload model %s: %w", p.model, err)
	}
	return nil
}

func (p *ollamaProvider) pull(ctx context.Context) error {
	last := time.Now()
	err := p.client.Pull(ctx, &api.PullRequest{Model: p.model}, func(resp api.ProgressResponse) error {
		if time.Since(last) > 5*time.Second {
			slog.Info("Pulling model.", "model", p.model, "status", resp.Status,
				"completed", resp.Completed, "total", resp.Total)
			last = time.Now()
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, p.model)
		}
		return fmt.Errorf("could not pull model %s: %w", p.model, err)
	}
	return nil
}

func (p *ollamaProvider) Generate(ctx context.Context, prompt string, opts DecodingOptions) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:     p.model,
		Prompt:    prompt,
		Stream:    &stream,
		KeepAlive: &api.Duration{Duration: -1},
		Options: map[string]any{
			"num_predict":    opts.MaxTokens,
			"repeat_penalty": opts.RepetitionPenalty,
			"temperature":    0,
			"top_k":          1,
			"seed":           greedySeed,
		},
	}

	var out strings.Builder
	err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate failed: %w", err)
	}
	return out.String(), nil
}

func isNotFound(err error) bool {
	var statusErr api.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
