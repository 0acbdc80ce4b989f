package api

import (
	"fmt"
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "chemibot/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	app_errors "chemibot/backend/internal/errors"
)

// RouterOptions carries the settings the router needs from the configuration.
type RouterOptions struct {
	AllowedOrigins []string
	// GenerationTimeout bounds /predict and /warmup, which may wait on a model load.
	GenerationTimeout time.Duration
}

// NewRouter creates the chi router with all of the application's routes.
func NewRouter(predictionHandler *PredictionHandler, authHandler *AuthHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	// These are applied to every request.
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// Browser frontends call the API cross-origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(instrument) // Records request counts and latencies for /metrics.

	// Unknown paths get the same JSON error shape as every other failure.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, fmt.Errorf("%w: %s", app_errors.ErrNotFound, r.URL.Path))
	})

	// --- Public Routes ---
	// Liveness and readiness never touch the model or the store.
	r.Get("/", predictionHandler.HandleRoot)
	r.Get("/health", predictionHandler.HandleHealth)
	r.Get("/ready", predictionHandler.HandleReady)

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Group for standard JSON API routes that should have a request timeout
	// to prevent client connections from hanging indefinitely.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// --- History ---
		r.Get("/history", predictionHandler.HandleHistory)

		// --- Auth ---
		// The /api aliases serve frontends built against the prefixed paths.
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/api/signup", authHandler.HandleSignup)
		r.Post("/api/login", authHandler.HandleLogin)
	})

	// Group for model routes. A request may wait for the model to load before
	// generating, so these get the longer generation timeout.
	r.Group(func(r chi.Router) {
		generationTimeout := opts.GenerationTimeout
		if generationTimeout <= 0 {
			generationTimeout = 120 * time.Second
		}
		r.Use(middleware.Timeout(generationTimeout))

		// --- Model ---
		r.Post("/predict", predictionHandler.HandlePredict)
		r.Post("/warmup", predictionHandler.HandleWarmup)
	})

	return r
}
