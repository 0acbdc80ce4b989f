package api

import (
	"net/http"

	"chemibot/backend/internal/interfaces"
)

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Text string `json:"text" validate:"required,max=4000" example:"What is an acid?"`
}

// PredictionHandler serves the question answering endpoints.
type PredictionHandler struct {
	service interfaces.PredictionService
}

func NewPredictionHandler(svc interfaces.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: svc}
}

// HandleRoot godoc
// @Summary      API banner
// @Tags         System
// @Produce      json
// @Success      200  {object}  BannerResponse
// @Router       / [get]
func (h *PredictionHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, BannerResponse{
		Status:    "Chemistry Bot API running",
		Endpoints: []string{"/health", "/predict", "/history"},
	})
}

// HandleHealth godoc
// @Summary      Liveness check
// @Description  Always succeeds without touching the model or the store.
// @Tags         System
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (h *PredictionHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleReady godoc
// @Summary      Readiness check
// @Description  Succeeds once the model is loaded and the store is connected. Never blocks.
// @Tags         System
// @Produce      json
// @Success      200  {object}  model.Readiness
// @Failure      503  {object}  model.Readiness
// @Router       /ready [get]
func (h *PredictionHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	readiness := h.service.Readiness()
	status := http.StatusOK
	if !readiness.Ready() {
		status = http.StatusServiceUnavailable
	}
	respondWithJSON(w, status, readiness)
}

// HandleWarmup godoc
// @Summary      Load the model
// @Description  Loads the model and connects the store. Safe to call repeatedly.
// @Tags         System
// @Produce      json
// @Success      200  {object}  service.WarmupResult
// @Failure      503  {object}  ErrorResponse
// @Router       /warmup [post]
func (h *PredictionHandler) HandleWarmup(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Warmup(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandlePredict godoc
// @Summary      Answer a chemistry question
// @Tags         Predictions
// @Accept       json
// @Produce      json
// @Param        query  body      PredictRequest  true  "Question"
// @Success      200    {object}  service.PredictResult
// @Failure      400    {object}  ErrorResponse
// @Failure      503    {object}  ErrorResponse
// @Router       /predict [post]
func (h *PredictionHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.service.Predict(r.Context(), req.Text)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleHistory godoc
// @Summary      Recent questions
// @Description  Returns the most recent question/answer pairs, newest first.
// @Tags         Predictions
// @Produce      json
// @Success      200  {array}  model.HistoryItem
// @Router       /history [get]
func (h *PredictionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.History(r.Context()))
}
