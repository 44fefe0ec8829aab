package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"salesforecast/predict"
)

// Predictor produces one prediction from a raw request body.
type Predictor interface {
	Predict(ctx context.Context, body []byte) (float64, error)
	ModelKind() string
}

type PredictionResponse struct {
	Prediction float64 `json:"prediction"`
	Success    bool    `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

type Handler struct {
	predictor Predictor
	logger    *zap.Logger
}

func NewHandler(predictor Predictor, logger *zap.Logger) *Handler {
	return &Handler{predictor: predictor, logger: logger}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.handlePredict)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("read request body: %v", err))
		return
	}

	prediction, err := h.predictor.Predict(r.Context(), body)
	if err != nil {
		h.respondError(w, r, statusFor(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, PredictionResponse{Prediction: prediction, Success: true})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Model: h.predictor.ModelKind()})
}

// statusFor maps a prediction failure to a status: bad input is the client's fault, the rest is ours.
func statusFor(err error) int {
	if kind, ok := predict.KindOf(err); ok && kind == predict.KindInvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	fields := []zap.Field{
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", message),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("prediction failed", fields...)
	} else {
		h.logger.Warn("prediction request rejected", fields...)
	}
	h.respondJSON(w, status, ErrorResponse{Error: message, Success: false})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	if err := writeJSON(w, status, data); err != nil {
		h.logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
