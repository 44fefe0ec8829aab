package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"salesforecast/ml"
	"salesforecast/predict"
)

type fakePredictor struct {
	prediction float64
	err        error
	panicMsg   string
}

func (f *fakePredictor) Predict(ctx context.Context, body []byte) (float64, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.prediction, f.err
}

func (f *fakePredictor) ModelKind() string {
	return "fake"
}

// newDoublingService returns a service whose model predicts 2*day.
func newDoublingService(t *testing.T) *predict.Service {
	t.Helper()
	model, err := ml.NewLinearRegression([]float64{2}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc, err := predict.NewService(model, predict.Options{CacheSize: 16}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func newTestServer(t *testing.T, predictor Predictor) *Server {
	t.Helper()
	return NewServer(DefaultServerConfig(), predictor, zaptest.NewLogger(t))
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return payload
}

func TestHandlePredictSuccess(t *testing.T) {
	server := newTestServer(t, newDoublingService(t))

	cases := []struct {
		body string
		want float64
	}{
		{body: `{"day": 10}`, want: 20},
		{body: `{"day": -3}`, want: -6},
		{body: `{"day": 2.5}`, want: 5},
	}
	for _, tc := range cases {
		w := doRequest(server.Handler(), http.MethodPost, "/predict", tc.body)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", tc.body, w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		payload := decodeBody(t, w)
		if payload["success"] != true {
			t.Fatalf("expected success true, got %v", payload["success"])
		}
		prediction, ok := payload["prediction"].(float64)
		if !ok {
			t.Fatalf("prediction is not numeric: %v", payload["prediction"])
		}
		if prediction != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.body, tc.want, prediction)
		}
	}
}

func TestHandlePredictIdenticalRequests(t *testing.T) {
	server := newTestServer(t, newDoublingService(t))

	first := decodeBody(t, doRequest(server.Handler(), http.MethodPost, "/predict", `{"day": 7}`))
	second := decodeBody(t, doRequest(server.Handler(), http.MethodPost, "/predict", `{"day": 7}`))
	if first["prediction"] != second["prediction"] {
		t.Fatalf("expected identical predictions, got %v and %v", first["prediction"], second["prediction"])
	}
}

func TestHandlePredictInvalidInput(t *testing.T) {
	server := newTestServer(t, newDoublingService(t))

	bodies := []string{
		``,
		`{}`,
		`{"day": "Monday"}`,
		`{"day": true}`,
		`{"day": null}`,
		`{"day": `,
		`not json`,
	}
	for _, body := range bodies {
		w := doRequest(server.Handler(), http.MethodPost, "/predict", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", body, w.Code)
		}
		payload := decodeBody(t, w)
		if payload["success"] != false {
			t.Fatalf("%q: expected success false, got %v", body, payload["success"])
		}
		if msg, _ := payload["error"].(string); msg == "" {
			t.Fatalf("%q: expected error message", body)
		}
		if _, ok := payload["prediction"]; ok {
			t.Fatalf("%q: error response must not carry a prediction", body)
		}
	}
}

func TestHandlePredictInferenceError(t *testing.T) {
	predictor := &fakePredictor{err: &predict.Error{Kind: predict.KindInference, Message: "model exploded"}}
	server := newTestServer(t, predictor)

	w := doRequest(server.Handler(), http.MethodPost, "/predict", `{"day": 1}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	payload := decodeBody(t, w)
	if payload["error"] != "model exploded" || payload["success"] != false {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestHandlePredictUnclassifiedError(t *testing.T) {
	server := newTestServer(t, &fakePredictor{err: errors.New("boom")})

	w := doRequest(server.Handler(), http.MethodPost, "/predict", `{"day": 1}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestHandlePredictBodyTooLarge(t *testing.T) {
	config := DefaultServerConfig()
	config.MaxBodyBytes = 16
	server := NewServer(config, newDoublingService(t), zaptest.NewLogger(t))

	w := doRequest(server.Handler(), http.MethodPost, "/predict", `{"day": 1, "padding": "xxxxxxxxxxxxxxxx"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	if decodeBody(t, w)["success"] != false {
		t.Fatal("expected success false")
	}
}

func TestHandlePredictWrongMethod(t *testing.T) {
	server := newTestServer(t, newDoublingService(t))

	w := doRequest(server.Handler(), http.MethodGet, "/predict", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	server := newTestServer(t, &fakePredictor{panicMsg: "nil model"})

	w := doRequest(server.Handler(), http.MethodPost, "/predict", `{"day": 1}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if decodeBody(t, w)["success"] != false {
		t.Fatal("expected success false")
	}

	// The server keeps serving after a recovered panic.
	w = doRequest(server.Handler(), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after recovery, got %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	server := newTestServer(t, newDoublingService(t))

	w := doRequest(server.Handler(), http.MethodGet, "/health", "")
	if status := w.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	expected := `{"status":"ok","model":"linear"}`
	if w.Body.String() != expected+"\n" {
		t.Errorf("handler returned unexpected body: got %v want %v", w.Body.String(), expected)
	}
}

func TestMetricsHandler(t *testing.T) {
	server := newTestServer(t, newDoublingService(t))
	doRequest(server.Handler(), http.MethodPost, "/predict", `{"day": 3}`)

	w := doRequest(server.Handler(), http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `predictions_total{outcome="success"}`) {
		t.Fatalf("metrics output missing predictions_total")
	}
}
