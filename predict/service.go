// Package predict turns a raw request body into a single sales prediction.
package predict

import (
	"context"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"salesforecast/metrics"
	"salesforecast/ml"
)

// Options tunes a Service. A CacheSize of zero disables result caching.
type Options struct {
	CacheSize int
}

// Service answers prediction requests against one loaded model.
// The model is shared read-only by all concurrent callers.
type Service struct {
	model  ml.Regressor
	schema *gojsonschema.Schema
	cache  *lru.Cache[float64, float64]
	logger *zap.Logger
}

func NewService(model ml.Regressor, opts Options, logger *zap.Logger) (*Service, error) {
	if model == nil {
		return nil, fmt.Errorf("predict: model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := compileRequestSchema()
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	s := &Service{
		model:  model,
		schema: schema,
		logger: logger,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[float64, float64](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create prediction cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// ModelKind names the type of the loaded model.
func (s *Service) ModelKind() string {
	return s.model.Kind()
}

// Predict validates body, runs inference on [[day]] and returns the prediction.
// Failures are *Error values carrying KindInvalidInput or KindInference.
func (s *Service) Predict(ctx context.Context, body []byte) (float64, error) {
	start := time.Now()
	prediction, err := s.predict(ctx, body)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = string(KindInference)
		if kind, ok := KindOf(err); ok {
			outcome = string(kind)
		}
	}
	metrics.PredictionsTotal.WithLabelValues(outcome).Inc()
	return prediction, err
}

func (s *Service) predict(ctx context.Context, body []byte) (float64, error) {
	day, err := parseDay(s.schema, body)
	if err != nil {
		return 0, err
	}
	return s.Infer(ctx, day)
}

// Infer runs the model on a single already-validated day value.
func (s *Service) Infer(ctx context.Context, day float64) (float64, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(day); ok {
			metrics.PredictionCacheHits.Inc()
			return v, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, inferenceFailed(fmt.Sprintf("prediction aborted: %v", err), err)
	}

	out, err := s.model.Predict([][]float64{{day}})
	if err != nil {
		return 0, inferenceFailed(err.Error(), err)
	}
	if len(out) == 0 {
		return 0, inferenceFailed("model returned no prediction", nil)
	}
	prediction := out[0]
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, inferenceFailed(fmt.Sprintf("model returned non-finite prediction %v for day %v", prediction, day), nil)
	}

	if s.cache != nil {
		s.cache.Add(day, prediction)
	}
	s.logger.Debug("prediction computed", zap.Float64("day", day), zap.Float64("prediction", prediction))
	return prediction, nil
}
