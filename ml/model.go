package ml

import (
	"errors"
	"math"
)

const (
	KindLinear         = "linear"
	KindPolynomial     = "polynomial"
	KindRegressionTree = "regression_tree"
)

var (
	ErrNoSamples       = errors.New("no samples to predict")
	ErrFeatureMismatch = errors.New("feature count mismatch")
)

// Regressor maps each feature row to one continuous output.
// Implementations are immutable after construction and safe for concurrent use.
type Regressor interface {
	Predict(samples [][]float64) ([]float64, error)
	Kind() string
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
