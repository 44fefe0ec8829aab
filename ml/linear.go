package ml

import (
	"errors"
	"fmt"
)

// LinearRegression computes intercept + sum(coefficients[i] * x[i]).
type LinearRegression struct {
	coefficients []float64
	intercept    float64
}

func NewLinearRegression(coefficients []float64, intercept float64) (*LinearRegression, error) {
	if len(coefficients) == 0 {
		return nil, errors.New("linear model has no coefficients")
	}
	for i, c := range coefficients {
		if !isFinite(c) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	if !isFinite(intercept) {
		return nil, errors.New("intercept is not finite")
	}
	return &LinearRegression{
		coefficients: append([]float64(nil), coefficients...),
		intercept:    intercept,
	}, nil
}

func (m *LinearRegression) Kind() string {
	return KindLinear
}

func (m *LinearRegression) Predict(samples [][]float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	out := make([]float64, len(samples))
	for i, row := range samples {
		if len(row) != len(m.coefficients) {
			return nil, fmt.Errorf("%w: sample %d has %d features, model expects %d",
				ErrFeatureMismatch, i, len(row), len(m.coefficients))
		}
		y := m.intercept
		for j, x := range row {
			y += m.coefficients[j] * x
		}
		out[i] = y
	}
	return out, nil
}
