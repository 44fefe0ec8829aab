package ml

import (
	"errors"
	"fmt"
)

// Polynomial is a single-feature model: coefficients[k] is the weight of x^k.
type Polynomial struct {
	coefficients []float64
}

func NewPolynomial(coefficients []float64) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, errors.New("polynomial model has no coefficients")
	}
	for i, c := range coefficients {
		if !isFinite(c) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	return &Polynomial{coefficients: append([]float64(nil), coefficients...)}, nil
}

func (p *Polynomial) Kind() string {
	return KindPolynomial
}

func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

func (p *Polynomial) Predict(samples [][]float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	out := make([]float64, len(samples))
	for i, row := range samples {
		if len(row) != 1 {
			return nil, fmt.Errorf("%w: sample %d has %d features, model expects 1",
				ErrFeatureMismatch, i, len(row))
		}
		out[i] = p.eval(row[0])
	}
	return out, nil
}

// Horner's scheme.
func (p *Polynomial) eval(x float64) float64 {
	y := 0.0
	for k := len(p.coefficients) - 1; k >= 0; k-- {
		y = y*x + p.coefficients[k]
	}
	return y
}
