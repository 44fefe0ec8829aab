package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrUnsupportedModel = errors.New("unsupported model type")

// artifact is the on-disk envelope. Only the fields of the named type are read.
type artifact struct {
	Type         string     `json:"type"`
	Coefficients []float64  `json:"coefficients"`
	Intercept    float64    `json:"intercept"`
	Nodes        []TreeNode `json:"nodes"`
}

// LoadModel reads a serialized model from path.
func LoadModel(path string) (Regressor, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	model, err := ParseModel(payload)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return model, nil
}

func ParseModel(payload []byte) (Regressor, error) {
	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	switch a.Type {
	case KindLinear:
		return NewLinearRegression(a.Coefficients, a.Intercept)
	case KindPolynomial:
		return NewPolynomial(a.Coefficients)
	case KindRegressionTree:
		return NewRegressionTree(a.Nodes)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, a.Type)
	}
}
