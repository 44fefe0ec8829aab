package ml

import (
	"errors"
	"testing"
)

func TestLinearRegressionFeatureMismatch(t *testing.T) {
	model, err := NewLinearRegression([]float64{1, 2}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := model.Predict([][]float64{{1, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] != 3.5 {
		t.Fatalf("expected 3.5, got %v", out[0])
	}
	if _, err := model.Predict([][]float64{{1}}); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("expected ErrFeatureMismatch, got %v", err)
	}
	if _, err := model.Predict(nil); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestPolynomialDegree(t *testing.T) {
	p, err := NewPolynomial([]float64{0, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Degree() != 1 {
		t.Fatalf("expected degree 1, got %d", p.Degree())
	}
	out, err := p.Predict([][]float64{{0.5}, {-4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] != 1 || out[1] != -8 {
		t.Fatalf("unexpected predictions: %v", out)
	}
}

func TestRegressionTreePredict(t *testing.T) {
	tree, err := NewRegressionTree([]TreeNode{
		{FeatureIdx: 0, Threshold: 5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Value: 100},
		{IsLeaf: true, Value: 250},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := tree.Predict([][]float64{{1}, {5}, {6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{100, 100, 250}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d: expected %v, got %v", i, want[i], out[i])
		}
	}

	if _, err := tree.Predict([][]float64{{}}); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("expected ErrFeatureMismatch, got %v", err)
	}
}
