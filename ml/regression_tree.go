package ml

import (
	"errors"
	"fmt"
)

// RegressionTree is a binary tree stored as a flat node slice with the root at index 0.
type RegressionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

func NewRegressionTree(nodes []TreeNode) (*RegressionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("regression tree has no nodes")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			if !isFinite(node.Value) {
				return nil, fmt.Errorf("leaf %d value is not finite", i)
			}
			continue
		}
		if node.FeatureIdx < 0 {
			return nil, fmt.Errorf("node %d has negative feature index", i)
		}
		if !isFinite(node.Threshold) {
			return nil, fmt.Errorf("node %d threshold is not finite", i)
		}
		// Children always follow their parent, so traversal terminates.
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(nodes) {
				return nil, fmt.Errorf("node %d has invalid child index %d", i, child)
			}
		}
	}
	return &RegressionTree{nodes: append([]TreeNode(nil), nodes...)}, nil
}

func (dt *RegressionTree) Kind() string {
	return KindRegressionTree
}

func (dt *RegressionTree) Predict(samples [][]float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	out := make([]float64, len(samples))
	for i, row := range samples {
		value, err := dt.predictOne(row)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = value
	}
	return out, nil
}

func (dt *RegressionTree) predictOne(features []float64) (float64, error) {
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx >= len(features) {
			return 0, fmt.Errorf("%w: feature index %d out of range", ErrFeatureMismatch, node.FeatureIdx)
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}
