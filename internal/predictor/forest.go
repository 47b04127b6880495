package predictor

import (
	"errors"
	"fmt"

	"carprice/internal/features"
)

// Ways to combine tree outputs.
const (
	AggregateMean = "mean" // random forest
	AggregateSum  = "sum"  // gradient boosting
)

// Node is one node of an exported decision tree. A leaf has Leaf set or
// both children at -1; a split sends x to Left when
// x[Feature] <= Threshold and to Right otherwise.
type Node struct {
	Feature   int     `yaml:"feature"`
	Threshold float64 `yaml:"threshold"`
	Left      int     `yaml:"left"`
	Right     int     `yaml:"right"`
	Value     float64 `yaml:"value"`
	Leaf      bool    `yaml:"leaf"`
}

func (n Node) isLeaf() bool {
	return n.Leaf || (n.Left == -1 && n.Right == -1)
}

type treeFile struct {
	Nodes []Node `yaml:"nodes"`
}

// Tree is a validated decision tree.
type Tree struct {
	nodes []Node
}

// NewTree checks that every split references a feature slot and two
// children stored after it, so evaluation always reaches a leaf.
func NewTree(nodes []Node) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	for i, n := range nodes {
		if n.isLeaf() {
			continue
		}
		if n.Feature < 0 || n.Feature >= features.Size {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, child)
			}
		}
	}
	return &Tree{nodes: nodes}, nil
}

func (t *Tree) eval(v features.Vector) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.isLeaf() {
			return n.Value
		}
		if v[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Forest is a tree ensemble.
type Forest struct {
	trees        []*Tree
	aggregate    string
	base         float64
	learningRate float64
}

// NewForest builds an ensemble. For AggregateMean the result is the mean
// of the trees; for AggregateSum it is base + learningRate * sum.
func NewForest(trees []*Tree, aggregate string, base, learningRate float64) (*Forest, error) {
	if len(trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	switch aggregate {
	case AggregateMean, AggregateSum:
	default:
		return nil, fmt.Errorf("unsupported aggregate %q", aggregate)
	}
	return &Forest{
		trees:        trees,
		aggregate:    aggregate,
		base:         base,
		learningRate: learningRate,
	}, nil
}

func newForestFromFile(s modelFile) (*Forest, error) {
	trees := make([]*Tree, 0, len(s.Trees))
	for i, ts := range s.Trees {
		t, err := NewTree(ts.Nodes)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees = append(trees, t)
	}

	aggregate := s.Aggregate
	if aggregate == "" {
		aggregate = AggregateMean
	}
	lr := 1.0
	if s.LearningRate != nil {
		lr = *s.LearningRate
	}
	return NewForest(trees, aggregate, s.Base, lr)
}

// Predict implements Predictor.
func (f *Forest) Predict(v features.Vector) (float64, error) {
	var sum float64
	for _, t := range f.trees {
		sum += t.eval(v)
	}
	if f.aggregate == AggregateMean {
		return checkFinite(sum / float64(len(f.trees)))
	}
	return checkFinite(f.base + f.learningRate*sum)
}

func (f *Forest) String() string {
	return fmt.Sprintf("forest(%d trees, %s)", len(f.trees), f.aggregate)
}
