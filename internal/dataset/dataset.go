// Package dataset provides the feature/label batch container and the
// iterators that feed batches into training and evaluation loops.
package dataset

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
)

// DataSet is one batch of training or evaluation data. Features and Labels
// are [batch, dim] arrays; the masks are optional and, when present, have
// one row per example.
type DataSet struct {
	Features *ndarray.Array
	Labels   *ndarray.Array

	// Optional per-example masks for variable-length inputs.
	FeaturesMask *ndarray.Array
	LabelsMask   *ndarray.Array
}

// New builds a dataset from feature and label arrays. Labels may be nil for
// unlabeled data. When both are present their leading dimensions must agree.
func New(features, labels *ndarray.Array) (*DataSet, error) {
	if features == nil {
		return nil, fmt.Errorf("dataset: features must not be nil")
	}
	if labels != nil && features.Shape()[0] != labels.Shape()[0] {
		return nil, fmt.Errorf("dataset: features have %d examples but labels have %d",
			features.Shape()[0], labels.Shape()[0])
	}
	return &DataSet{Features: features, Labels: labels}, nil
}

// NumExamples returns the number of examples in the batch.
func (d *DataSet) NumExamples() int {
	if d.Features == nil {
		return 0
	}
	return d.Features.Shape()[0]
}
