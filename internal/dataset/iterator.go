package dataset

import (
	"fmt"
	"math/rand"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Iterator walks a dataset batch by batch. Next returns the next batch or an
// error when the iterator is exhausted; Reset rewinds to the first batch.
type Iterator interface {
	Next() (*DataSet, error)
	HasNext() bool
	Reset()
}

// SliceIterator serves fixed-size batches sliced out of in-memory feature
// and label arrays. The final batch may be smaller than the batch size.
type SliceIterator struct {
	batches []*DataSet
	cursor  int
}

// Compile-time check.
var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator slices features and labels into batches of batchSize rows.
// Labels may be nil.
func NewSliceIterator(features, labels *ndarray.Array, batchSize int) (*SliceIterator, error) {
	if features == nil {
		return nil, fmt.Errorf("dataset: features must not be nil")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be positive, got %d", batchSize)
	}
	n := features.Shape()[0]
	if labels != nil && labels.Shape()[0] != n {
		return nil, fmt.Errorf("dataset: features have %d examples but labels have %d",
			n, labels.Shape()[0])
	}

	var batches []*DataSet
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		f, err := sliceRows(features, start, end)
		if err != nil {
			return nil, err
		}
		var l *ndarray.Array
		if labels != nil {
			l, err = sliceRows(labels, start, end)
			if err != nil {
				return nil, err
			}
		}
		batches = append(batches, &DataSet{Features: f, Labels: l})
	}

	return &SliceIterator{batches: batches}, nil
}

// HasNext reports whether another batch remains.
func (it *SliceIterator) HasNext() bool {
	return it.cursor < len(it.batches)
}

// Next returns the next batch.
func (it *SliceIterator) Next() (*DataSet, error) {
	if !it.HasNext() {
		return nil, fmt.Errorf("dataset: iterator exhausted")
	}
	batch := it.batches[it.cursor]
	it.cursor++
	return batch, nil
}

// Reset rewinds to the first batch.
func (it *SliceIterator) Reset() {
	it.cursor = 0
}

// NewShuffledSliceIterator permutes the example rows with rng before
// batching, so batch composition differs between constructions.
func NewShuffledSliceIterator(features, labels *ndarray.Array, batchSize int, rng *rand.Rand) (*SliceIterator, error) {
	if features == nil {
		return nil, fmt.Errorf("dataset: features must not be nil")
	}
	if len(features.Shape()) != 2 {
		return nil, fmt.Errorf("dataset: expected 2D features, got shape %v", features.Shape())
	}

	n := features.Shape()[0]
	perm := rng.Perm(n)

	shuffled, err := permuteRows(features, perm)
	if err != nil {
		return nil, err
	}
	var shuffledLabels *ndarray.Array
	if labels != nil {
		shuffledLabels, err = permuteRows(labels, perm)
		if err != nil {
			return nil, err
		}
	}
	return NewSliceIterator(shuffled, shuffledLabels, batchSize)
}

func permuteRows(a *ndarray.Array, perm []int) (*ndarray.Array, error) {
	shape := a.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("dataset: expected 2D array, got shape %v", shape)
	}
	if shape[0] != len(perm) {
		return nil, fmt.Errorf("dataset: permutation length %d does not match %d rows", len(perm), shape[0])
	}
	cols := shape[1]
	src := a.AsFloat32()
	dst := make([]float32, len(src))
	for i, p := range perm {
		copy(dst[i*cols:(i+1)*cols], src[p*cols:(p+1)*cols])
	}
	return ndarray.FromSlice32(dst, shape.Clone(), a.Device())
}

// NumBatches returns the total number of batches served per pass.
func (it *SliceIterator) NumBatches() int {
	return len(it.batches)
}

// sliceRows copies rows [start, end) of a 2D array into a new array.
func sliceRows(a *ndarray.Array, start, end int) (*ndarray.Array, error) {
	shape := a.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("dataset: expected 2D array, got shape %v", shape)
	}
	cols := shape[1]
	data := a.AsFloat32()
	return ndarray.FromSlice32(
		append([]float32(nil), data[start*cols:end*cols]...),
		ndarray.Shape{end - start, cols},
		a.Device(),
	)
}
