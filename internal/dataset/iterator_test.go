package dataset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-ml/strata/internal/ndarray"
)

func mustArray(t *testing.T, data []float32, shape ndarray.Shape) *ndarray.Array {
	t.Helper()
	a, err := ndarray.FromSlice32(data, shape, ndarray.CPU)
	require.NoError(t, err)
	return a
}

func TestSliceIteratorBatching(t *testing.T) {
	features := mustArray(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ndarray.Shape{5, 2})
	labels := mustArray(t, []float32{0, 1, 0, 1, 0}, ndarray.Shape{5, 1})

	it, err := NewSliceIterator(features, labels, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, it.NumBatches())

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, first.NumExamples())
	assert.Equal(t, []float32{1, 2, 3, 4}, first.Features.AsFloat32())
	assert.Equal(t, []float32{0, 1}, first.Labels.AsFloat32())

	_, err = it.Next()
	require.NoError(t, err)

	// Final partial batch.
	last, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, last.NumExamples())
	assert.Equal(t, []float32{9, 10}, last.Features.AsFloat32())

	assert.False(t, it.HasNext())
	_, err = it.Next()
	assert.Error(t, err)
}

func TestSliceIteratorReset(t *testing.T) {
	features := mustArray(t, []float32{1, 2, 3, 4}, ndarray.Shape{2, 2})
	it, err := NewSliceIterator(features, nil, 2)
	require.NoError(t, err)

	_, err = it.Next()
	require.NoError(t, err)
	assert.False(t, it.HasNext())

	it.Reset()
	assert.True(t, it.HasNext())

	again, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, again.Features.AsFloat32())
}

func TestSliceIteratorValidation(t *testing.T) {
	features := mustArray(t, []float32{1, 2}, ndarray.Shape{2, 1})
	labels := mustArray(t, []float32{1}, ndarray.Shape{1, 1})

	_, err := NewSliceIterator(features, labels, 1)
	assert.Error(t, err)

	_, err = NewSliceIterator(features, nil, 0)
	assert.Error(t, err)
}

func TestShuffledSliceIteratorKeepsPairs(t *testing.T) {
	features := mustArray(t, []float32{0, 1, 2, 3}, ndarray.Shape{4, 1})
	labels := mustArray(t, []float32{0, 10, 20, 30}, ndarray.Shape{4, 1})

	it, err := NewShuffledSliceIterator(features, labels, 4, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	batch, err := it.Next()
	require.NoError(t, err)

	// Whatever the permutation, label stays 10x its feature.
	f := batch.Features.AsFloat32()
	l := batch.Labels.AsFloat32()
	for i := range f {
		assert.Equal(t, f[i]*10, l[i])
	}
}

func TestDataSetMismatchedRows(t *testing.T) {
	features := mustArray(t, []float32{1, 2}, ndarray.Shape{2, 1})
	labels := mustArray(t, []float32{1, 2, 3}, ndarray.Shape{3, 1})

	_, err := New(features, labels)
	assert.Error(t, err)
}

func TestTokenSequenceIterator(t *testing.T) {
	it, err := NewTokenSequenceIterator(
		"the quick brown fox jumps over the lazy dog and runs away home",
		"cl100k_base", 32, 3, 4,
	)
	if err != nil {
		// Encoding data is fetched on first use; skip when offline.
		t.Skipf("encoding unavailable: %v", err)
	}

	batch, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4, 3 * 32}, batch.Features.Shape())
	assert.Equal(t, ndarray.Shape{4, 32}, batch.Labels.Shape())

	// Every feature row holds exactly windowLen one-hots, every label row one.
	feats := batch.Features.AsFloat32()
	var sum float32
	for _, v := range feats[:3*32] {
		sum += v
	}
	assert.Equal(t, float32(3), sum)

	it.Reset()
	assert.True(t, it.HasNext())
}
