package gradient

import (
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

func TestTableSetGet(t *testing.T) {
	tab := NewDefault()
	w := mustArray(t, []float32{1, 2, 3, 4}, ndarray.Shape{2, 2})

	tab.Set("0_W", w)

	assert.Same(t, w, tab.Get("0_W"))
	assert.Nil(t, tab.Get("0_b"))
}

func TestTableReplaceKeepsInsertionOrder(t *testing.T) {
	tab := NewDefault()
	tab.Set("0_W", mustArray(t, []float32{1}, ndarray.Shape{1}))
	tab.Set("0_b", mustArray(t, []float32{2}, ndarray.Shape{1}))
	tab.Set("0_W", mustArray(t, []float32{3}, ndarray.Shape{1}))

	assert.Equal(t, []string{"0_W", "0_b"}, tab.Names())
	assert.Equal(t, float32(3), tab.Get("0_W").AsFloat32()[0])
}

func TestVectorRowMajor(t *testing.T) {
	tab := NewDefault()
	tab.Set("w", mustArray(t, []float32{1, 2, 3, 4}, ndarray.Shape{2, 2}))
	tab.Set("b", mustArray(t, []float32{5, 6}, ndarray.Shape{2}))

	v, err := tab.Vector(RowMajor)
	require.NoError(t, err)

	assert.Equal(t, ndarray.Shape{1, 6}, v.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, v.AsFloat32())
}

func TestVectorColumnMajor(t *testing.T) {
	tab := NewDefault()
	tab.Set("w", mustArray(t, []float32{1, 2, 3, 4}, ndarray.Shape{2, 2}))

	v, err := tab.Vector(ColumnMajor)
	require.NoError(t, err)

	// Column-major walk of [[1 2] [3 4]] visits 1, 3, 2, 4.
	assert.Equal(t, []float32{1, 3, 2, 4}, v.AsFloat32())
}

func TestVectorPerVariableOrderWins(t *testing.T) {
	tab := NewDefault()
	tab.SetWithOrder("w", mustArray(t, []float32{1, 2, 3, 4}, ndarray.Shape{2, 2}), ColumnMajor)
	tab.Set("u", mustArray(t, []float32{5, 6, 7, 8}, ndarray.Shape{2, 2}))

	v, err := tab.Vector(RowMajor)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 3, 2, 4, 5, 6, 7, 8}, v.AsFloat32())
}

func TestVectorEmptyTable(t *testing.T) {
	_, err := NewDefault().Vector(RowMajor)
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	tab := NewDefault()
	tab.Set("w", mustArray(t, []float32{1}, ndarray.Shape{1}))

	tab.Clear()

	assert.Empty(t, tab.Names())
	assert.Nil(t, tab.Get("w"))
}
