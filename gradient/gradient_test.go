package gradient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-ml/strata/ndarray"
)

func TestAccessorsDelegate(t *testing.T) {
	tab := NewDefault()
	w, err := ndarray.FromSlice32([]float32{1, 2, 3, 4}, ndarray.Shape{2, 2}, ndarray.CPU)
	require.NoError(t, err)

	SetGradientFor(tab, "0_W", w)
	assert.Same(t, w, GetGradientFor(tab, "0_W"))
	assert.Nil(t, GetGradientFor(tab, "0_b"))

	m := AsMap(tab)
	assert.Len(t, m, 1)
	assert.Same(t, w, m["0_W"])

	ClearGradient(tab)
	assert.Nil(t, GetGradientFor(tab, "0_W"))
}

func TestGradientVectorOrders(t *testing.T) {
	tab := NewDefault()
	w, err := ndarray.FromSlice32([]float32{1, 2, 3, 4}, ndarray.Shape{2, 2}, ndarray.CPU)
	require.NoError(t, err)
	SetGradientFor(tab, "w", w)

	rowMajor, err := GradientVector(tab)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, rowMajor.AsFloat32())

	colMajor, err := GradientVectorOrder(tab, ColumnMajor)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 3, 2, 4}, colMajor.AsFloat32())
}

func TestPerVariableOrderTagSurvivesDefault(t *testing.T) {
	tab := NewDefault()
	w, err := ndarray.FromSlice32([]float32{1, 2, 3, 4}, ndarray.Shape{2, 2}, ndarray.CPU)
	require.NoError(t, err)

	SetGradientForWithOrder(tab, "w", w, ColumnMajor)

	v, err := GradientVector(tab)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 3, 2, 4}, v.AsFloat32())
}
