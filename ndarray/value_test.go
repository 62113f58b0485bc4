package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeArrayIsIdempotent(t *testing.T) {
	a, err := FromSlice32([]float32{1, 2, 3, 4}, Shape{2, 2}, CPU)
	require.NoError(t, err)

	once, err := FromArray(a).Materialize(CPU)
	require.NoError(t, err)
	assert.Same(t, a, once)

	twice, err := FromArray(once).Materialize(CPU)
	require.NoError(t, err)
	assert.Same(t, a, twice)
}

func TestMaterializeVector(t *testing.T) {
	v := FromVector([]float32{1, 2, 3})
	assert.False(t, v.IsArray())

	a, err := v.Materialize(CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{1, 3}, a.Shape())
	assert.Equal(t, []float32{1, 2, 3}, a.AsFloat32())
}

func TestMaterializeRows(t *testing.T) {
	a, err := FromRows([][]float32{{1, 2}, {3, 4}, {5, 6}}).Materialize(CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, a.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, a.AsFloat32())
}

func TestMaterializeRaggedRowsFails(t *testing.T) {
	// Construction accepts anything; the error surfaces at conversion.
	v := FromRows([][]float32{{1, 2}, {3}})
	assert.False(t, v.IsZero())

	_, err := v.Materialize(CPU)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged rows")
}

func TestMaterializeEmptyValue(t *testing.T) {
	var v Value
	assert.True(t, v.IsZero())

	_, err := v.Materialize(CPU)
	assert.Error(t, err)
}
