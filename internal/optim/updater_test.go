package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-ml/strata/internal/gradient"
	"github.com/strata-ml/strata/internal/ndarray"
)

func mustArray(t *testing.T, data []float32, shape ndarray.Shape) *ndarray.Array {
	t.Helper()
	a, err := ndarray.FromSlice32(data, shape, ndarray.CPU)
	require.NoError(t, err)
	return a
}

func TestSGDStep(t *testing.T) {
	param := mustArray(t, []float32{1, 2}, ndarray.Shape{2})
	grads := gradient.NewDefault()
	grads.Set("w", mustArray(t, []float32{0.5, -1}, ndarray.Shape{2}))

	s := NewSGD(0.1, 0)
	require.NoError(t, s.Step(map[string]*ndarray.Array{"w": param}, grads))

	got := param.AsFloat32()
	assert.InDelta(t, 0.95, got[0], 1e-6)
	assert.InDelta(t, 2.1, got[1], 1e-6)
}

func TestSGDMomentumAccumulates(t *testing.T) {
	param := mustArray(t, []float32{0}, ndarray.Shape{1})
	grads := gradient.NewDefault()
	grads.Set("w", mustArray(t, []float32{1}, ndarray.Shape{1}))

	s := NewSGD(1, 0.5)
	params := map[string]*ndarray.Array{"w": param}

	require.NoError(t, s.Step(params, grads))
	assert.InDelta(t, -1.0, float64(param.AsFloat32()[0]), 1e-6)

	// Second step with the same gradient: v = 0.5*1 + 1 = 1.5.
	require.NoError(t, s.Step(params, grads))
	assert.InDelta(t, -2.5, float64(param.AsFloat32()[0]), 1e-6)
}

func TestSGDSkipsParamsWithoutGradient(t *testing.T) {
	param := mustArray(t, []float32{7}, ndarray.Shape{1})
	s := NewSGD(0.1, 0)

	require.NoError(t, s.Step(map[string]*ndarray.Array{"w": param}, gradient.NewDefault()))
	assert.Equal(t, float32(7), param.AsFloat32()[0])
}

func TestSGDSizeMismatch(t *testing.T) {
	param := mustArray(t, []float32{1, 2}, ndarray.Shape{2})
	grads := gradient.NewDefault()
	grads.Set("w", mustArray(t, []float32{1}, ndarray.Shape{1}))

	err := NewSGD(0.1, 0).Step(map[string]*ndarray.Array{"w": param}, grads)
	assert.Error(t, err)
}

func TestAdamFirstStepMovesByLR(t *testing.T) {
	param := mustArray(t, []float32{0}, ndarray.Shape{1})
	grads := gradient.NewDefault()
	grads.Set("w", mustArray(t, []float32{2}, ndarray.Shape{1}))

	a := NewAdam(0.01)
	require.NoError(t, a.Step(map[string]*ndarray.Array{"w": param}, grads))

	// Bias correction makes the first step approximately -lr * sign(grad).
	assert.InDelta(t, -0.01, float64(param.AsFloat32()[0]), 1e-4)
}

func TestNewByKind(t *testing.T) {
	for _, kind := range []string{"", "sgd", "momentum", "adam"} {
		u, err := New(kind, 0.1, 0.9)
		require.NoError(t, err, kind)
		assert.InDelta(t, 0.1, u.LR(), 1e-9)
	}

	_, err := New("rmsprop", 0.1, 0)
	assert.Error(t, err)
}
