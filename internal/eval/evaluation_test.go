package eval

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

func TestEvaluationAccuracy(t *testing.T) {
	e := NewEvaluation(3)

	labels := mustArray(t, []float32{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 1, 0,
	}, ndarray.Shape{4, 3})
	preds := mustArray(t, []float32{
		0.9, 0.05, 0.05, // correct
		0.1, 0.8, 0.1, // correct
		0.7, 0.2, 0.1, // wrong, predicted 0
		0.2, 0.5, 0.3, // correct
	}, ndarray.Shape{4, 3})

	require.NoError(t, e.Eval(labels, preds))

	assert.Equal(t, 4, e.NumExamples())
	assert.InDelta(t, 0.75, e.Accuracy(), 1e-9)
	assert.Equal(t, 1, e.Confusion()[2][0])
}

func TestEvaluationTopN(t *testing.T) {
	e := NewEvaluationTopN(3, 2)

	labels := mustArray(t, []float32{
		0, 0, 1,
		1, 0, 0,
	}, ndarray.Shape{2, 3})
	preds := mustArray(t, []float32{
		0.5, 0.3, 0.2, // true class 2 is third, misses top-2
		0.4, 0.5, 0.1, // true class 0 is second, hits top-2
	}, ndarray.Shape{2, 3})

	require.NoError(t, e.Eval(labels, preds))

	assert.InDelta(t, 0.0, e.Accuracy(), 1e-9)
	assert.InDelta(t, 0.5, e.TopNAccuracy(), 1e-9)
}

func TestEvaluationShapeMismatch(t *testing.T) {
	e := NewEvaluation(3)
	labels := mustArray(t, []float32{1, 0}, ndarray.Shape{1, 2})
	preds := mustArray(t, []float32{1, 0, 0}, ndarray.Shape{1, 3})

	assert.Error(t, e.Eval(labels, preds))
}

func TestEvaluationStatsWithLabels(t *testing.T) {
	e := NewEvaluationWithLabels([]string{"cat", "dog"})
	labels := mustArray(t, []float32{1, 0}, ndarray.Shape{1, 2})
	preds := mustArray(t, []float32{0.9, 0.1}, ndarray.Shape{1, 2})
	require.NoError(t, e.Eval(labels, preds))

	stats := e.Stats()
	assert.Contains(t, stats, "accuracy: 1.0000")
	assert.Contains(t, stats, "cat")
}

func TestSetLabelsOnTopNEvaluation(t *testing.T) {
	e := NewEvaluationTopN(2, 2)
	e.SetLabels([]string{"cat", "dog"})

	labels := mustArray(t, []float32{1, 0}, ndarray.Shape{1, 2})
	preds := mustArray(t, []float32{0.9, 0.1}, ndarray.Shape{1, 2})
	require.NoError(t, e.Eval(labels, preds))

	stats := e.Stats()
	assert.Contains(t, stats, "top-2 accuracy")
	assert.Contains(t, stats, "cat")
	assert.Contains(t, stats, "dog")
}

func TestRegressionEvaluation(t *testing.T) {
	e := NewRegressionEvaluation()
	targets := mustArray(t, []float32{1, 2, 3}, ndarray.Shape{3, 1})
	preds := mustArray(t, []float32{1.5, 2, 2}, ndarray.Shape{3, 1})

	require.NoError(t, e.Eval(targets, preds))

	assert.InDelta(t, (0.25+0+1)/3, e.MSE(), 1e-6)
	assert.InDelta(t, (0.5+0+1)/3, e.MAE(), 1e-6)
}
