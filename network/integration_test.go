package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-ml/strata/dataset"
	"github.com/strata-ml/strata/kw"
	"github.com/strata-ml/strata/ndarray"
)

// End-to-end exercise of the keyword surface over the real engine.
func TestKeywordSurfaceOverRealEngine(t *testing.T) {
	net, err := New(Config{Seed: 42, LR: 0.5},
		Dense(2, 8, Tanh),
		OutputLayer(8, 2, Softmax, CrossEntropy),
	)
	require.NoError(t, err)

	_, err = Init(net)
	require.NoError(t, err)

	features := [][]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	labels := [][]float32{{1, 0}, {0, 1}, {0, 1}, {1, 0}}

	// Train on raw sequences straight through coercion.
	for i := 0; i < 500; i++ {
		_, err = Fit(kw.Params{KeyNetwork: net, KeyFeatures: features, KeyLabels: labels})
		require.NoError(t, err)
	}
	assert.Greater(t, Score(net), 0.0)

	fArr, err := ndarray.FromRows(features).Materialize(ndarray.CPU)
	require.NoError(t, err)
	lArr, err := ndarray.FromRows(labels).Materialize(ndarray.CPU)
	require.NoError(t, err)

	// Iterator-driven training resets before the pass, so a consumed
	// iterator can be handed in again.
	it, err := dataset.NewSliceIterator(fArr, lArr, 2)
	require.NoError(t, err)
	_, err = Fit(kw.Params{KeyNetwork: net, KeyIter: it})
	require.NoError(t, err)
	_, err = Fit(kw.Params{KeyNetwork: net, KeyIter: it})
	require.NoError(t, err)

	res, err := Evaluate(kw.Params{
		KeyNetwork: net,
		KeyIter:    it,
		KeyLabels:  []string{"even", "odd"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.NumExamples())
	assert.Greater(t, res.Accuracy(), 0.9)

	out, err := Output(kw.Params{KeyNetwork: net, KeyInput: features})
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4, 2}, out.Shape())

	acts, err := FeedForwardToLayer(kw.Params{
		KeyNetwork:  net,
		KeyLayerIdx: 0,
		KeyInput:    features,
	})
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, ndarray.Shape{4, 8}, acts[1].Shape())

	ds, err := dataset.New(fArr, lArr)
	require.NoError(t, err)
	scores, err := ScoreExamples(kw.Params{
		KeyNetwork:           net,
		KeyDataset:           ds,
		KeyAddRegularization: false,
	})
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4, 1}, scores.Shape())

	grads := Gradient(net)
	require.NotNil(t, grads)
	assert.NotNil(t, grads.Get("0_W"))
}

func TestPretrainingOverRealEngine(t *testing.T) {
	net, err := New(Config{Seed: 7, LR: 0.5},
		Autoencoder(4, 3),
		OutputLayer(3, 2, Softmax, CrossEntropy),
	)
	require.NoError(t, err)
	_, err = Init(net)
	require.NoError(t, err)

	features := [][]float32{{1, 0, 0, 1}, {0, 1, 1, 0}}

	_, err = PretrainLayer(kw.Params{
		KeyNetwork:  net,
		KeyLayerIdx: 0,
		KeyFeatures: features,
	})
	require.NoError(t, err)
	first := Score(net)

	for i := 0; i < 100; i++ {
		_, err = PretrainLayer(kw.Params{KeyNetwork: net, KeyLayerIdx: 0, KeyFeatures: features})
		require.NoError(t, err)
	}
	assert.Less(t, Score(net), first)
}

func TestRNNStepOverRealEngine(t *testing.T) {
	net, err := New(Config{Seed: 3, LR: 0.1},
		Recurrent(2, 4, Tanh),
		OutputLayer(4, 2, Softmax, CrossEntropy),
	)
	require.NoError(t, err)
	_, err = Init(net)
	require.NoError(t, err)

	first, err := RNNTimeStep(net, []float32{1, 0})
	require.NoError(t, err)
	second, err := RNNTimeStep(net, []float32{1, 0})
	require.NoError(t, err)
	assert.NotEqual(t, first.AsFloat32(), second.AsFloat32())

	state, err := RNNGetPreviousState(net, 0)
	require.NoError(t, err)
	assert.Contains(t, state, "h")

	RNNClearPreviousState(net)
	cleared, err := RNNGetPreviousState(net, 0)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}
