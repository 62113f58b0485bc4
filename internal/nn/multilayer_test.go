package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-ml/strata/internal/dataset"
	"github.com/strata-ml/strata/internal/ndarray"
)

func mustArray(t *testing.T, data []float32, shape ndarray.Shape) *ndarray.Array {
	t.Helper()
	a, err := ndarray.FromSlice32(data, shape, ndarray.CPU)
	require.NoError(t, err)
	return a
}

// xorData returns the XOR truth table with one-hot labels.
func xorData(t *testing.T) (*ndarray.Array, *ndarray.Array) {
	t.Helper()
	features := mustArray(t, []float32{0, 0, 0, 1, 1, 0, 1, 1}, ndarray.Shape{4, 2})
	labels := mustArray(t, []float32{1, 0, 0, 1, 0, 1, 1, 0}, ndarray.Shape{4, 2})
	return features, labels
}

func newXORNet(t *testing.T) *MultiLayerNetwork {
	t.Helper()
	net, err := NewMultiLayer(Config{Seed: 42, LR: 0.5},
		NewDense(2, 8, Tanh),
		NewOutput(8, 2, Softmax, CrossEntropy),
	)
	require.NoError(t, err)
	require.NoError(t, net.Init())
	return net
}

func TestNewMultiLayerValidation(t *testing.T) {
	_, err := NewMultiLayer(Config{})
	assert.Error(t, err)

	// Last layer must be an output layer.
	_, err = NewMultiLayer(Config{}, NewDense(2, 2, Sigmoid))
	assert.Error(t, err)

	// Adjacent sizes must agree.
	_, err = NewMultiLayer(Config{},
		NewDense(2, 4, Sigmoid),
		NewOutput(5, 2, Softmax, CrossEntropy),
	)
	assert.Error(t, err)
}

func TestUninitializedNetworkRejectsCalls(t *testing.T) {
	net, err := NewMultiLayer(Config{}, NewOutput(2, 2, Softmax, CrossEntropy))
	require.NoError(t, err)

	input := mustArray(t, []float32{1, 2}, ndarray.Shape{1, 2})
	_, err = net.Output(input, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestOutputShape(t *testing.T) {
	net := newXORNet(t)
	features, _ := xorData(t)

	out, err := net.Output(features, false)
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4, 2}, out.Shape())

	// Softmax rows sum to one.
	data := out.AsFloat32()
	for r := 0; r < 4; r++ {
		assert.InDelta(t, 1.0, float64(data[r*2]+data[r*2+1]), 1e-5)
	}
}

func TestFitReducesLoss(t *testing.T) {
	net := newXORNet(t)
	features, labels := xorData(t)

	require.NoError(t, net.FitData(features, labels))
	first := net.Score()

	for i := 0; i < 300; i++ {
		require.NoError(t, net.FitData(features, labels))
	}

	assert.Less(t, net.Score(), first)
}

func TestFitProducesNamedGradients(t *testing.T) {
	net := newXORNet(t)
	features, labels := xorData(t)
	require.NoError(t, net.FitData(features, labels))

	grads := net.Gradient()
	require.NotNil(t, grads)
	assert.NotNil(t, grads.Get("0_W"))
	assert.NotNil(t, grads.Get("0_b"))
	assert.NotNil(t, grads.Get("1_W"))
	assert.Equal(t, ndarray.Shape{2, 8}, grads.Get("0_W").Shape())
}

func TestFeedForwardToLayerIncludesInput(t *testing.T) {
	net := newXORNet(t)
	features, _ := xorData(t)

	acts, err := net.FeedForwardToLayer(0, features, false)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Same(t, features, acts[0])
	assert.Equal(t, ndarray.Shape{4, 8}, acts[1].Shape())

	acts, err = net.FeedForwardToLayer(1, features, false)
	require.NoError(t, err)
	assert.Len(t, acts, 3)

	_, err = net.FeedForwardToLayer(5, features, false)
	assert.Error(t, err)
}

func TestFeedForwardToLayerTrainUsesStoredInput(t *testing.T) {
	net := newXORNet(t)

	_, err := net.FeedForwardToLayerTrain(0, true)
	assert.Error(t, err)

	features, _ := xorData(t)
	net.SetInput(features)
	acts, err := net.FeedForwardToLayerTrain(0, true)
	require.NoError(t, err)
	assert.Same(t, features, acts[0])
}

func TestScoreExamplesColumn(t *testing.T) {
	net := newXORNet(t)
	features, labels := xorData(t)
	ds, err := dataset.New(features, labels)
	require.NoError(t, err)

	plain, err := net.ScoreExamples(ds, false)
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4, 1}, plain.Shape())
	for _, v := range plain.AsFloat32() {
		assert.Greater(t, v, float32(0))
	}
}

func TestScoreExamplesRegularizationAddsToEachRow(t *testing.T) {
	net, err := NewMultiLayer(Config{Seed: 42, LR: 0.1, L2: 0.1},
		NewOutput(2, 2, Softmax, CrossEntropy),
	)
	require.NoError(t, err)
	require.NoError(t, net.Init())

	features, labels := xorData(t)
	ds, err := dataset.New(features, labels)
	require.NoError(t, err)

	plain, err := net.ScoreExamples(ds, false)
	require.NoError(t, err)
	withReg, err := net.ScoreExamples(ds, true)
	require.NoError(t, err)

	p, r := plain.AsFloat32(), withReg.AsFloat32()
	for i := range p {
		assert.Greater(t, r[i], p[i])
	}
}

func TestEvaluateAfterTraining(t *testing.T) {
	net := newXORNet(t)
	features, labels := xorData(t)
	for i := 0; i < 2000; i++ {
		require.NoError(t, net.FitData(features, labels))
	}

	it, err := dataset.NewSliceIterator(features, labels, 2)
	require.NoError(t, err)

	e, err := net.Evaluate(it)
	require.NoError(t, err)
	assert.Equal(t, 4, e.NumExamples())
	assert.Greater(t, e.Accuracy(), 0.9)
}

func TestEvaluateTopNCoversAllClasses(t *testing.T) {
	net := newXORNet(t)
	features, labels := xorData(t)

	it, err := dataset.NewSliceIterator(features, labels, 4)
	require.NoError(t, err)

	// With 2 classes, top-2 accuracy is always 1.
	e, err := net.EvaluateTopN(it, nil, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, e.TopNAccuracy(), 1e-9)
}

func TestEvaluateTopNKeepsClassNames(t *testing.T) {
	net := newXORNet(t)
	features, labels := xorData(t)

	it, err := dataset.NewSliceIterator(features, labels, 4)
	require.NoError(t, err)

	e, err := net.EvaluateTopN(it, []string{"even", "odd"}, 2)
	require.NoError(t, err)

	stats := e.Stats()
	assert.Contains(t, stats, "even")
	assert.Contains(t, stats, "odd")
}

func TestPretrainAutoencoder(t *testing.T) {
	net, err := NewMultiLayer(Config{Seed: 7, LR: 0.5},
		NewAutoencoder(4, 3),
		NewOutput(3, 2, Softmax, CrossEntropy),
	)
	require.NoError(t, err)
	require.NoError(t, net.Init())

	features := mustArray(t, []float32{
		1, 0, 0, 1,
		0, 1, 1, 0,
		1, 1, 0, 0,
		0, 0, 1, 1,
	}, ndarray.Shape{4, 4})

	require.NoError(t, net.PretrainLayerOn(0, features))
	first := net.Score()
	for i := 0; i < 200; i++ {
		require.NoError(t, net.PretrainLayerOn(0, features))
	}
	assert.Less(t, net.Score(), first)

	// The output layer is not pretrainable.
	err = net.PretrainLayerOn(1, features)
	assert.Error(t, err)
}

func TestRNNTimeStepCarriesState(t *testing.T) {
	net, err := NewMultiLayer(Config{Seed: 3, LR: 0.1},
		NewRecurrent(2, 4, Tanh),
		NewOutput(4, 2, Softmax, CrossEntropy),
	)
	require.NoError(t, err)
	require.NoError(t, net.Init())

	input := mustArray(t, []float32{1, 0}, ndarray.Shape{1, 2})

	first, err := net.RNNTimeStep(input)
	require.NoError(t, err)
	second, err := net.RNNTimeStep(input)
	require.NoError(t, err)

	// Carried state makes the second step differ from the first.
	assert.NotEqual(t, first.AsFloat32(), second.AsFloat32())

	state, err := net.RNNGetPreviousState(0)
	require.NoError(t, err)
	require.NotNil(t, state["h"])
	assert.Equal(t, ndarray.Shape{1, 4}, state["h"].Shape())

	net.RNNClearPreviousState()
	cleared, err := net.RNNGetPreviousState(0)
	require.NoError(t, err)
	assert.Empty(t, cleared)

	// Restoring the state reproduces the second step.
	require.NoError(t, net.RNNSetPreviousState(0, state))
	_, err = net.RNNTimeStep(input)
	require.NoError(t, err)

	// Non-recurrent layers have no state.
	_, err = net.RNNGetPreviousState(1)
	assert.Error(t, err)
}

func TestModelParamsRoundTrip(t *testing.T) {
	net := newXORNet(t)

	params := net.ModelParams()
	require.Contains(t, params, "0_W")
	require.Contains(t, params, "1_b")

	replacement := ndarray.Full(params["0_W"].Shape(), 0.5, ndarray.Float32, ndarray.CPU)
	require.NoError(t, net.SetModelParams(map[string]*ndarray.Array{"0_W": replacement}))
	assert.Equal(t, float32(0.5), net.ModelParams()["0_W"].AsFloat32()[0])

	err := net.SetModelParams(map[string]*ndarray.Array{"9_W": replacement})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	net := newXORNet(t)
	s := net.Summary()
	assert.Contains(t, s, "2 layers")
	assert.Contains(t, s, "dense(2 -> 8, tanh)")
	assert.Equal(t, 2, net.NumLayers())
}
