package nn

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/strata-ml/strata/internal/backend/cpu"
	"github.com/strata-ml/strata/internal/dataset"
	"github.com/strata-ml/strata/internal/eval"
	"github.com/strata-ml/strata/internal/gradient"
	"github.com/strata-ml/strata/internal/ndarray"
	"github.com/strata-ml/strata/internal/optim"
)

// MultiLayerNetwork is a feed-forward stack of layers trained with
// backpropagation. The last layer must be an OutputLayer.
//
// Parameter and gradient variables are named by layer position and local
// name, for example "0_W" and "0_b" for the first layer's weights and bias.
type MultiLayerNetwork struct {
	cfg    Config
	layers []Layer

	backend ndarray.Backend
	updater optim.Updater
	rng     *rand.Rand

	initialized bool

	// Working state for the fit loop and the score accessors.
	input  *ndarray.Array
	labels *ndarray.Array
	score  float64
	grads  *gradient.DefaultTable
}

// NewMultiLayer assembles a network from a configuration and a layer stack.
// Layer shapes are validated here; parameters are allocated by Init.
func NewMultiLayer(cfg Config, layers ...Layer) (*MultiLayerNetwork, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("nn: network needs at least one layer")
	}
	if _, ok := layers[len(layers)-1].(*OutputLayer); !ok {
		return nil, fmt.Errorf("nn: last layer must be an output layer, got %s",
			layers[len(layers)-1].Name())
	}
	for i := 1; i < len(layers); i++ {
		if layers[i-1].OutputSize() != layers[i].InputSize() {
			return nil, fmt.Errorf("nn: layer %d outputs %d values but layer %d expects %d",
				i-1, layers[i-1].OutputSize(), i, layers[i].InputSize())
		}
	}
	return &MultiLayerNetwork{cfg: cfg.withDefaults(), layers: layers}, nil
}

// Init allocates parameters, seeds the weight initializer and builds the
// updater. Must be called before training or inference.
func (n *MultiLayerNetwork) Init() error {
	cfg := n.cfg
	n.backend = cfg.Backend
	if n.backend == nil {
		n.backend = cpu.New()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n.rng = rand.New(rand.NewSource(seed))

	updater, err := optim.New(cfg.Updater, cfg.LR, cfg.Momentum)
	if err != nil {
		return err
	}
	n.updater = updater

	for _, layer := range n.layers {
		layer.Init(n.rng, n.backend)
	}

	n.grads = gradient.NewDefault()
	n.initialized = true
	return nil
}

func (n *MultiLayerNetwork) ensureInit() error {
	if !n.initialized {
		return fmt.Errorf("nn: network not initialized; call Init first")
	}
	return nil
}

// Backend returns the backend the network computes on.
func (n *MultiLayerNetwork) Backend() ndarray.Backend {
	return n.backend
}

// NumLayers returns the number of layers in the stack.
func (n *MultiLayerNetwork) NumLayers() int {
	return len(n.layers)
}

// Summary renders a human-readable description of the stack.
func (n *MultiLayerNetwork) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MultiLayerNetwork (%d layers, updater %s, lr %g)\n",
		len(n.layers), n.cfg.Updater, n.cfg.LR)
	for i, layer := range n.layers {
		fmt.Fprintf(&sb, "  %d: %s\n", i, layer.Name())
	}
	return sb.String()
}

// SetInput stores the working input batch used by the stored-input variants
// of feed-forward.
func (n *MultiLayerNetwork) SetInput(input *ndarray.Array) {
	n.input = input
}

// SetLabels stores the working label batch.
func (n *MultiLayerNetwork) SetLabels(labels *ndarray.Array) {
	n.labels = labels
}

// outputLayer returns the final layer as an OutputLayer.
func (n *MultiLayerNetwork) outputLayer() *OutputLayer {
	return n.layers[len(n.layers)-1].(*OutputLayer)
}

// forward runs the full stack and returns the final output.
func (n *MultiLayerNetwork) forward(input *ndarray.Array, train bool) *ndarray.Array {
	x := input
	for _, layer := range n.layers {
		x = layer.Forward(x, train)
	}
	return x
}

// Output computes the network output for an input batch.
func (n *MultiLayerNetwork) Output(input *ndarray.Array, train bool) (*ndarray.Array, error) {
	if err := n.ensureInit(); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, fmt.Errorf("nn: input must not be nil")
	}
	return n.forward(input, train), nil
}

// OutputMode computes the output under an explicit training mode tag.
func (n *MultiLayerNetwork) OutputMode(input *ndarray.Array, mode TrainingMode) (*ndarray.Array, error) {
	return n.Output(input, mode == Train)
}

// OutputMasked computes the output for a masked batch. Rows whose features
// mask entry is zero are zeroed in the result. The labels mask only affects
// loss terms, never a forward pass, so it is accepted and ignored here.
func (n *MultiLayerNetwork) OutputMasked(input, featuresMask, labelsMask *ndarray.Array, train bool) (*ndarray.Array, error) {
	out, err := n.Output(input, train)
	if err != nil {
		return nil, err
	}
	if featuresMask == nil {
		return out, nil
	}
	mask := featuresMask.AsFloat32()
	rows := out.Shape()[0]
	cols := out.Shape()[1]
	if len(mask) < rows {
		return nil, fmt.Errorf("nn: features mask has %d entries for %d rows", len(mask), rows)
	}
	data := out.AsFloat32()
	for r := 0; r < rows; r++ {
		if mask[r] == 0 {
			for c := 0; c < cols; c++ {
				data[r*cols+c] = 0
			}
		}
	}
	return out, nil
}

// OutputIterator computes outputs for every batch of an iterator and
// concatenates them row-wise.
func (n *MultiLayerNetwork) OutputIterator(it dataset.Iterator, train bool) (*ndarray.Array, error) {
	if err := n.ensureInit(); err != nil {
		return nil, err
	}
	var rows []float32
	total, cols := 0, 0
	for it.HasNext() {
		batch, err := it.Next()
		if err != nil {
			return nil, err
		}
		out := n.forward(batch.Features, train)
		cols = out.Shape()[1]
		total += out.Shape()[0]
		rows = append(rows, out.AsFloat32()...)
	}
	if total == 0 {
		return nil, fmt.Errorf("nn: iterator produced no examples")
	}
	return ndarray.FromSlice32(rows, ndarray.Shape{total, cols}, ndarray.CPU)
}

// FeedForwardToLayer runs the stack up to and including layerIdx and returns
// the activations of every stage, starting with the input itself.
func (n *MultiLayerNetwork) FeedForwardToLayer(layerIdx int, input *ndarray.Array, train bool) ([]*ndarray.Array, error) {
	if err := n.ensureInit(); err != nil {
		return nil, err
	}
	if layerIdx < 0 || layerIdx >= len(n.layers) {
		return nil, fmt.Errorf("nn: layer index %d out of range [0, %d)", layerIdx, len(n.layers))
	}
	if input == nil {
		return nil, fmt.Errorf("nn: input must not be nil")
	}

	activations := make([]*ndarray.Array, 0, layerIdx+2)
	activations = append(activations, input)
	x := input
	for i := 0; i <= layerIdx; i++ {
		x = n.layers[i].Forward(x, train)
		activations = append(activations, x)
	}
	return activations, nil
}

// FeedForwardToLayerInput is FeedForwardToLayer in inference mode.
func (n *MultiLayerNetwork) FeedForwardToLayerInput(layerIdx int, input *ndarray.Array) ([]*ndarray.Array, error) {
	return n.FeedForwardToLayer(layerIdx, input, false)
}

// FeedForwardToLayerTrain is FeedForwardToLayer over the stored input.
func (n *MultiLayerNetwork) FeedForwardToLayerTrain(layerIdx int, train bool) ([]*ndarray.Array, error) {
	if n.input == nil {
		return nil, fmt.Errorf("nn: no stored input; call SetInput first")
	}
	return n.FeedForwardToLayer(layerIdx, n.input, train)
}

// FitData runs one supervised training step on a feature and label batch.
func (n *MultiLayerNetwork) FitData(features, labels *ndarray.Array) error {
	if err := n.ensureInit(); err != nil {
		return err
	}
	if features == nil || labels == nil {
		return fmt.Errorf("nn: fit needs both features and labels")
	}

	n.input = features
	n.labels = labels
	n.forward(features, true)

	out := n.outputLayer()
	n.score = out.LossValue(labels) + n.regTerm()

	// Backward pass, collecting gradients under positional names.
	n.grads = gradient.NewDefault()
	eps := out.Delta(labels)
	for i := len(n.layers) - 1; i >= 0; i-- {
		eps = n.layers[i].Backward(eps)
		for local, g := range n.layers[i].Grads() {
			n.grads.Set(fmt.Sprintf("%d_%s", i, local), n.applyL2(i, local, g))
		}
	}

	return n.updater.Step(n.namedParams(), n.grads)
}

// Fit trains over every batch of an iterator.
func (n *MultiLayerNetwork) Fit(it dataset.Iterator) error {
	if err := n.ensureInit(); err != nil {
		return err
	}
	for it.HasNext() {
		batch, err := it.Next()
		if err != nil {
			return err
		}
		if err := n.FitData(batch.Features, batch.Labels); err != nil {
			return err
		}
	}
	return nil
}

// applyL2 adds the weight decay term to a weight gradient. Biases and
// recurrent state are left alone when L2 is disabled or the variable is a
// bias.
func (n *MultiLayerNetwork) applyL2(layerIdx int, local string, g *ndarray.Array) *ndarray.Array {
	if n.cfg.L2 == 0 || local == "b" {
		return g
	}
	w := n.layers[layerIdx].Params()[local]
	if w == nil {
		return g
	}
	return n.backend.Add(g, n.backend.MulScalar(w, n.cfg.L2))
}

// regTerm computes 0.5 * L2 * sum of squared weights.
func (n *MultiLayerNetwork) regTerm() float64 {
	if n.cfg.L2 == 0 {
		return 0
	}
	var sum float64
	for _, layer := range n.layers {
		for local, p := range layer.Params() {
			if local == "b" {
				continue
			}
			for _, v := range p.AsFloat32() {
				sum += float64(v) * float64(v)
			}
		}
	}
	return 0.5 * n.cfg.L2 * sum
}

// Score returns the loss of the most recent fit step.
func (n *MultiLayerNetwork) Score() float64 {
	return n.score
}

// Gradient returns the gradient table from the most recent fit step.
func (n *MultiLayerNetwork) Gradient() *gradient.DefaultTable {
	return n.grads
}

// ScoreExamples computes a [batch, 1] column of per-example losses for a
// labeled dataset. With addRegularization the weight decay term is added to
// every example's score.
func (n *MultiLayerNetwork) ScoreExamples(ds *dataset.DataSet, addRegularization bool) (*ndarray.Array, error) {
	if err := n.ensureInit(); err != nil {
		return nil, err
	}
	if ds == nil || ds.Features == nil || ds.Labels == nil {
		return nil, fmt.Errorf("nn: scoring needs a labeled dataset")
	}

	out := n.forward(ds.Features, false)
	scores := n.outputLayer().PerExampleLoss(out, ds.Labels)
	if addRegularization {
		reg := float32(n.regTerm())
		data := scores.AsFloat32()
		for i := range data {
			data[i] += reg
		}
	}
	return scores, nil
}

// ScoreExamplesIterator scores every batch of an iterator and concatenates
// the per-example columns.
func (n *MultiLayerNetwork) ScoreExamplesIterator(it dataset.Iterator, addRegularization bool) (*ndarray.Array, error) {
	if err := n.ensureInit(); err != nil {
		return nil, err
	}
	var all []float32
	for it.HasNext() {
		batch, err := it.Next()
		if err != nil {
			return nil, err
		}
		col, err := n.ScoreExamples(batch, addRegularization)
		if err != nil {
			return nil, err
		}
		all = append(all, col.AsFloat32()...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("nn: iterator produced no examples")
	}
	return ndarray.FromSlice32(all, ndarray.Shape{len(all), 1}, ndarray.CPU)
}

// Evaluate runs classification evaluation over an iterator.
func (n *MultiLayerNetwork) Evaluate(it dataset.Iterator) (*eval.Evaluation, error) {
	return n.EvaluateTopN(it, nil, 1)
}

// EvaluateWithLabels evaluates with display names per class.
func (n *MultiLayerNetwork) EvaluateWithLabels(it dataset.Iterator, labels []string) (*eval.Evaluation, error) {
	return n.EvaluateTopN(it, labels, 1)
}

// EvaluateTopN evaluates and additionally tracks top-n accuracy.
func (n *MultiLayerNetwork) EvaluateTopN(it dataset.Iterator, labels []string, topN int) (*eval.Evaluation, error) {
	if err := n.ensureInit(); err != nil {
		return nil, err
	}

	numClasses := n.outputLayer().OutputSize()
	var e *eval.Evaluation
	switch {
	case topN > 1:
		e = eval.NewEvaluationTopN(numClasses, topN)
		if len(labels) > 0 {
			e.SetLabels(labels)
		}
	case len(labels) > 0:
		e = eval.NewEvaluationWithLabels(labels)
	default:
		e = eval.NewEvaluation(numClasses)
	}

	for it.HasNext() {
		batch, err := it.Next()
		if err != nil {
			return nil, err
		}
		if batch.Labels == nil {
			return nil, fmt.Errorf("nn: evaluation needs labeled batches")
		}
		out := n.forward(batch.Features, false)
		if err := e.Eval(batch.Labels, out); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// PretrainLayerOn runs one unsupervised pretraining step of a single layer
// on a feature batch. Inputs are fed through the earlier layers first.
func (n *MultiLayerNetwork) PretrainLayerOn(layerIdx int, features *ndarray.Array) error {
	if err := n.ensureInit(); err != nil {
		return err
	}
	if layerIdx < 0 || layerIdx >= len(n.layers) {
		return fmt.Errorf("nn: layer index %d out of range [0, %d)", layerIdx, len(n.layers))
	}
	p, ok := n.layers[layerIdx].(Pretrainable)
	if !ok {
		return fmt.Errorf("nn: layer %d (%s) does not support pretraining",
			layerIdx, n.layers[layerIdx].Name())
	}
	if features == nil {
		return fmt.Errorf("nn: pretraining needs a feature array")
	}

	x := features
	for i := 0; i < layerIdx; i++ {
		x = n.layers[i].Forward(x, false)
	}
	n.score = p.PretrainStep(x, n.updater.LR())
	return nil
}

// PretrainLayer pretrains a single layer over every batch of an iterator.
func (n *MultiLayerNetwork) PretrainLayer(layerIdx int, it dataset.Iterator) error {
	if err := n.ensureInit(); err != nil {
		return err
	}
	for it.HasNext() {
		batch, err := it.Next()
		if err != nil {
			return err
		}
		if err := n.PretrainLayerOn(layerIdx, batch.Features); err != nil {
			return err
		}
	}
	return nil
}

// ModelParams returns every parameter array under its positional name.
func (n *MultiLayerNetwork) ModelParams() map[string]*ndarray.Array {
	return n.namedParams()
}

// SetModelParams copies values into the network's parameters by positional
// name. Unknown names are rejected; missing names keep their values.
func (n *MultiLayerNetwork) SetModelParams(params map[string]*ndarray.Array) error {
	if err := n.ensureInit(); err != nil {
		return err
	}
	current := n.namedParams()
	for name, src := range params {
		dst, ok := current[name]
		if !ok {
			return fmt.Errorf("nn: unknown parameter %q", name)
		}
		if !dst.Shape().Equal(src.Shape()) {
			return fmt.Errorf("nn: parameter %q has shape %v, got %v", name, dst.Shape(), src.Shape())
		}
		copy(dst.AsFloat32(), src.AsFloat32())
	}
	return nil
}

func (n *MultiLayerNetwork) namedParams() map[string]*ndarray.Array {
	out := make(map[string]*ndarray.Array)
	for i, layer := range n.layers {
		for local, p := range layer.Params() {
			out[fmt.Sprintf("%d_%s", i, local)] = p
		}
	}
	return out
}

// RNNTimeStep runs one timestep of streaming inference. Recurrent layers
// carry their hidden state across calls; other layers are stateless.
func (n *MultiLayerNetwork) RNNTimeStep(input *ndarray.Array) (*ndarray.Array, error) {
	if err := n.ensureInit(); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, fmt.Errorf("nn: input must not be nil")
	}
	x := input
	for _, layer := range n.layers {
		if s, ok := layer.(Stateful); ok {
			x = s.Step(x)
		} else {
			x = layer.Forward(x, false)
		}
	}
	return x, nil
}

// RNNClearPreviousState clears the carried state of every recurrent layer.
func (n *MultiLayerNetwork) RNNClearPreviousState() {
	for _, layer := range n.layers {
		if s, ok := layer.(Stateful); ok {
			s.ClearState()
		}
	}
}

// RNNGetPreviousState returns the carried state of a recurrent layer.
func (n *MultiLayerNetwork) RNNGetPreviousState(layerIdx int) (map[string]*ndarray.Array, error) {
	if layerIdx < 0 || layerIdx >= len(n.layers) {
		return nil, fmt.Errorf("nn: layer index %d out of range [0, %d)", layerIdx, len(n.layers))
	}
	s, ok := n.layers[layerIdx].(Stateful)
	if !ok {
		return nil, fmt.Errorf("nn: layer %d (%s) is not recurrent", layerIdx, n.layers[layerIdx].Name())
	}
	return s.State(), nil
}

// RNNSetPreviousState replaces the carried state of a recurrent layer.
func (n *MultiLayerNetwork) RNNSetPreviousState(layerIdx int, state map[string]*ndarray.Array) error {
	if layerIdx < 0 || layerIdx >= len(n.layers) {
		return fmt.Errorf("nn: layer index %d out of range [0, %d)", layerIdx, len(n.layers))
	}
	s, ok := n.layers[layerIdx].(Stateful)
	if !ok {
		return fmt.Errorf("nn: layer %d (%s) is not recurrent", layerIdx, n.layers[layerIdx].Name())
	}
	s.SetState(state)
	return nil
}
