package nn

import (
	"fmt"
	"math/rand"

	"github.com/strata-ml/strata/internal/ndarray"
)

// AutoencoderLayer is a tied-weight sigmoid autoencoder. As part of a
// network stack it behaves like a dense encoder; PretrainStep adds an
// unsupervised reconstruction update for greedy layer-wise pretraining.
type AutoencoderLayer struct {
	DenseLayer
	// Visible bias for the decode pass. The decode weights are the
	// transpose of the encode weights.
	bv *ndarray.Array
}

var (
	_ Layer        = (*AutoencoderLayer)(nil)
	_ Pretrainable = (*AutoencoderLayer)(nil)
)

// NewAutoencoder creates a tied-weight autoencoder layer.
func NewAutoencoder(in, hidden int) *AutoencoderLayer {
	inner := NewDense(in, hidden, Sigmoid)
	return &AutoencoderLayer{DenseLayer: *inner}
}

// Name returns a short layer description.
func (l *AutoencoderLayer) Name() string {
	return fmt.Sprintf("autoencoder(%d <-> %d)", l.in, l.out)
}

// Init allocates the encoder parameters and the visible bias.
func (l *AutoencoderLayer) Init(rng *rand.Rand, backend ndarray.Backend) {
	l.DenseLayer.Init(rng, backend)
	l.bv = ndarray.Zeros(ndarray.Shape{1, l.in}, ndarray.Float32, ndarray.CPU)
}

// PretrainStep encodes a feature batch, decodes it back through the tied
// weights, applies one gradient step on the reconstruction MSE, and returns
// the loss before the update.
func (l *AutoencoderLayer) PretrainStep(features *ndarray.Array, lr float64) float64 {
	b := l.backend
	batch := float64(features.Shape()[0])

	// Encode then decode through W transposed.
	hidden := b.Sigmoid(b.Add(b.MatMul(features, l.w), l.b))
	recon := b.Sigmoid(b.Add(b.MatMul(hidden, b.Transpose(l.w)), l.bv))

	diff := b.Sub(recon, features)
	loss := meanSquare(diff)

	// Reconstruction path gradients, sigmoid derivatives from outputs.
	dRecon := b.Mul(b.MulScalar(diff, 2/batch), Sigmoid.DerivativeFromOutput(recon))
	dHidden := b.Mul(b.MatMul(dRecon, l.w), Sigmoid.DerivativeFromOutput(hidden))

	// Tied weights accumulate both the encode and decode contributions.
	gradW := b.Add(
		b.MatMul(b.Transpose(features), dHidden),
		b.Transpose(b.MatMul(b.Transpose(hidden), dRecon)),
	)
	gradBh := b.SumDim(dHidden, 0, true)
	gradBv := b.SumDim(dRecon, 0, true)

	applyStep(l.w, gradW, lr)
	applyStep(l.b, gradBh, lr)
	applyStep(l.bv, gradBv, lr)
	return loss
}

func meanSquare(diff *ndarray.Array) float64 {
	data := diff.AsFloat32()
	var sum float64
	for _, v := range data {
		sum += float64(v) * float64(v)
	}
	return sum / float64(len(data))
}

func applyStep(param, grad *ndarray.Array, lr float64) {
	p := param.AsFloat32()
	g := grad.AsFloat32()
	for i := range p {
		p[i] -= float32(lr) * g[i]
	}
}
