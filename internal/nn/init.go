package nn

import (
	"math"
	"math/rand"

	"github.com/strata-ml/strata/internal/ndarray"
)

// WeightInit selects the weight initialization scheme.
type WeightInit int

// Supported schemes.
const (
	// XavierInit scales by sqrt(2 / (fanIn + fanOut)). Good default for
	// sigmoid and tanh layers.
	XavierInit WeightInit = iota
	// HeInit scales by sqrt(2 / fanIn). Preferred for ReLU layers.
	HeInit
	// ZeroInit fills with zeros. Used for biases.
	ZeroInit
)

// NewWeights allocates and fills a [fanIn, fanOut] float32 weight matrix.
func (w WeightInit) NewWeights(rng *rand.Rand, fanIn, fanOut int) *ndarray.Array {
	shape := ndarray.Shape{fanIn, fanOut}
	switch w {
	case ZeroInit:
		return ndarray.Zeros(shape, ndarray.Float32, ndarray.CPU)
	case HeInit:
		return scaledNormal(rng, shape, math.Sqrt(2/float64(fanIn)))
	default:
		return scaledNormal(rng, shape, math.Sqrt(2/float64(fanIn+fanOut)))
	}
}

// defaultInitFor picks the scheme that matches an activation.
func defaultInitFor(a Activation) WeightInit {
	if a == ReLU {
		return HeInit
	}
	return XavierInit
}

func scaledNormal(rng *rand.Rand, shape ndarray.Shape, scale float64) *ndarray.Array {
	out := ndarray.Randn(shape, ndarray.CPU, rng)
	data := out.AsFloat32()
	s := float32(scale)
	for i := range data {
		data[i] *= s
	}
	return out
}
