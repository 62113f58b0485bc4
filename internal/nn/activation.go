// Package nn implements the layers and the multi-layer network that the
// keyword call surface drives.
package nn

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Activation selects the nonlinearity applied by a layer.
type Activation int

// Supported activations.
const (
	Identity Activation = iota
	ReLU
	Sigmoid
	Tanh
	Softmax
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case Identity:
		return "identity"
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case Softmax:
		return "softmax"
	default:
		return fmt.Sprintf("activation(%d)", int(a))
	}
}

// Apply runs the activation over a pre-activation array.
func (a Activation) Apply(b ndarray.Backend, x *ndarray.Array) *ndarray.Array {
	switch a {
	case Identity:
		return x.Clone()
	case ReLU:
		out := x.Clone()
		data := out.AsFloat32()
		for i, v := range data {
			if v < 0 {
				data[i] = 0
			}
		}
		return out
	case Sigmoid:
		return b.Sigmoid(x)
	case Tanh:
		return b.Tanh(x)
	case Softmax:
		return b.Softmax(x, len(x.Shape())-1)
	default:
		panic("nn: unknown activation " + a.String())
	}
}

// DerivativeFromOutput computes the element-wise activation derivative from
// the activation's own output. This covers every supported activation except
// Softmax, whose derivative is folded into the cross-entropy delta.
func (a Activation) DerivativeFromOutput(y *ndarray.Array) *ndarray.Array {
	out := y.Clone()
	data := out.AsFloat32()
	switch a {
	case Identity:
		for i := range data {
			data[i] = 1
		}
	case ReLU:
		for i, v := range data {
			if v > 0 {
				data[i] = 1
			} else {
				data[i] = 0
			}
		}
	case Sigmoid:
		for i, v := range data {
			data[i] = v * (1 - v)
		}
	case Tanh:
		for i, v := range data {
			data[i] = 1 - v*v
		}
	default:
		panic("nn: no output-form derivative for " + a.String())
	}
	return out
}
