package cpu

import (
	"fmt"
	"math"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Exp applies the element-wise exponential.
func (c *CPUBackend) Exp(x *ndarray.Array) *ndarray.Array {
	return c.unary("exp", x, math.Exp)
}

// Tanh applies the element-wise hyperbolic tangent.
func (c *CPUBackend) Tanh(x *ndarray.Array) *ndarray.Array {
	return c.unary("tanh", x, math.Tanh)
}

// Sigmoid applies the element-wise logistic function.
func (c *CPUBackend) Sigmoid(x *ndarray.Array) *ndarray.Array {
	return c.unary("sigmoid", x, func(v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	})
}

func (c *CPUBackend) unary(op string, x *ndarray.Array, f func(float64) float64) *ndarray.Array {
	result := ndarray.Zeros(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case ndarray.Float32:
		out, in := result.AsFloat32(), x.AsFloat32()
		for i := range out {
			out[i] = float32(f(float64(in[i])))
		}
	case ndarray.Float64:
		out, in := result.AsFloat64(), x.AsFloat64()
		for i := range out {
			out[i] = f(in[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

// Softmax applies softmax along the given dimension.
// Only the last dimension is supported.
func (c *CPUBackend) Softmax(x *ndarray.Array, dim int) *ndarray.Array {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("softmax: only the last dimension is supported, got dim %d for shape %v", dim, shape))
	}
	if x.DType() != ndarray.Float32 {
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}

	result := ndarray.Zeros(shape, x.DType(), c.device)
	cols := shape[len(shape)-1]
	rows := x.NumElements() / cols

	in := x.AsFloat32()
	out := result.AsFloat32()

	for r := 0; r < rows; r++ {
		row := in[r*cols : (r+1)*cols]
		outRow := out[r*cols : (r+1)*cols]

		// Subtract the row max for numerical stability.
		maxVal := row[0]
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}

		var sum float64
		for j, v := range row {
			e := math.Exp(float64(v - maxVal))
			outRow[j] = float32(e)
			sum += e
		}
		for j := range outRow {
			outRow[j] = float32(float64(outRow[j]) / sum)
		}
	}

	return result
}
