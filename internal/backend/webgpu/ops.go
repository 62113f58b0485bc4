//go:build windows

package webgpu

import (
	"github.com/strata-ml/strata/internal/ndarray"
)

// gpuEligible reports whether a binary op can run on the GPU path:
// float32 operands with matching shapes (broadcasting stays on CPU).
func gpuEligible(a, b *ndarray.Array) bool {
	return a.DType() == ndarray.Float32 && b.DType() == ndarray.Float32 && a.Shape().Equal(b.Shape())
}

// Add performs element-wise addition, on GPU when eligible.
func (b *Backend) Add(a, other *ndarray.Array) *ndarray.Array {
	if !gpuEligible(a, other) {
		return b.fallback.Add(a, other)
	}
	result, err := b.runBinaryOp(a, other, "add", binaryShader("+"))
	if err != nil {
		panic("webgpu: Add: " + err.Error())
	}
	return result
}

// Sub performs element-wise subtraction, on GPU when eligible.
func (b *Backend) Sub(a, other *ndarray.Array) *ndarray.Array {
	if !gpuEligible(a, other) {
		return b.fallback.Sub(a, other)
	}
	result, err := b.runBinaryOp(a, other, "sub", binaryShader("-"))
	if err != nil {
		panic("webgpu: Sub: " + err.Error())
	}
	return result
}

// Mul performs element-wise multiplication, on GPU when eligible.
func (b *Backend) Mul(a, other *ndarray.Array) *ndarray.Array {
	if !gpuEligible(a, other) {
		return b.fallback.Mul(a, other)
	}
	result, err := b.runBinaryOp(a, other, "mul", binaryShader("*"))
	if err != nil {
		panic("webgpu: Mul: " + err.Error())
	}
	return result
}

// Div performs element-wise division, on GPU when eligible.
func (b *Backend) Div(a, other *ndarray.Array) *ndarray.Array {
	if !gpuEligible(a, other) {
		return b.fallback.Div(a, other)
	}
	result, err := b.runBinaryOp(a, other, "div", binaryShader("/"))
	if err != nil {
		panic("webgpu: Div: " + err.Error())
	}
	return result
}

// MatMul performs matrix multiplication on GPU for 2D float32 operands.
func (b *Backend) MatMul(a, other *ndarray.Array) *ndarray.Array {
	if a.DType() != ndarray.Float32 || other.DType() != ndarray.Float32 ||
		len(a.Shape()) != 2 || len(other.Shape()) != 2 {
		return b.fallback.MatMul(a, other)
	}
	result, err := b.runMatMul(a, other)
	if err != nil {
		panic("webgpu: MatMul: " + err.Error())
	}
	return result
}

// Exp applies the element-wise exponential on GPU.
func (b *Backend) Exp(x *ndarray.Array) *ndarray.Array {
	if x.DType() != ndarray.Float32 {
		return b.fallback.Exp(x)
	}
	result, err := b.runUnaryOp(x, "exp", unaryShader("exp(a[idx])"))
	if err != nil {
		panic("webgpu: Exp: " + err.Error())
	}
	return result
}

// Tanh applies the element-wise hyperbolic tangent on GPU.
func (b *Backend) Tanh(x *ndarray.Array) *ndarray.Array {
	if x.DType() != ndarray.Float32 {
		return b.fallback.Tanh(x)
	}
	result, err := b.runUnaryOp(x, "tanh", unaryShader("tanh(a[idx])"))
	if err != nil {
		panic("webgpu: Tanh: " + err.Error())
	}
	return result
}

// Sigmoid applies the element-wise logistic function on GPU.
func (b *Backend) Sigmoid(x *ndarray.Array) *ndarray.Array {
	if x.DType() != ndarray.Float32 {
		return b.fallback.Sigmoid(x)
	}
	result, err := b.runUnaryOp(x, "sigmoid", unaryShader("1.0 / (1.0 + exp(-a[idx]))"))
	if err != nil {
		panic("webgpu: Sigmoid: " + err.Error())
	}
	return result
}

// The remaining operations have no GPU kernel and use the CPU path.

// Reshape returns an array with a new shape.
func (b *Backend) Reshape(x *ndarray.Array, newShape ndarray.Shape) *ndarray.Array {
	return b.fallback.Reshape(x, newShape)
}

// Transpose permutes the array's dimensions.
func (b *Backend) Transpose(x *ndarray.Array, axes ...int) *ndarray.Array {
	return b.fallback.Transpose(x, axes...)
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *ndarray.Array, scalar float64) *ndarray.Array {
	return b.fallback.AddScalar(x, scalar)
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *ndarray.Array, scalar float64) *ndarray.Array {
	return b.fallback.MulScalar(x, scalar)
}

// Softmax applies softmax along a dimension.
func (b *Backend) Softmax(x *ndarray.Array, dim int) *ndarray.Array {
	return b.fallback.Softmax(x, dim)
}

// Sum reduces all elements to a single value.
func (b *Backend) Sum(x *ndarray.Array) *ndarray.Array {
	return b.fallback.Sum(x)
}

// SumDim sums along a dimension.
func (b *Backend) SumDim(x *ndarray.Array, dim int, keepDim bool) *ndarray.Array {
	return b.fallback.SumDim(x, dim, keepDim)
}

// MeanDim averages along a dimension.
func (b *Backend) MeanDim(x *ndarray.Array, dim int, keepDim bool) *ndarray.Array {
	return b.fallback.MeanDim(x, dim, keepDim)
}

// Argmax returns the index of the maximum along a dimension.
func (b *Backend) Argmax(x *ndarray.Array, dim int) *ndarray.Array {
	return b.fallback.Argmax(x, dim)
}
