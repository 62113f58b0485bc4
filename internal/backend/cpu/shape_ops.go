package cpu

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Reshape returns an array with the same data and a new shape.
// The new shape must have the same number of elements.
func (c *CPUBackend) Reshape(x *ndarray.Array, newShape ndarray.Shape) *ndarray.Array {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if x.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible number of elements: %v -> %v", x.Shape(), newShape))
	}

	result := ndarray.Zeros(newShape, x.DType(), c.device)
	copy(result.Data(), x.Data())
	return result
}

// Transpose permutes the array's dimensions.
// Empty axes reverse all dimensions (standard transpose for 2D).
func (c *CPUBackend) Transpose(x *ndarray.Array, axes ...int) *ndarray.Array {
	shape := x.Shape()
	rank := len(shape)

	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", rank, len(axes)))
	}

	seen := make([]bool, rank)
	outShape := make(ndarray.Shape, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for shape %v", axes, shape))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result := ndarray.Zeros(outShape, x.DType(), c.device)

	srcStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	elemSize := x.DType().Size()
	src := x.Data()
	dst := result.Data()

	n := x.NumElements()
	for i := 0; i < n; i++ {
		// Decompose the output index, map back through the permutation.
		srcIdx := 0
		rem := i
		for d := 0; d < rank; d++ {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += idx * srcStrides[axes[d]]
		}
		copy(dst[i*elemSize:(i+1)*elemSize], src[srcIdx*elemSize:(srcIdx+1)*elemSize])
	}

	return result
}
