package cpu

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Sum reduces all elements to a single value (shape {1}).
func (c *CPUBackend) Sum(x *ndarray.Array) *ndarray.Array {
	result := ndarray.Zeros(ndarray.Shape{1}, x.DType(), c.device)
	switch x.DType() {
	case ndarray.Float32:
		var sum float64
		for _, v := range x.AsFloat32() {
			sum += float64(v)
		}
		result.AsFloat32()[0] = float32(sum)
	case ndarray.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}

// SumDim sums along a dimension.
func (c *CPUBackend) SumDim(x *ndarray.Array, dim int, keepDim bool) *ndarray.Array {
	return c.reduceDim("sumdim", x, dim, keepDim, false)
}

// MeanDim averages along a dimension.
func (c *CPUBackend) MeanDim(x *ndarray.Array, dim int, keepDim bool) *ndarray.Array {
	return c.reduceDim("meandim", x, dim, keepDim, true)
}

func (c *CPUBackend) reduceDim(op string, x *ndarray.Array, dim int, keepDim, mean bool) *ndarray.Array {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("%s: dimension %d out of range for shape %v", op, dim, shape))
	}
	if x.DType() != ndarray.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	outShape := reducedShape(shape, dim, keepDim)
	result := ndarray.Zeros(outShape, x.DType(), c.device)

	// Walk the input once, accumulating into the collapsed output index.
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	dimSize := shape[dim]
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	in := x.AsFloat32()
	out := result.AsFloat32()

	for o := 0; o < outer; o++ {
		for d := 0; d < dimSize; d++ {
			base := (o*dimSize + d) * inner
			outBase := o * inner
			for i := 0; i < inner; i++ {
				out[outBase+i] += in[base+i]
			}
		}
	}

	if mean {
		scale := float32(1.0 / float64(dimSize))
		for i := range out {
			out[i] *= scale
		}
	}

	return result
}

// Argmax returns the index of the maximum value along a dimension.
// The reduced dimension is dropped; the result dtype is Int32.
func (c *CPUBackend) Argmax(x *ndarray.Array, dim int) *ndarray.Array {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("argmax: dimension %d out of range for shape %v", dim, shape))
	}
	if x.DType() != ndarray.Float32 {
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	outShape := reducedShape(shape, dim, false)
	result := ndarray.Zeros(outShape, ndarray.Int32, c.device)

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	dimSize := shape[dim]
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	in := x.AsFloat32()
	out := result.AsInt32()

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			best := in[o*dimSize*inner+i]
			bestIdx := int32(0)
			for d := 1; d < dimSize; d++ {
				v := in[(o*dimSize+d)*inner+i]
				if v > best {
					best = v
					bestIdx = int32(d)
				}
			}
			out[o*inner+i] = bestIdx
		}
	}

	return result
}

func reducedShape(shape ndarray.Shape, dim int, keepDim bool) ndarray.Shape {
	out := make(ndarray.Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case i != dim:
			out = append(out, d)
		case keepDim:
			out = append(out, 1)
		}
	}
	if len(out) == 0 {
		out = ndarray.Shape{1}
	}
	return out
}
