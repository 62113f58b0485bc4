package cpu

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
)

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *ndarray.Array, scalar float64) *ndarray.Array {
	result := ndarray.Zeros(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case ndarray.Float32:
		out, in := result.AsFloat32(), x.AsFloat32()
		s := float32(scalar)
		for i := range out {
			out[i] = in[i] + s
		}
	case ndarray.Float64:
		out, in := result.AsFloat64(), x.AsFloat64()
		for i := range out {
			out[i] = in[i] + scalar
		}
	case ndarray.Int32:
		out, in := result.AsInt32(), x.AsInt32()
		s := int32(scalar)
		for i := range out {
			out[i] = in[i] + s
		}
	default:
		panic(fmt.Sprintf("addscalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *ndarray.Array, scalar float64) *ndarray.Array {
	result := ndarray.Zeros(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case ndarray.Float32:
		out, in := result.AsFloat32(), x.AsFloat32()
		s := float32(scalar)
		for i := range out {
			out[i] = in[i] * s
		}
	case ndarray.Float64:
		out, in := result.AsFloat64(), x.AsFloat64()
		for i := range out {
			out[i] = in[i] * scalar
		}
	case ndarray.Int32:
		out, in := result.AsInt32(), x.AsInt32()
		s := int32(scalar)
		for i := range out {
			out[i] = in[i] * s
		}
	default:
		panic(fmt.Sprintf("mulscalar: unsupported dtype %s", x.DType()))
	}
	return result
}
