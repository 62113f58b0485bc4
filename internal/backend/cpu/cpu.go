// Package cpu implements the pure Go compute backend for the Strata ML toolkit.
package cpu

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"

	"github.com/strata-ml/strata/internal/ndarray"
	"github.com/strata-ml/strata/internal/parallel"
)

// Compile-time check that CPUBackend implements ndarray.Backend.
var _ ndarray.Backend = (*CPUBackend)(nil)

// CPUBackend implements ndarray.Backend with pure Go kernels.
type CPUBackend struct {
	device ndarray.Device
	par    parallel.Config

	// tiledMatMul selects the k-tiled matmul kernel. Enabled when the CPU
	// advertises AVX2: the tiled loop keeps the hot data in registers and
	// lets the compiler's vectorizer do its work on wide lanes.
	tiledMatMul bool
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:      ndarray.CPU,
		par:         parallel.DefaultConfig(),
		tiledMatMul: cpuid.CPU.Has(cpuid.AVX2),
	}
}

// Name returns the backend name.
func (c *CPUBackend) Name() string {
	return "cpu"
}

// Device returns the backend device.
func (c *CPUBackend) Device() ndarray.Device {
	return c.device
}

// number covers the element types CPU kernels operate on.
type number interface {
	~float32 | ~float64 | ~int32
}

// Add performs element-wise addition with broadcasting.
func (c *CPUBackend) Add(a, b *ndarray.Array) *ndarray.Array {
	return c.binary("add", a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (c *CPUBackend) Sub(a, b *ndarray.Array) *ndarray.Array {
	return c.binary("sub", a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (c *CPUBackend) Mul(a, b *ndarray.Array) *ndarray.Array {
	return c.binary("mul", a, b)
}

// Div performs element-wise division with broadcasting.
func (c *CPUBackend) Div(a, b *ndarray.Array) *ndarray.Array {
	return c.binary("div", a, b)
}

func (c *CPUBackend) binary(op string, a, b *ndarray.Array) *ndarray.Array {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", op, a.DType(), b.DType()))
	}

	outShape, broadcast, err := ndarray.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := ndarray.Zeros(outShape, a.DType(), c.device)

	switch a.DType() {
	case ndarray.Float32:
		runBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, broadcast, kernelFor[float32](op), c.par)
	case ndarray.Float64:
		runBinary(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, broadcast, kernelFor[float64](op), c.par)
	case ndarray.Int32:
		runBinary(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, broadcast, kernelFor[int32](op), c.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}

	return result
}

func kernelFor[T number](op string) func(T, T) T {
	switch op {
	case "add":
		return func(x, y T) T { return x + y }
	case "sub":
		return func(x, y T) T { return x - y }
	case "mul":
		return func(x, y T) T { return x * y }
	case "div":
		return func(x, y T) T { return x / y }
	default:
		panic("unknown binary op " + op)
	}
}

// runBinary applies op over two operands, broadcasting when needed.
func runBinary[T number](out, a, b []T, aShape, bShape, outShape ndarray.Shape, broadcast bool, op func(T, T) T, cfg parallel.Config) {
	if !broadcast {
		parallel.For(len(out), func(i int) {
			out[i] = op(a[i], b[i])
		}, cfg)
		return
	}

	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	outStrides := outShape.ComputeStrides()

	parallel.For(len(out), func(i int) {
		ai, bi := 0, 0
		rem := i
		for d := range outShape {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			ai += idx * aStrides[d]
			bi += idx * bStrides[d]
		}
		out[i] = op(a[ai], b[bi])
	}, cfg)
}

// broadcastStrides maps an operand's strides onto the output rank, zeroing
// strides for broadcast (size 1 or missing) dimensions.
func broadcastStrides(shape, outShape ndarray.Shape) []int {
	strides := make([]int, len(outShape))
	srcStrides := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for i := range shape {
		if shape[i] != 1 {
			strides[offset+i] = srcStrides[i]
		}
	}
	return strides
}
