package cpu

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
	"github.com/strata-ml/strata/internal/parallel"
)

// matmulTile is the k-dimension tile used by the tiled kernel.
const matmulTile = 64

// MatMul performs matrix multiplication.
// For 2D arrays: (M, K) @ (K, N) -> (M, N).
func (c *CPUBackend) MatMul(a, b *ndarray.Array) *ndarray.Array {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D arrays supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	result := ndarray.Zeros(ndarray.Shape{m, n}, a.DType(), c.device)

	switch a.DType() {
	case ndarray.Float32:
		matmulRows(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n, c.tiledMatMul, c.par)
	case ndarray.Float64:
		matmulRows(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n, c.tiledMatMul, c.par)
	case ndarray.Int32:
		matmulRows(result.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n, c.tiledMatMul, c.par)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulRows splits the output rows across workers and picks the kernel.
func matmulRows[T number](out, a, b []T, m, k, n int, tiled bool, cfg parallel.Config) {
	parallel.ForRows(m, func(start, end int) {
		if tiled {
			matmulTiled(out, a, b, k, n, start, end)
		} else {
			matmulNaive(out, a, b, k, n, start, end)
		}
	}, cfg)
}

// matmulNaive computes out[i,j] = sum_k a[i,k] * b[k,j] for rows [start, end).
func matmulNaive[T number](out, a, b []T, k, n, start, end int) {
	for i := start; i < end; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[i*k+kIdx] * b[kIdx*n+j]
			}
			out[i*n+j] = sum
		}
	}
}

// matmulTiled uses i-k-j ordering with k tiling. The inner j loop walks
// both out and b contiguously, which the compiler vectorizes on wide lanes.
func matmulTiled[T number](out, a, b []T, k, n, start, end int) {
	for k0 := 0; k0 < k; k0 += matmulTile {
		kEnd := min(k0+matmulTile, k)
		for i := start; i < end; i++ {
			outRow := out[i*n : (i+1)*n]
			for kIdx := k0; kIdx < kEnd; kIdx++ {
				aik := a[i*k+kIdx]
				if aik == 0 {
					continue
				}
				bRow := b[kIdx*n : (kIdx+1)*n]
				for j := range outRow {
					outRow[j] += aik * bRow[j]
				}
			}
		}
	}
}
