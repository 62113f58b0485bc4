//go:build windows

// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated array
// operations.
//
// Float32 element-wise and matmul work runs on the GPU; the remaining
// operations use the CPU kernels, since array data is host-resident either
// way.
//
// Example:
//
//	import (
//	    "github.com/strata-ml/strata/backend/webgpu"
//	    "github.com/strata-ml/strata/network"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    net, _ := network.New(network.Config{Backend: gpu},
//	        network.Dense(784, 128, network.ReLU),
//	        network.OutputLayer(128, 10, network.Softmax, network.CrossEntropy),
//	    )
//	}
package webgpu

import (
	internalwebgpu "github.com/strata-ml/strata/internal/backend/webgpu"
	"github.com/strata-ml/strata/ndarray"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements ndarray.Backend.
var _ ndarray.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// Initializes the WebGPU device and returns a backend ready for array
// operations. Call Release when done to free GPU resources. Returns an
// error if WebGPU initialization fails, for example when no compatible GPU
// is present.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU can be initialized on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
