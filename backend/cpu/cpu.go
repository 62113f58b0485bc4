// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/strata-ml/strata/internal/backend/cpu"
	"github.com/strata-ml/strata/ndarray"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of all array operations,
// with a blocked matmul kernel on AVX2-capable hardware and chunked
// parallel loops for large arrays.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements ndarray.Backend.
var _ ndarray.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/strata-ml/strata/backend/cpu"
//	    "github.com/strata-ml/strata/network"
//	)
//
//	func main() {
//	    net, _ := network.New(network.Config{Backend: cpu.New()},
//	        network.OutputLayer(4, 2, network.Softmax, network.CrossEntropy),
//	    )
//	    _, _ = network.Init(net)
//	}
func New() *Backend {
	return internalcpu.New()
}
