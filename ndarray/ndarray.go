// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ndarray provides the public API for dense array operations in the
// Strata ML toolkit.
//
// The package defines the core array types and the coercion layer used by
// the keyword call surface:
//   - Array: dense row-major array with copy-on-write buffers
//   - Shape, DataType, Device: core type definitions
//   - Backend: interface for device-specific compute implementations
//   - Value: tagged union accepting arrays or raw Go sequences
//
// Example:
//
//	a, _ := ndarray.FromSlice32([]float32{1, 2, 3, 4}, ndarray.Shape{2, 2}, ndarray.CPU)
//	b := ndarray.Ones(ndarray.Shape{2, 2}, ndarray.Float32, ndarray.CPU)
//	c := backend.Add(a, b)
package ndarray

import (
	"math/rand"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Array is a dense row-major n-dimensional array.
type Array = ndarray.Array

// Shape represents the dimensions of an array.
// Example: Shape{2, 3} is a 2x3 matrix.
type Shape = ndarray.Shape

// DataType represents the underlying element type of an array.
type DataType = ndarray.DataType

// Data type constants.
const (
	Float32 DataType = ndarray.Float32
	Float64 DataType = ndarray.Float64
	Int32   DataType = ndarray.Int32
)

// Device represents where array data resides.
type Device = ndarray.Device

// Device constants.
const (
	CPU    Device = ndarray.CPU
	WebGPU Device = ndarray.WebGPU
)

// Backend is the compute interface implemented by the CPU and WebGPU
// backends.
type Backend = ndarray.Backend

// New creates an uninitialized array.
func New(shape Shape, dtype DataType, device Device) (*Array, error) {
	return ndarray.New(shape, dtype, device)
}

// Zeros creates a zero-filled array.
func Zeros(shape Shape, dtype DataType, device Device) *Array {
	return ndarray.Zeros(shape, dtype, device)
}

// Ones creates an array filled with ones.
func Ones(shape Shape, dtype DataType, device Device) *Array {
	return ndarray.Ones(shape, dtype, device)
}

// Full creates an array filled with a specific value.
func Full(shape Shape, value float64, dtype DataType, device Device) *Array {
	return ndarray.Full(shape, value, dtype, device)
}

// Randn creates a float32 array with values drawn from N(0, 1).
func Randn(shape Shape, device Device, rng *rand.Rand) *Array {
	return ndarray.Randn(shape, device, rng)
}

// FromSlice32 creates a float32 array from a flat Go slice.
func FromSlice32(data []float32, shape Shape, device Device) (*Array, error) {
	return ndarray.FromSlice32(data, shape, device)
}

// FromNested32 creates a 2D float32 array from nested row slices.
func FromNested32(rows [][]float32, device Device) (*Array, error) {
	return ndarray.FromNested32(rows, device)
}
