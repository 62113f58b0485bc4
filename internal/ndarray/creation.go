package ndarray

import (
	"fmt"
	"math/rand"
)

// Zeros creates a zero-filled array.
func Zeros(shape Shape, dtype DataType, device Device) *Array {
	a, err := New(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return a
}

// Ones creates an array filled with ones.
func Ones(shape Shape, dtype DataType, device Device) *Array {
	return Full(shape, 1, dtype, device)
}

// Full creates an array filled with a specific value.
func Full(shape Shape, value float64, dtype DataType, device Device) *Array {
	a, err := New(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("full: %v", err))
	}
	switch dtype {
	case Float32:
		data := a.AsFloat32()
		v := float32(value)
		for i := range data {
			data[i] = v
		}
	case Float64:
		data := a.AsFloat64()
		for i := range data {
			data[i] = value
		}
	case Int32:
		data := a.AsInt32()
		v := int32(value)
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("full: unsupported dtype %s", dtype))
	}
	return a
}

// Randn creates a float32 array with values drawn from N(0, 1).
//
// A nil rng falls back to the shared math/rand source.
func Randn(shape Shape, device Device, rng *rand.Rand) *Array {
	a, err := New(shape, Float32, device)
	if err != nil {
		panic(fmt.Sprintf("randn: %v", err))
	}
	data := a.AsFloat32()
	for i := range data {
		if rng != nil {
			data[i] = float32(rng.NormFloat64())
		} else {
			//nolint:gosec // Weight-style initialization, not security-critical.
			data[i] = float32(rand.NormFloat64())
		}
	}
	return a
}

// FromSlice32 creates a float32 array from a flat Go slice.
// The slice is copied into the array's memory.
func FromSlice32(data []float32, shape Shape, device Device) (*Array, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	a, err := New(shape, Float32, device)
	if err != nil {
		return nil, err
	}
	copy(a.AsFloat32(), data)
	return a, nil
}

// FromNested32 creates a 2D float32 array from nested row slices.
//
// All rows must have the same length; a ragged nesting is rejected here,
// at the point of use, not by the call surface that forwarded it.
func FromNested32(rows [][]float32, device Device) (*Array, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot build an array from zero rows")
	}

	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged rows: row 0 has %d columns, row %d has %d", cols, i, len(row))
		}
	}

	a, err := New(Shape{len(rows), cols}, Float32, device)
	if err != nil {
		return nil, err
	}

	data := a.AsFloat32()
	for i, row := range rows {
		copy(data[i*cols:(i+1)*cols], row)
	}
	return a, nil
}
