// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ndarray

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
)

// valueKind tags which variant a Value holds.
type valueKind int

const (
	kindNone valueKind = iota
	kindArray
	kindVector
	kindRows
)

// Value is the tagged union accepted by array-valued keyword parameters.
// It holds either a native array or a raw Go sequence that has not been
// converted yet. Conversion is explicit via Materialize; no implicit
// coercion happens on construction.
type Value struct {
	kind   valueKind
	array  *ndarray.Array
	vector []float32
	rows   [][]float32
}

// FromArray wraps an existing array. Materialize returns it unchanged.
func FromArray(a *Array) Value {
	return Value{kind: kindArray, array: a}
}

// FromVector wraps a flat sequence, materialized as a [1, n] row.
func FromVector(data []float32) Value {
	return Value{kind: kindVector, vector: data}
}

// FromRows wraps a nested sequence, materialized as a [rows, cols] matrix.
// No shape validation happens here; ragged rows fail at Materialize.
func FromRows(rows [][]float32) Value {
	return Value{kind: kindRows, rows: rows}
}

// IsArray reports whether the value holds the native-array variant.
func (v Value) IsArray() bool {
	return v.kind == kindArray
}

// IsZero reports whether the value holds nothing.
func (v Value) IsZero() bool {
	return v.kind == kindNone
}

// Materialize converts the value to a native array on a device.
//
// The native-array variant is returned as is, making materialization
// idempotent: wrapping the result and materializing again yields the same
// array. Raw sequences are copied into a fresh array; a ragged nesting
// fails here with the array layer's own error.
func (v Value) Materialize(device Device) (*Array, error) {
	switch v.kind {
	case kindArray:
		return v.array, nil
	case kindVector:
		return ndarray.FromSlice32(v.vector, Shape{1, len(v.vector)}, device)
	case kindRows:
		return ndarray.FromNested32(v.rows, device)
	default:
		return nil, fmt.Errorf("empty value")
	}
}
