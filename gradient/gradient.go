// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradient provides the public API for the named-variable gradient
// table. Every function is a one-to-one delegation to the table; there is
// no dispatch at this layer.
package gradient

import (
	"github.com/strata-ml/strata/internal/gradient"
	"github.com/strata-ml/strata/internal/ndarray"
)

// Order is the flattening order used when reading a gradient as a flat
// vector: RowMajor ('c') or ColumnMajor ('f').
type Order = gradient.Order

// Flattening orders.
const (
	RowMajor    Order = gradient.RowMajor
	ColumnMajor Order = gradient.ColumnMajor
)

// Table is the gradient table surface: whole-table and flat-vector reads,
// per-variable reads and writes, and clearing.
type Table interface {
	Get(variable string) *ndarray.Array
	Set(variable string, a *ndarray.Array)
	SetWithOrder(variable string, a *ndarray.Array, order Order)
	Table() map[string]*ndarray.Array
	Vector(defaultOrder Order) (*ndarray.Array, error)
	Clear()
}

// DefaultTable is the standard insertion-ordered implementation.
type DefaultTable = gradient.DefaultTable

// Compile-time check that the default implementation satisfies Table.
var _ Table = (*DefaultTable)(nil)

// NewDefault creates an empty gradient table.
func NewDefault() *DefaultTable {
	return gradient.NewDefault()
}

// GetGradientFor returns the gradient array stored for a variable, or nil
// when the variable has no entry.
func GetGradientFor(t Table, variable string) *ndarray.Array {
	return t.Get(variable)
}

// SetGradientFor stores the gradient array for a variable.
func SetGradientFor(t Table, variable string, a *ndarray.Array) {
	t.Set(variable, a)
}

// SetGradientForWithOrder stores the gradient array for a variable tagged
// with an explicit flattening order.
func SetGradientForWithOrder(t Table, variable string, a *ndarray.Array, order Order) {
	t.SetWithOrder(variable, a, order)
}

// GradientVector flattens the whole table into a single row vector in
// row-major order.
func GradientVector(t Table) (*ndarray.Array, error) {
	return t.Vector(RowMajor)
}

// GradientVectorOrder flattens the whole table in the given default order.
// Variables tagged with their own order keep it.
func GradientVectorOrder(t Table, order Order) (*ndarray.Array, error) {
	return t.Vector(order)
}

// AsMap returns the table's name to array mapping.
func AsMap(t Table) map[string]*ndarray.Array {
	return t.Table()
}

// ClearGradient drops every entry from the table.
func ClearGradient(t Table) {
	t.Clear()
}
