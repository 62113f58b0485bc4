// Package gradient implements the named-variable gradient table produced by
// a fit pass and consumed by updaters.
package gradient

import (
	"fmt"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Order is the flattening order used when reshaping a gradient array to a
// flat vector: 'c' for row-major, 'f' for column-major.
type Order byte

// Supported flattening orders.
const (
	RowMajor    Order = 'c'
	ColumnMajor Order = 'f'
)

// DefaultTable maps variable names to their gradient arrays, with an
// optional per-variable flattening order. Variable iteration preserves
// insertion order so that flattened vectors are stable across calls.
type DefaultTable struct {
	names  []string
	arrays map[string]*ndarray.Array
	orders map[string]Order
}

// NewDefault creates an empty gradient table.
func NewDefault() *DefaultTable {
	return &DefaultTable{
		arrays: make(map[string]*ndarray.Array),
		orders: make(map[string]Order),
	}
}

// Set stores the gradient array for a variable, replacing any previous one.
func (t *DefaultTable) Set(variable string, a *ndarray.Array) {
	if _, exists := t.arrays[variable]; !exists {
		t.names = append(t.names, variable)
	}
	t.arrays[variable] = a
}

// SetWithOrder stores the gradient array for a variable and tags it with an
// explicit flattening order.
func (t *DefaultTable) SetWithOrder(variable string, a *ndarray.Array, order Order) {
	t.Set(variable, a)
	t.orders[variable] = order
}

// Get returns the gradient array for a variable, or nil if absent.
func (t *DefaultTable) Get(variable string) *ndarray.Array {
	return t.arrays[variable]
}

// OrderFor returns the explicit flattening order tagged for a variable.
func (t *DefaultTable) OrderFor(variable string) (Order, bool) {
	order, ok := t.orders[variable]
	return order, ok
}

// Names returns the variable names in insertion order.
func (t *DefaultTable) Names() []string {
	return append([]string(nil), t.names...)
}

// Table returns the underlying name to array mapping.
func (t *DefaultTable) Table() map[string]*ndarray.Array {
	return t.arrays
}

// Vector flattens every gradient into a single [1, N] float32 row vector.
//
// Each variable is flattened in its tagged order when one was set, falling
// back to the given default order otherwise.
func (t *DefaultTable) Vector(defaultOrder Order) (*ndarray.Array, error) {
	total := 0
	for _, name := range t.names {
		total += t.arrays[name].NumElements()
	}
	if total == 0 {
		return nil, fmt.Errorf("gradient table is empty")
	}

	out := make([]float32, 0, total)
	for _, name := range t.names {
		order := defaultOrder
		if tagged, ok := t.orders[name]; ok {
			order = tagged
		}
		flat, err := flatten(t.arrays[name], order)
		if err != nil {
			return nil, fmt.Errorf("flatten %q: %w", name, err)
		}
		out = append(out, flat...)
	}

	return ndarray.FromSlice32(out, ndarray.Shape{1, total}, ndarray.CPU)
}

// Clear drops all entries and releases the retained arrays.
func (t *DefaultTable) Clear() {
	for _, a := range t.arrays {
		a.Release()
	}
	t.names = nil
	t.arrays = make(map[string]*ndarray.Array)
	t.orders = make(map[string]Order)
}

// flatten copies an array's elements into a flat slice in the given order.
// Column-major flattening is defined for 1D and 2D arrays.
func flatten(a *ndarray.Array, order Order) ([]float32, error) {
	data := a.AsFloat32()

	switch order {
	case RowMajor:
		return append([]float32(nil), data...), nil
	case ColumnMajor:
		shape := a.Shape()
		switch len(shape) {
		case 1:
			return append([]float32(nil), data...), nil
		case 2:
			rows, cols := shape[0], shape[1]
			out := make([]float32, 0, len(data))
			for j := 0; j < cols; j++ {
				for i := 0; i < rows; i++ {
					out = append(out, data[i*cols+j])
				}
			}
			return out, nil
		default:
			return nil, fmt.Errorf("column-major flattening is only defined for 1D and 2D arrays, got shape %v", shape)
		}
	default:
		return nil, fmt.Errorf("unknown flattening order %q", order)
	}
}
