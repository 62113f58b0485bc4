// Package optim implements the parameter updaters applied after each fit
// step. Updaters match parameters to gradients by variable name.
package optim

import (
	"fmt"

	"github.com/strata-ml/strata/internal/gradient"
	"github.com/strata-ml/strata/internal/ndarray"
)

// Updater applies one optimization step to named parameters using the
// gradients accumulated in a table under the same names.
type Updater interface {
	Step(params map[string]*ndarray.Array, grads *gradient.DefaultTable) error
	LR() float64
}

// New builds an updater by name. Supported kinds are "sgd", "momentum"
// (SGD with momentum) and "adam".
func New(kind string, lr, momentum float64) (Updater, error) {
	switch kind {
	case "", "sgd":
		return NewSGD(lr, 0), nil
	case "momentum":
		return NewSGD(lr, momentum), nil
	case "adam":
		return NewAdam(lr), nil
	default:
		return nil, fmt.Errorf("optim: unknown updater %q", kind)
	}
}

// applyInPlace subtracts step from param element by element.
func applyInPlace(param *ndarray.Array, step []float32) {
	data := param.AsFloat32()
	for i := range data {
		data[i] -= step[i]
	}
}
