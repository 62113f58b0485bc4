package optim

import (
	"fmt"

	"github.com/strata-ml/strata/internal/gradient"
	"github.com/strata-ml/strata/internal/ndarray"
)

// SGD is stochastic gradient descent with optional momentum.
//
//	v = momentum*v + grad
//	param -= lr * v
type SGD struct {
	lr       float64
	momentum float64

	// Velocity per variable name, allocated lazily.
	velocity map[string][]float32
}

var _ Updater = (*SGD)(nil)

// NewSGD creates an SGD updater. A momentum of 0 gives plain gradient
// descent.
func NewSGD(lr, momentum float64) *SGD {
	return &SGD{lr: lr, momentum: momentum, velocity: make(map[string][]float32)}
}

// LR returns the learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// Step updates every parameter that has a gradient under the same name.
func (s *SGD) Step(params map[string]*ndarray.Array, grads *gradient.DefaultTable) error {
	for name, param := range params {
		g := grads.Get(name)
		if g == nil {
			continue
		}
		gData := g.AsFloat32()
		if param.NumElements() != len(gData) {
			return fmt.Errorf("optim: parameter %q has %d elements but gradient has %d",
				name, param.NumElements(), len(gData))
		}

		step := make([]float32, len(gData))
		if s.momentum == 0 {
			for i, gv := range gData {
				step[i] = float32(s.lr) * gv
			}
		} else {
			v := s.velocity[name]
			if v == nil {
				v = make([]float32, len(gData))
				s.velocity[name] = v
			}
			m := float32(s.momentum)
			for i, gv := range gData {
				v[i] = m*v[i] + gv
				step[i] = float32(s.lr) * v[i]
			}
		}
		applyInPlace(param, step)
	}
	return nil
}
