package optim

import (
	"fmt"
	"math"

	"github.com/strata-ml/strata/internal/gradient"
	"github.com/strata-ml/strata/internal/ndarray"
)

// Adam implements the Adam optimizer with bias-corrected first and second
// moment estimates.
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	m map[string][]float32
	v map[string][]float32
	t int
}

var _ Updater = (*Adam)(nil)

// NewAdam creates an Adam updater with the standard defaults
// (beta1 0.9, beta2 0.999, eps 1e-8).
func NewAdam(lr float64) *Adam {
	return &Adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     make(map[string][]float32),
		v:     make(map[string][]float32),
	}
}

// LR returns the learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// Step updates every parameter that has a gradient under the same name.
func (a *Adam) Step(params map[string]*ndarray.Array, grads *gradient.DefaultTable) error {
	a.t++
	bc1 := 1 - math.Pow(a.beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.beta2, float64(a.t))

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

		m := a.m[name]
		v := a.v[name]
		if m == nil {
			m = make([]float32, len(gData))
			v = make([]float32, len(gData))
			a.m[name] = m
			a.v[name] = v
		}

		step := make([]float32, len(gData))
		for i, gv := range gData {
			gf := float64(gv)
			mf := a.beta1*float64(m[i]) + (1-a.beta1)*gf
			vf := a.beta2*float64(v[i]) + (1-a.beta2)*gf*gf
			m[i] = float32(mf)
			v[i] = float32(vf)
			step[i] = float32(a.lr * (mf / bc1) / (math.Sqrt(vf/bc2) + a.eps))
		}
		applyInPlace(param, step)
	}
	return nil
}
