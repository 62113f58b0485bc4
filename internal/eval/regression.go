package eval

import (
	"fmt"
	"math"

	"github.com/strata-ml/strata/internal/ndarray"
)

// RegressionEvaluation accumulates error statistics for real-valued outputs.
type RegressionEvaluation struct {
	sumSquared float64
	sumAbs     float64
	count      int
}

// NewRegressionEvaluation creates an empty regression evaluation.
func NewRegressionEvaluation() *RegressionEvaluation {
	return &RegressionEvaluation{}
}

// Eval folds one batch of predictions against its targets.
func (e *RegressionEvaluation) Eval(targets, predictions *ndarray.Array) error {
	if targets == nil || predictions == nil {
		return fmt.Errorf("eval: targets and predictions must not be nil")
	}
	if !targets.Shape().Equal(predictions.Shape()) {
		return fmt.Errorf("eval: shape mismatch %v vs %v", targets.Shape(), predictions.Shape())
	}

	t := targets.AsFloat32()
	p := predictions.AsFloat32()
	for i := range t {
		d := float64(p[i] - t[i])
		e.sumSquared += d * d
		e.sumAbs += math.Abs(d)
	}
	e.count += len(t)
	return nil
}

// MSE returns the mean squared error over everything folded in so far.
func (e *RegressionEvaluation) MSE() float64 {
	if e.count == 0 {
		return 0
	}
	return e.sumSquared / float64(e.count)
}

// MAE returns the mean absolute error over everything folded in so far.
func (e *RegressionEvaluation) MAE() float64 {
	if e.count == 0 {
		return 0
	}
	return e.sumAbs / float64(e.count)
}

// Stats renders a one-line summary.
func (e *RegressionEvaluation) Stats() string {
	return fmt.Sprintf("values: %d  mse: %.6f  mae: %.6f", e.count, e.MSE(), e.MAE())
}
