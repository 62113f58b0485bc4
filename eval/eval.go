// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package eval provides the public API for classification and regression
// evaluation statistics.
package eval

import (
	"github.com/strata-ml/strata/internal/eval"
)

// Evaluation accumulates classification statistics over prediction batches.
type Evaluation = eval.Evaluation

// RegressionEvaluation accumulates MSE and MAE over prediction batches.
type RegressionEvaluation = eval.RegressionEvaluation

// NewEvaluation creates a classification evaluation over numClasses classes.
func NewEvaluation(numClasses int) *Evaluation {
	return eval.NewEvaluation(numClasses)
}

// NewEvaluationWithLabels creates an evaluation with display names.
func NewEvaluationWithLabels(labels []string) *Evaluation {
	return eval.NewEvaluationWithLabels(labels)
}

// NewEvaluationTopN creates an evaluation that also tracks top-n accuracy.
func NewEvaluationTopN(numClasses, topN int) *Evaluation {
	return eval.NewEvaluationTopN(numClasses, topN)
}

// NewRegressionEvaluation creates an empty regression evaluation.
func NewRegressionEvaluation() *RegressionEvaluation {
	return eval.NewRegressionEvaluation()
}
