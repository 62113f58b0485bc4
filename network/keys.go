// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package network

// Parameter names understood by the keyword operations. Dispatch is driven
// by which of these are present in the call's kw.Params.
const (
	// KeyNetwork holds the Handle every operation acts on.
	KeyNetwork = "network"

	// KeyIter holds a dataset.Iterator.
	KeyIter = "iter"

	// KeyDataset holds a *dataset.DataSet.
	KeyDataset = "dataset"

	// KeyInput and KeyFeatures hold array-valued data and accept an
	// ndarray.Value, a *ndarray.Array, a []float32 or a [][]float32.
	KeyInput    = "input"
	KeyFeatures = "features"

	// KeyLabels holds an array-valued label batch for fitting, or class
	// display names ([]string) for evaluation.
	KeyLabels = "labels"

	// KeyFeaturesMask and KeyLabelsMask hold optional per-example masks.
	KeyFeaturesMask = "features-mask"
	KeyLabelsMask   = "labels-mask"

	// KeyTrain holds a bool selecting training-mode forward passes.
	KeyTrain = "train"

	// KeyMode holds a TrainingMode.
	KeyMode = "mode"

	// KeyTopN holds an int; evaluation treats it as set only when
	// positive.
	KeyTopN = "top-n"

	// KeyLayerIdx holds an int layer position.
	KeyLayerIdx = "layer-idx"

	// KeyAddRegularization holds a bool for example scoring.
	KeyAddRegularization = "add-regularization"
)
