// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package network

import (
	"fmt"

	"github.com/strata-ml/strata/dataset"
	"github.com/strata-ml/strata/eval"
	"github.com/strata-ml/strata/kw"
	"github.com/strata-ml/strata/ndarray"
)

// Parameter extraction helpers. Dispatch guarantees key presence; these
// check the dynamic type and report the offending parameter.

func handleOf(p kw.Params) (Handle, error) {
	v := p[KeyNetwork]
	h, ok := v.(Handle)
	if !ok {
		return nil, fmt.Errorf("parameter %q: expected network.Handle, got %T", KeyNetwork, v)
	}
	return h, nil
}

func iterOf(p kw.Params) (dataset.Iterator, error) {
	v := p[KeyIter]
	it, ok := v.(dataset.Iterator)
	if !ok {
		return nil, fmt.Errorf("parameter %q: expected dataset.Iterator, got %T", KeyIter, v)
	}
	return it, nil
}

func datasetOf(p kw.Params) (*dataset.DataSet, error) {
	v := p[KeyDataset]
	ds, ok := v.(*dataset.DataSet)
	if !ok {
		return nil, fmt.Errorf("parameter %q: expected *dataset.DataSet, got %T", KeyDataset, v)
	}
	return ds, nil
}

func namesOf(p kw.Params, key string) ([]string, error) {
	v := p[key]
	names, ok := v.([]string)
	if !ok {
		return nil, fmt.Errorf("parameter %q: expected []string, got %T", key, v)
	}
	return names, nil
}

// coerce materializes an array-valued parameter. Native arrays pass
// through unchanged; raw sequences are converted without shape validation,
// so ill-shaped data surfaces as the engine's own error at point of use.
func coerce(p kw.Params, key string) (*ndarray.Array, error) {
	return coerceValue(p[key], key)
}

func coerceValue(v any, name string) (*ndarray.Array, error) {
	switch x := v.(type) {
	case *ndarray.Array:
		return x, nil
	case ndarray.Value:
		return x.Materialize(ndarray.CPU)
	case []float32:
		return ndarray.FromVector(x).Materialize(ndarray.CPU)
	case [][]float32:
		return ndarray.FromRows(x).Materialize(ndarray.CPU)
	default:
		return nil, fmt.Errorf("parameter %q: expected an array or a raw sequence, got %T", name, v)
	}
}

func modeOf(p kw.Params) (TrainingMode, error) {
	switch v := p[KeyMode].(type) {
	case TrainingMode:
		return v, nil
	case string:
		switch v {
		case "train":
			return Train, nil
		case "test":
			return Test, nil
		}
		return Test, fmt.Errorf("parameter %q: unknown mode %q", KeyMode, v)
	default:
		return Test, fmt.Errorf("parameter %q: expected a training mode, got %T", KeyMode, v)
	}
}

// Evaluate runs classification evaluation. Dispatch, in priority order:
//
//	{network, iter, labels, top-n > 0} -> top-N evaluation
//	{network, iter, labels}            -> evaluation with class names
//	{network, iter}                    -> plain evaluation
//
// The iterator is reset unconditionally before the pass. A top-n that is
// present but not positive falls through to the next pattern.
func Evaluate(p kw.Params) (*eval.Evaluation, error) {
	res, err := kw.Dispatch("evaluate", p, []kw.Pattern{
		{
			Keys: []string{KeyNetwork, KeyIter, KeyLabels, KeyTopN},
			Guard: func(p kw.Params) bool {
				n, err := p.Int(KeyTopN)
				return err == nil && n > 0
			},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				names, err := namesOf(p, KeyLabels)
				if err != nil {
					return nil, err
				}
				n, err := p.Int(KeyTopN)
				if err != nil {
					return nil, err
				}
				dataset.Reset(it)
				return h.EvaluateTopN(it, names, n)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyIter, KeyLabels},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				names, err := namesOf(p, KeyLabels)
				if err != nil {
					return nil, err
				}
				dataset.Reset(it)
				return h.EvaluateWithLabels(it, names)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyIter},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				dataset.Reset(it)
				return h.Evaluate(it)
			},
		},
	}, "requires a network handle and a dataset iterator")
	if err != nil {
		return nil, err
	}
	return res.(*eval.Evaluation), nil
}

// Output computes network outputs. Dispatch, in priority order:
//
//	{network, input, train, features-mask, labels-mask} -> masked output
//	{network, input, mode}                              -> mode-tagged output
//	{network, input, train}
//	{network, iter, train}
//	{network, input}
//	{network, iter}
//
// Iterator-driven variants reset the iterator only when it is exhausted.
func Output(p kw.Params) (*ndarray.Array, error) {
	res, err := kw.Dispatch("output", p, []kw.Pattern{
		{
			Keys: []string{KeyNetwork, KeyInput, KeyTrain, KeyFeaturesMask, KeyLabelsMask},
			Call: func(p kw.Params) (any, error) {
				h, err := handleOf(p)
				if err != nil {
					return nil, err
				}
				input, err := coerce(p, KeyInput)
				if err != nil {
					return nil, err
				}
				fMask, err := coerce(p, KeyFeaturesMask)
				if err != nil {
					return nil, err
				}
				lMask, err := coerce(p, KeyLabelsMask)
				if err != nil {
					return nil, err
				}
				train, err := p.Bool(KeyTrain)
				if err != nil {
					return nil, err
				}
				return h.OutputMasked(input, fMask, lMask, train)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyInput, KeyMode},
			Call: func(p kw.Params) (any, error) {
				h, err := handleOf(p)
				if err != nil {
					return nil, err
				}
				input, err := coerce(p, KeyInput)
				if err != nil {
					return nil, err
				}
				mode, err := modeOf(p)
				if err != nil {
					return nil, err
				}
				return h.OutputMode(input, mode)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyInput, KeyTrain},
			Call: func(p kw.Params) (any, error) {
				h, err := handleOf(p)
				if err != nil {
					return nil, err
				}
				input, err := coerce(p, KeyInput)
				if err != nil {
					return nil, err
				}
				train, err := p.Bool(KeyTrain)
				if err != nil {
					return nil, err
				}
				return h.Output(input, train)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyIter, KeyTrain},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				train, err := p.Bool(KeyTrain)
				if err != nil {
					return nil, err
				}
				dataset.ResetIfEmpty(it)
				return h.OutputIterator(it, train)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyInput},
			Call: func(p kw.Params) (any, error) {
				h, err := handleOf(p)
				if err != nil {
					return nil, err
				}
				input, err := coerce(p, KeyInput)
				if err != nil {
					return nil, err
				}
				return h.Output(input, false)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyIter},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				dataset.ResetIfEmpty(it)
				return h.OutputIterator(it, false)
			},
		},
	}, "requires a network handle and either an input array or a dataset iterator")
	if err != nil {
		return nil, err
	}
	return res.(*ndarray.Array), nil
}

// PretrainLayer runs unsupervised pretraining of a single layer and returns
// the same handle. Dispatch, in priority order:
//
//	{network, layer-idx, iter}     (unconditional reset)
//	{network, layer-idx, features}
func PretrainLayer(p kw.Params) (Handle, error) {
	res, err := kw.Dispatch("pretrain-layer", p, []kw.Pattern{
		{
			Keys: []string{KeyNetwork, KeyLayerIdx, KeyIter},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				idx, err := p.Int(KeyLayerIdx)
				if err != nil {
					return nil, err
				}
				dataset.Reset(it)
				if err := h.PretrainLayer(idx, it); err != nil {
					return nil, err
				}
				return h, nil
			},
		},
		{
			Keys: []string{KeyNetwork, KeyLayerIdx, KeyFeatures},
			Call: func(p kw.Params) (any, error) {
				h, err := handleOf(p)
				if err != nil {
					return nil, err
				}
				idx, err := p.Int(KeyLayerIdx)
				if err != nil {
					return nil, err
				}
				features, err := coerce(p, KeyFeatures)
				if err != nil {
					return nil, err
				}
				if err := h.PretrainLayerOn(idx, features); err != nil {
					return nil, err
				}
				return h, nil
			},
		},
	}, "must supply a layer index and either a dataset iterator or a feature array")
	if err != nil {
		return nil, err
	}
	return res.(Handle), nil
}

// FeedForwardToLayer returns the activations of every stage up to a layer,
// input included. Dispatch, in priority order:
//
//	{network, layer-idx, train, input}
//	{network, layer-idx, train}        (uses the stored input)
//	{network, layer-idx, input}        (inference mode)
func FeedForwardToLayer(p kw.Params) ([]*ndarray.Array, error) {
	res, err := kw.Dispatch("feed-forward-to-layer", p, []kw.Pattern{
		{
			Keys: []string{KeyNetwork, KeyLayerIdx, KeyTrain, KeyInput},
			Call: func(p kw.Params) (any, error) {
				h, idx, err := handleAndLayer(p)
				if err != nil {
					return nil, err
				}
				train, err := p.Bool(KeyTrain)
				if err != nil {
					return nil, err
				}
				input, err := coerce(p, KeyInput)
				if err != nil {
					return nil, err
				}
				return h.FeedForwardToLayer(idx, input, train)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyLayerIdx, KeyTrain},
			Call: func(p kw.Params) (any, error) {
				h, idx, err := handleAndLayer(p)
				if err != nil {
					return nil, err
				}
				train, err := p.Bool(KeyTrain)
				if err != nil {
					return nil, err
				}
				return h.FeedForwardToLayerTrain(idx, train)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyLayerIdx, KeyInput},
			Call: func(p kw.Params) (any, error) {
				h, idx, err := handleAndLayer(p)
				if err != nil {
					return nil, err
				}
				input, err := coerce(p, KeyInput)
				if err != nil {
					return nil, err
				}
				return h.FeedForwardToLayerInput(idx, input)
			},
		},
	}, "requires a network handle, a layer index, and at least one of a train flag or an input array")
	if err != nil {
		return nil, err
	}
	return res.([]*ndarray.Array), nil
}

// ScoreExamples computes per-example loss columns. Dispatch, in priority
// order:
//
//	{network, dataset, add-regularization}
//	{network, iter, add-regularization}   (reset only when exhausted)
func ScoreExamples(p kw.Params) (*ndarray.Array, error) {
	res, err := kw.Dispatch("score-examples", p, []kw.Pattern{
		{
			Keys: []string{KeyNetwork, KeyDataset, KeyAddRegularization},
			Call: func(p kw.Params) (any, error) {
				h, err := handleOf(p)
				if err != nil {
					return nil, err
				}
				ds, err := datasetOf(p)
				if err != nil {
					return nil, err
				}
				reg, err := p.Bool(KeyAddRegularization)
				if err != nil {
					return nil, err
				}
				return h.ScoreExamples(ds, reg)
			},
		},
		{
			Keys: []string{KeyNetwork, KeyIter, KeyAddRegularization},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				reg, err := p.Bool(KeyAddRegularization)
				if err != nil {
					return nil, err
				}
				dataset.ResetIfEmpty(it)
				return h.ScoreExamplesIterator(it, reg)
			},
		},
	}, "must supply a dataset or a dataset iterator")
	if err != nil {
		return nil, err
	}
	return res.(*ndarray.Array), nil
}

// Fit runs supervised training and returns the same handle. Dispatch, in
// priority order:
//
//	{network, iter}             (unconditional reset)
//	{network, features, labels}
func Fit(p kw.Params) (Handle, error) {
	res, err := kw.Dispatch("fit", p, []kw.Pattern{
		{
			Keys: []string{KeyNetwork, KeyIter},
			Call: func(p kw.Params) (any, error) {
				h, it, err := handleAndIter(p)
				if err != nil {
					return nil, err
				}
				dataset.Reset(it)
				if err := h.Fit(it); err != nil {
					return nil, err
				}
				return h, nil
			},
		},
		{
			Keys: []string{KeyNetwork, KeyFeatures, KeyLabels},
			Call: func(p kw.Params) (any, error) {
				h, err := handleOf(p)
				if err != nil {
					return nil, err
				}
				features, err := coerce(p, KeyFeatures)
				if err != nil {
					return nil, err
				}
				labels, err := coerce(p, KeyLabels)
				if err != nil {
					return nil, err
				}
				if err := h.FitData(features, labels); err != nil {
					return nil, err
				}
				return h, nil
			},
		},
	}, "requires a network handle and either a dataset iterator or feature and label arrays")
	if err != nil {
		return nil, err
	}
	return res.(Handle), nil
}

func handleAndIter(p kw.Params) (Handle, dataset.Iterator, error) {
	h, err := handleOf(p)
	if err != nil {
		return nil, nil, err
	}
	it, err := iterOf(p)
	if err != nil {
		return nil, nil, err
	}
	return h, it, nil
}

func handleAndLayer(p kw.Params) (Handle, int, error) {
	h, err := handleOf(p)
	if err != nil {
		return nil, 0, err
	}
	idx, err := p.Int(KeyLayerIdx)
	if err != nil {
		return nil, 0, err
	}
	return h, idx, nil
}
