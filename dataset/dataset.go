// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides the public API for dataset batches and iterators.
package dataset

import (
	"math/rand"

	"github.com/strata-ml/strata/internal/dataset"
	"github.com/strata-ml/strata/internal/ndarray"
)

// DataSet is one batch of features, labels and optional masks.
type DataSet = dataset.DataSet

// Iterator walks a dataset batch by batch.
type Iterator = dataset.Iterator

// SliceIterator serves fixed-size batches of in-memory arrays.
type SliceIterator = dataset.SliceIterator

// TokenSequenceIterator serves next-token windows over tokenized text.
type TokenSequenceIterator = dataset.TokenSequenceIterator

// New builds a dataset from feature and label arrays.
func New(features, labels *ndarray.Array) (*DataSet, error) {
	return dataset.New(features, labels)
}

// NewSliceIterator slices features and labels into fixed-size batches.
func NewSliceIterator(features, labels *ndarray.Array, batchSize int) (*SliceIterator, error) {
	return dataset.NewSliceIterator(features, labels, batchSize)
}

// NewShuffledSliceIterator permutes example rows before batching.
func NewShuffledSliceIterator(features, labels *ndarray.Array, batchSize int, rng *rand.Rand) (*SliceIterator, error) {
	return dataset.NewShuffledSliceIterator(features, labels, batchSize, rng)
}

// NewTokenSequenceIterator tokenizes text and serves next-token windows.
func NewTokenSequenceIterator(text, encoding string, vocabSize, windowLen, batchSize int) (*TokenSequenceIterator, error) {
	return dataset.NewTokenSequenceIterator(text, encoding, vocabSize, windowLen, batchSize)
}

// Reset rewinds an iterator unconditionally.
func Reset(it Iterator) {
	it.Reset()
}

// ResetIfEmpty rewinds an iterator only when it is exhausted. A fresh or
// half-consumed iterator is left alone.
func ResetIfEmpty(it Iterator) {
	if !it.HasNext() {
		it.Reset()
	}
}
