package dataset

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/strata-ml/strata/internal/ndarray"
)

// TokenSequenceIterator serves next-token prediction batches built from raw
// text. The text is tokenized with a BPE encoding, token ids are folded into
// a bounded vocabulary, and each example is a window of one-hot token vectors
// with the following token as its one-hot label.
type TokenSequenceIterator struct {
	tokens    []int
	vocabSize int
	windowLen int
	batchSize int
	cursor    int
}

var _ Iterator = (*TokenSequenceIterator)(nil)

// NewTokenSequenceIterator tokenizes text with the named encoding (for
// example "cl100k_base") and prepares windowed next-token examples.
//
// vocabSize bounds the feature width: token ids are reduced modulo vocabSize
// so the one-hot width stays fixed regardless of the encoding's vocabulary.
func NewTokenSequenceIterator(text, encoding string, vocabSize, windowLen, batchSize int) (*TokenSequenceIterator, error) {
	if vocabSize <= 0 || windowLen <= 0 || batchSize <= 0 {
		return nil, fmt.Errorf("dataset: vocabSize, windowLen and batchSize must be positive")
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("dataset: load encoding %q: %w", encoding, err)
	}

	ids := enc.Encode(text, nil, nil)
	if len(ids) < windowLen+1 {
		return nil, fmt.Errorf("dataset: text yields %d tokens, need at least %d", len(ids), windowLen+1)
	}

	tokens := make([]int, len(ids))
	for i, id := range ids {
		tokens[i] = id % vocabSize
	}

	return &TokenSequenceIterator{
		tokens:    tokens,
		vocabSize: vocabSize,
		windowLen: windowLen,
		batchSize: batchSize,
	}, nil
}

// numExamples is the number of (window, next-token) pairs in the text.
func (it *TokenSequenceIterator) numExamples() int {
	return len(it.tokens) - it.windowLen
}

// HasNext reports whether another batch remains.
func (it *TokenSequenceIterator) HasNext() bool {
	return it.cursor < it.numExamples()
}

// Next builds the next batch. Features are [batch, windowLen*vocabSize]
// concatenated one-hot vectors; labels are [batch, vocabSize] one-hot rows
// for the token following each window.
func (it *TokenSequenceIterator) Next() (*DataSet, error) {
	if !it.HasNext() {
		return nil, fmt.Errorf("dataset: iterator exhausted")
	}

	start := it.cursor
	end := start + it.batchSize
	if end > it.numExamples() {
		end = it.numExamples()
	}
	it.cursor = end

	rows := end - start
	featWidth := it.windowLen * it.vocabSize
	features := make([]float32, rows*featWidth)
	labels := make([]float32, rows*it.vocabSize)

	for r := 0; r < rows; r++ {
		base := start + r
		for w := 0; w < it.windowLen; w++ {
			features[r*featWidth+w*it.vocabSize+it.tokens[base+w]] = 1
		}
		labels[r*it.vocabSize+it.tokens[base+it.windowLen]] = 1
	}

	f, err := ndarray.FromSlice32(features, ndarray.Shape{rows, featWidth}, ndarray.CPU)
	if err != nil {
		return nil, err
	}
	l, err := ndarray.FromSlice32(labels, ndarray.Shape{rows, it.vocabSize}, ndarray.CPU)
	if err != nil {
		return nil, err
	}
	return &DataSet{Features: f, Labels: l}, nil
}

// Reset rewinds to the first window.
func (it *TokenSequenceIterator) Reset() {
	it.cursor = 0
}
