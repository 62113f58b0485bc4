package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeIterator records reset calls and serves a fixed number of batches.
type fakeIterator struct {
	remaining int
	resets    int
}

func (f *fakeIterator) Next() (*DataSet, error) {
	f.remaining--
	return &DataSet{}, nil
}

func (f *fakeIterator) HasNext() bool {
	return f.remaining > 0
}

func (f *fakeIterator) Reset() {
	f.resets++
	f.remaining = 3
}

func TestResetAlwaysRewinds(t *testing.T) {
	it := &fakeIterator{remaining: 2}

	Reset(it)
	assert.Equal(t, 1, it.resets)

	// Even a full iterator gets rewound.
	Reset(it)
	assert.Equal(t, 2, it.resets)
}

func TestResetIfEmptyOnlyRewindsExhausted(t *testing.T) {
	it := &fakeIterator{remaining: 2}

	ResetIfEmpty(it)
	assert.Equal(t, 0, it.resets, "half-consumed iterator is left alone")

	it.remaining = 0
	ResetIfEmpty(it)
	assert.Equal(t, 1, it.resets)
	assert.True(t, it.HasNext())
}
