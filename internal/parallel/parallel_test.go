package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForCoversEveryIndexSequential(t *testing.T) {
	cfg := Config{Enabled: false}
	seen := make([]bool, 100)

	For(100, func(i int) { seen[i] = true }, cfg)

	for i, ok := range seen {
		assert.True(t, ok, "index %d not visited", i)
	}
}

func TestForCoversEveryIndexParallel(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}
	var hits [1000]atomic.Int32

	For(1000, func(i int) { hits[i].Add(1) }, cfg)

	for i := range hits {
		assert.Equal(t, int32(1), hits[i].Load(), "index %d", i)
	}
}

func TestForSmallInputStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}
	order := []int{}

	// Below MinChunkSize the loop runs in order on the calling goroutine.
	For(5, func(i int) { order = append(order, i) }, cfg)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestForRowsPartitionsExactly(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3}
	var covered [10]atomic.Int32

	ForRows(10, func(start, end int) {
		for i := start; i < end; i++ {
			covered[i].Add(1)
		}
	}, cfg)

	for i := range covered {
		assert.Equal(t, int32(1), covered[i].Load(), "row %d", i)
	}
}

func TestForRowsSingleRow(t *testing.T) {
	cfg := DefaultConfig()
	calls := 0
	ForRows(1, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 1, end)
	}, cfg)
	assert.Equal(t, 1, calls)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.NumWorkers, 0)
	assert.Greater(t, cfg.MinChunkSize, 0)
}
