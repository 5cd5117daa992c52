package engine

import (
	"testing"

	"github.com/tphakala/go-hq-resampler/internal/fft"
	"github.com/tphakala/go-hq-resampler/internal/filter"
	"github.com/tphakala/go-hq-resampler/internal/pipeline"
	"github.com/tphakala/go-hq-resampler/internal/testutil"
)

// streamChunks is the chunking used by the streaming equivalence tests.
var streamChunks = []int{1, 7, 50, 942}

func newTestCache() *filter.Cache {
	return filter.NewCache(filter.CacheOptions{Keeper: fft.NewKeeper()})
}

// processChunked feeds in to s chunk samples at a time.
func processChunked(s pipeline.Stage, in []float64, chunk int) []float64 {
	out := make([]float64, s.MaxOutLen(chunk))
	return testutil.Chunked(func(p []float64) []float64 {
		return s.Process(p, out)
	}, in, chunk)
}

// measureInLenBeforeOutStart feeds single samples into a fresh stage and
// returns how many were fed before the call that produced output n.
func measureInLenBeforeOutStart(t *testing.T, s pipeline.Stage, n, limit int) int {
	t.Helper()
	s.Clear()
	out := make([]float64, s.MaxOutLen(1))
	one := []float64{0.5}
	produced := 0
	for fed := range limit {
		produced += len(s.Process(one, out))
		if produced > n {
			return fed
		}
	}
	t.Fatalf("output %d not produced within %d inputs", n, limit)
	return -1
}
