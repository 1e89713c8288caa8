package primesieve

import (
	"sync"
	"time"

	"github.com/haribomueller/primesieve/internal/smallprimes"
)

// chunk is one worker's share of [start, stop].
type chunk struct{ start, stop uint64 }

// SieveParallel is the ParallelDriver: it partitions [start, stop] set by
// SetStart/SetStop into up to threadCount contiguous chunks (see
// splitChunks) and runs an independent
// Segmenter chain per chunk on its own goroutine, merging the resulting
// count vectors. Printing and callbacks force sequential execution — the
// spec's ascending-order guarantee only holds when chunks are drained in
// increasing order, and buffering enough segments to reorder concurrent
// chunk output isn't worth the complexity here — so SieveParallel falls
// back to Sieve whenever a Print* or Callback* flag is set.
func (ps *PrimeSieve) SieveParallel(threadCount int) error {
	if ps.start > ps.stop {
		return newError(InvalidArgument, "start %d exceeds stop %d", ps.start, ps.stop)
	}
	if threadCount < 1 {
		threadCount = 1
	}
	if threadCount == 1 || ps.flags.HasPrint() || ps.flags.HasCallback() {
		return ps.Sieve()
	}

	t0 := time.Now()
	var total [7]uint64
	for _, e := range smallprimes.Applicable(ps.start, ps.stop) {
		if ps.flags.CountEnabled(e.CounterIndex) {
			total[e.CounterIndex]++
		}
	}

	chunks := ps.splitChunks(threadCount)
	results := make([][7]uint64, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, threadCount)
	for i, c := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c chunk) {
			defer wg.Done()
			defer func() { <-sem }()
			counts, err := ps.sieveRange(c.start, c.stop, false)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = counts
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for _, r := range results {
		for k := 0; k < len(total); k++ {
			total[k] += r[k]
		}
	}
	ps.counts = total
	ps.elapsed = time.Since(t0)
	return nil
}

// splitChunks divides [ps.start, ps.stop] into up to threadCount
// contiguous pieces of roughly equal size. Chunk boundaries need no
// wheel alignment: each chunk is sieved by its own independent
// GeneratorChain, and the Segmenter masks values outside its own
// [start, stop] regardless of where that falls relative to 30.
func (ps *PrimeSieve) splitChunks(threadCount int) []chunk {
	span := ps.stop - ps.start + 1
	chunkSpan := (span + uint64(threadCount) - 1) / uint64(threadCount)
	if chunkSpan == 0 {
		chunkSpan = 1
	}
	var chunks []chunk
	low := ps.start
	for low <= ps.stop {
		high := low + chunkSpan - 1
		if high > ps.stop || high < low {
			high = ps.stop
		}
		chunks = append(chunks, chunk{low, high})
		low = high + 1
	}
	return chunks
}
