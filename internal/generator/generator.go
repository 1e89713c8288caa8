// Package generator implements the GeneratorChain: the three-level
// bootstrap that lets a Segmenter find its own sieving primes without ever
// trial-dividing a candidate against every prime below it.
//
// Level 0 is a trivial odds-only array sieve up to ceil(stop^(1/4)),
// grounded on the array-sieve shape used for the small bootstrap table in
// strong_goldbach/sieves.go. Level 1 is a Segmenter covering [7,
// sqrt(stop)] seeded by level 0's output; as it finds primes it forwards
// them into level 2. Level 2 is a Segmenter covering [start, stop] that
// reports to the caller's sink. Composition, not inheritance: level 1
// forwards into level 2 through a plain Consumer value, not a shared base
// type or a back-pointer to its owner.
package generator

import (
	"errors"

	"github.com/haribomueller/primesieve/internal/segment"
	"github.com/haribomueller/primesieve/internal/wheel"
)

// ErrRangeTooSmall is returned by New when stop < 7: the wheel cannot
// represent any prime in that range, so the caller should rely entirely on
// the fixed small-prime table instead of a GeneratorChain.
var ErrRangeTooSmall = errors.New("generator: stop < 7, no segmenter needed")

// forwarder is a segment.Consumer that turns every prime bit found in a
// finished level-1 segment into a level-2 Sieve call, short-circuiting on
// the first error.
type forwarder struct {
	target *segment.Segmenter
	err    error
}

func (f *forwarder) OnSegment(sieve []byte, segmentLow uint64, lookahead byte, hasLookahead bool) {
	for i, b := range sieve {
		for b != 0 {
			bit := wheel.BitScanForward64(uint64(b))
			b &^= 1 << uint(bit)
			if f.err != nil {
				return
			}
			p := wheel.Value(segmentLow, uint64(i), bit)
			f.err = f.target.Sieve(p)
		}
	}
}

// Chain owns the level-1 and level-2 Segmenters and the forwarder wired
// between them.
type Chain struct {
	level1 *segment.Segmenter
	level2 *segment.Segmenter
	fwd    *forwarder
}

// New builds a GeneratorChain covering [start, stop] that reports finished
// segments to sink. sieveSize and preSieveLimit are shared by both levels.
func New(start, stop, sieveSize uint64, preSieveLimit uint32, sink segment.Consumer) (*Chain, error) {
	if stop < 7 {
		return nil, ErrRangeTooSmall
	}

	level2, err := segment.New(start, stop, sieveSize, preSieveLimit, sink)
	if err != nil {
		return nil, err
	}

	sqrtStop := isqrt(stop)
	fwd := &forwarder{target: level2}
	if sqrtStop < 7 {
		// No level-1 segmenter needed: every prime up to sqrt(stop) is below
		// the wheel's floor, so level 2 starts with no sieving primes at all
		// besides whatever the pre-sieve table already accounts for.
		return &Chain{level2: level2, fwd: fwd}, nil
	}

	level1, err := segment.New(7, sqrtStop, sieveSize, preSieveLimit, fwd)
	if err != nil {
		return nil, err
	}

	quarStop := isqrt(sqrtStop) + 2 // small margin against rounding
	for _, p := range trivialSieve(quarStop) {
		if p < 7 {
			continue
		}
		if err := level1.Sieve(p); err != nil {
			return nil, err
		}
	}

	return &Chain{level1: level1, level2: level2, fwd: fwd}, nil
}

// Run drains level 1 (forwarding discovered primes into level 2 as it
// goes) and then drains level 2, delivering every finished segment to the
// sink passed to New.
func (c *Chain) Run() error {
	if c.level1 != nil {
		if err := c.level1.Finish(); err != nil {
			return err
		}
		if c.fwd.err != nil {
			return c.fwd.err
		}
	}
	return c.level2.Finish()
}

// trivialSieve returns every prime in [2, limit] using a plain odds-only
// array sieve; it exists purely to bootstrap level 1's own sieving primes
// and is never asked to cover a range large enough to need segmenting.
func trivialSieve(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	var primes []uint64
	primes = append(primes, 2)
	for i := uint64(3); i <= limit; i += 2 {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		if i <= limit/i {
			for j := i * i; j <= limit; j += 2 * i {
				composite[j] = true
			}
		}
	}
	return primes
}

// isqrt returns floor(sqrt(n)) via Newton's method, exact for all uint64 n.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := x/2 + x%2 // ceil(n/2) without overflowing at n = 2^64-1
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
