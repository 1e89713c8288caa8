// Package presieve precomputes a bit pattern encoding non-divisibility by
// the smallest sieving primes (7..limit) and tiles it into each segment
// before the three cross-off engines run, so those engines never have to
// strike the most frequent multiples themselves.
package presieve

import "github.com/haribomueller/primesieve/internal/wheel"

// MinLimit and MaxLimit bound the configurable pre-sieve limit, matching the
// external setPreSieveLimit(u32) clamp.
const (
	MinLimit = 13
	MaxLimit = 23
)

// candidatePrimes lists the tiny primes eligible for pre-sieving, ascending.
var candidatePrimes = [6]uint64{7, 11, 13, 17, 19, 23}

// Table holds the tiled bit pattern for one pre-sieve limit. A Table is
// read-only after construction and safe to share across parallel workers.
type Table struct {
	limit   uint32
	primes  []uint64
	pattern []byte // length Period bytes; pattern[b] describes values 30b+7 .. 30b+31 (see wheel.Value)
}

// New builds the pre-sieve table for limit, clamped to [MinLimit, MaxLimit].
func New(limit uint32) *Table {
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	var primes []uint64
	product := uint64(1)
	for _, p := range candidatePrimes {
		if p > uint64(limit) {
			break
		}
		primes = append(primes, p)
		product *= p
	}
	t := &Table{limit: limit, primes: primes, pattern: make([]byte, product)}
	for i := range t.pattern {
		t.pattern[i] = 0xFF
	}
	span := wheel.ByteSpan * product
	for _, p := range primes {
		for m := p * p; m < span; m += p {
			byteIdx, idx, ok := wheel.Locate(m, 0)
			if !ok {
				continue
			}
			t.pattern[byteIdx] &^= wheel.BitValues[idx]
		}
	}
	return t
}

// Limit returns the clamped pre-sieve limit this table was built for.
func (t *Table) Limit() uint32 { return t.limit }

// Period returns the tile period in bytes (the product of the pre-sieved
// primes), i.e. the pattern repeats every Period*30 integers.
func (t *Table) Period() uint64 { return uint64(len(t.pattern)) }

// Tile fills dst (one sieve segment's byte buffer) with the pre-sieve
// pattern aligned to segmentLow, which must be a multiple of 30.
func (t *Table) Tile(dst []byte, segmentLow uint64) {
	period := t.Period()
	start := (segmentLow / wheel.ByteSpan) % period
	n := copy(dst, t.pattern[start:])
	for uint64(n) < uint64(len(dst)) {
		n += copy(dst[n:], t.pattern)
	}
}
