package erat

// Medium crosses off multiples of sieving primes that land only a few times
// per segment: p in (sieveSize*30/15, sieveSize*30]. It uses the same wheel
// stepping as Small but visits one multiple per loop iteration rather than
// unrolling a full wheel turn, since there usually isn't one to unroll.
type Medium struct {
	low, high uint64
	primes    []sievingPrime
}

// NewMedium returns an EratMedium engine for sieving primes in (low, high].
func NewMedium(low, high uint64) *Medium {
	return &Medium{low: low, high: high}
}

// Accepts reports whether prime belongs in this engine's bucket.
func (m *Medium) Accepts(prime uint64) bool { return prime > m.low && prime <= m.high }

// AddPrime registers a sieving prime discovered with the sieve already at
// segmentLow.
func (m *Medium) AddPrime(prime, segmentLow, floor uint64) {
	next, wi := firstMultipleAligned(prime, floor)
	m.primes = append(m.primes, sievingPrime{prime: prime, next: next, wi: wi})
}

// CrossOff strikes every multiple of every registered prime that falls
// within the current segment.
func (m *Medium) CrossOff(sieve []byte, segmentLow uint64) {
	sieveSize := uint64(len(sieve))
	for i := range m.primes {
		sp := &m.primes[i]
		for byteOffsetOf(sp.next, segmentLow) < sieveSize {
			crossOffOne(sieve, segmentLow, sp)
		}
	}
}

// Count returns the number of sieving primes currently tracked.
func (m *Medium) Count() int { return len(m.primes) }
