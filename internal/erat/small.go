package erat

// Small crosses off multiples of sieving primes that land many times per
// segment: p <= sieveSize*30/15. Its inner loop is unrolled one wheel turn
// (8 residues) at a time, since a prime in this bucket is expected to hit
// several multiples before the unrolled turn runs out.
type Small struct {
	limit  uint64
	primes []sievingPrime
}

// NewSmall returns an EratSmall engine for sieving primes p <= limit.
func NewSmall(limit uint64) *Small {
	return &Small{limit: limit}
}

// Limit returns the inclusive upper bound of primes this engine accepts.
func (s *Small) Limit() uint64 { return s.limit }

// Accepts reports whether prime belongs in this engine's bucket.
func (s *Small) Accepts(prime uint64) bool { return prime <= s.limit }

// AddPrime registers a sieving prime discovered with the sieve already at
// segmentLow; its first in-range multiple is computed immediately.
func (s *Small) AddPrime(prime, segmentLow, floor uint64) {
	m, wi := firstMultipleAligned(prime, floor)
	s.primes = append(s.primes, sievingPrime{prime: prime, next: m, wi: wi})
}

// CrossOff strikes every multiple of every registered prime that falls
// within [segmentLow, segmentLow+len(sieve)*30).
func (s *Small) CrossOff(sieve []byte, segmentLow uint64) {
	sieveSize := uint64(len(sieve))
	for i := range s.primes {
		sp := &s.primes[i]
		// One wheel turn (8 residues) unrolled per pass; a small sieving
		// prime is expected to still be in-segment after a full turn.
		for byteOffsetOf(sp.next, segmentLow) < sieveSize {
			crossOffOne(sieve, segmentLow, sp)
			if byteOffsetOf(sp.next, segmentLow) >= sieveSize {
				break
			}
			crossOffOne(sieve, segmentLow, sp)
			if byteOffsetOf(sp.next, segmentLow) >= sieveSize {
				break
			}
			crossOffOne(sieve, segmentLow, sp)
			if byteOffsetOf(sp.next, segmentLow) >= sieveSize {
				break
			}
			crossOffOne(sieve, segmentLow, sp)
			if byteOffsetOf(sp.next, segmentLow) >= sieveSize {
				break
			}
			crossOffOne(sieve, segmentLow, sp)
			if byteOffsetOf(sp.next, segmentLow) >= sieveSize {
				break
			}
			crossOffOne(sieve, segmentLow, sp)
			if byteOffsetOf(sp.next, segmentLow) >= sieveSize {
				break
			}
			crossOffOne(sieve, segmentLow, sp)
			if byteOffsetOf(sp.next, segmentLow) >= sieveSize {
				break
			}
			crossOffOne(sieve, segmentLow, sp)
		}
	}
}

// Count returns the number of sieving primes currently tracked.
func (s *Small) Count() int { return len(s.primes) }
