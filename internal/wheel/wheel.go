// Package wheel implements the mod-30 wheel bit layout shared by every
// cross-off engine: the residue/bit bijection, the wheel-30 gap table used
// to advance a sieving prime's next multiple, and a de Bruijn bit scan for
// pulling primes back out of a finished segment.
package wheel

import "math/bits"

// ByteSpan is the number of consecutive integers one sieve byte represents.
const ByteSpan = 30

// Residues holds the 8 residues mod 30 that are coprime to 2, 3 and 5, in
// ascending order. Bit i of a sieve byte corresponds to Residues[i].
var Residues = [8]uint64{7, 11, 13, 17, 19, 23, 29, 31}

// Gaps holds the distance from Residues[i] to the next wheel residue
// (Residues[(i+1)%8], 30 integers further along for i == 7). Multiplying
// Gaps[i] by a sieving prime p gives the increment from p's current
// multiple to its next one that can possibly land on a wheel residue.
var Gaps = [8]uint64{4, 2, 4, 2, 4, 6, 2, 6}

// BitValues holds the bitmask for each wheel position, BitValues[i] = 1<<i.
var BitValues = [8]byte{1, 2, 4, 8, 16, 32, 64, 128}

// residueIndex maps a value's residue mod 30 to its wheel index, or -1 if
// the residue is not coprime to 30 (i.e. not representable in the sieve).
var residueIndex = buildResidueIndex()

func buildResidueIndex() [30]int8 {
	var idx [30]int8
	for i := range idx {
		idx[i] = -1
	}
	for i, r := range Residues {
		idx[r%ByteSpan] = int8(i)
	}
	return idx
}

// IndexOf returns the wheel index of r (r must be in [0, 30)), or -1 if r is
// not one of the eight wheel residues.
func IndexOf(r uint64) int {
	return int(residueIndex[r])
}

// Locate splits an absolute value v (v >= 7, v % 30 in Residues) into the
// byte offset relative to segmentLow and the wheel bit index within that
// byte; it is the inverse of Value. A value 30k+1 is bit 7 (Residues[7] =
// 31) of the byte before offset k. ok is false when v is not wheel-aligned
// or lies below the first byte (v = segmentLow+1).
func Locate(v, segmentLow uint64) (byteOffset uint64, bitIndex int, ok bool) {
	r := v % ByteSpan
	idx := IndexOf(r)
	if idx < 0 || v < segmentLow+Residues[idx] {
		return 0, 0, false
	}
	return (v - segmentLow - Residues[idx]) / ByteSpan, idx, true
}

// Value reconstructs the integer represented by bit bitIndex of the byte at
// byteOffset relative to segmentLow.
func Value(segmentLow, byteOffset uint64, bitIndex int) uint64 {
	return segmentLow + ByteSpan*byteOffset + Residues[bitIndex]
}

// Step advances a sieving prime's current multiple m (whose residue mod 30
// must be a wheel residue) to its next candidate multiple, returning the new
// value and the next wheel index to feed back into Step. wi is the wheel
// index the CURRENT multiple's cofactor sits at, i.e. the index used to look
// up the increment for this step (not the bit index of m itself — use
// IndexOf(m%30) for that).
func Step(m, prime uint64, wi uint8) (next uint64, nextWi uint8) {
	return m + prime*Gaps[wi&7], (wi + 1) & 7
}

// FirstMultiple returns the smallest multiple of prime that is >= floor and
// whose residue mod 30 lies on a wheel position, together with the wheel
// index to pass into the next Step call. floor is typically prime*prime (the
// classical sieve starting point) or segmentLow for a prime handed in after
// its square has already passed.
func FirstMultiple(prime, floor uint64) (m uint64, wi uint8) {
	k := (floor + prime - 1) / prime
	if k < 1 {
		k = 1
	}
	m = prime * k
	// At most 8 probes: one full wheel turn must land on a wheel residue
	// since the wheel residues form the unit group mod 30 and prime is a
	// unit, so multiplying by the 8 residues mod 30 permutes the group.
	for i := 0; i < ByteSpan; i++ {
		if IndexOf(m%ByteSpan) >= 0 {
			break
		}
		m += prime
	}
	wi = cofactorWheelIndex(prime, m)
	return m, wi
}

// cofactorWheelIndex recovers the wheel index Step should use to advance
// away from m. Advancing m happens in cofactor space (k = m/prime, stepping
// by Gaps[wi] applied to k), not in m's own residue space, so the index is
// derived from k's residue mod 30, not m's.
func cofactorWheelIndex(prime, m uint64) uint8 {
	k := m / prime
	idx := IndexOf(k % ByteSpan)
	if idx < 0 {
		// Unreachable once m is wheel-aligned and prime is coprime to 30:
		// multiplying by a unit mod 30 permutes the unit group, so m's
		// cofactor is a unit mod 30 too.
		idx = 0
	}
	return uint8(idx)
}

// deBruijn64 is the standard 0x03f79d71b4ca8b09 De Bruijn sequence used to
// extract the index of the lowest set bit of a 64-bit word in O(1). It is
// kept here (rather than calling math/bits directly) because the original
// segmented-sieve design calls out this constant explicitly; callers pass
// one sieve byte at a time, widened to uint64.
var deBruijn64Table = buildDeBruijnTable()

const deBruijn64 uint64 = 0x03f79d71b4ca8b09

func buildDeBruijnTable() [64]uint8 {
	var tab [64]uint8
	for i := 0; i < 64; i++ {
		tab[(deBruijn64<<uint(i))>>58] = uint8(i)
	}
	return tab
}

// BitScanForward64 returns the index (0..63) of the lowest set bit of word.
// word must be non-zero.
func BitScanForward64(word uint64) int {
	isolated := word & (word - 1) ^ word // lowest set bit, isolated
	return int(deBruijn64Table[(isolated*deBruijn64)>>58])
}

// TrailingZeros is a thin wrapper kept distinct from BitScanForward64 so
// call sites can choose the De Bruijn table (matching the spec's described
// technique) or the portable math/bits fallback interchangeably in tests.
func TrailingZeros(word uint64) int {
	return bits.TrailingZeros64(word)
}

// PopCount returns the number of set bits in b.
func PopCount(b byte) int {
	return bits.OnesCount8(b)
}
