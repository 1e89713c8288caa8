// Package erat implements the three cross-off engines — EratSmall,
// EratMedium and EratBig — each tuned for how often its bucket of sieving
// primes strikes a multiple within one segment.
package erat

import "github.com/haribomueller/primesieve/internal/wheel"

// sievingPrime is the per-prime state carried across segments: the prime
// itself, its next multiple, and the wheel index needed to compute the
// multiple after that. This is the full "sieving prime record" of the
// spec's data model — deliberately minimal (24 bytes including alignment
// padding) since the per-step
// bit position and byte stride are derived on the fly from m rather than
// stored in a precomputed per-prime table.
type sievingPrime struct {
	prime uint64
	next  uint64
	wi    uint8
}

// crossOffOne clears the bit for sp.next (relative to segmentLow) and
// advances sp to its next multiple. It does no bounds check of its own: the
// caller loops it only while the multiple stays in-segment.
func crossOffOne(sieve []byte, segmentLow uint64, sp *sievingPrime) {
	byteOffset, bit, ok := wheel.Locate(sp.next, segmentLow)
	if !ok {
		// Unreachable: sp.next is always produced by wheel.FirstMultiple or
		// wheel.Step, both of which only ever land on wheel residues.
		return
	}
	sieve[byteOffset] &^= wheel.BitValues[bit]
	sp.next, sp.wi = wheel.Step(sp.next, sp.prime, sp.wi)
}

// byteOffsetOf returns the byte offset of the wheel value v (v >=
// segmentLow+7) relative to segmentLow, valid even past the end of the
// current segment (used for bounds checks). A byte's first value is 7 past
// its 30-aligned base, so a value 30k+1 lands in byte k-1, as in wheel.Locate.
func byteOffsetOf(v, segmentLow uint64) uint64 {
	return (v - segmentLow - wheel.Residues[0]) / wheel.ByteSpan
}

// firstMultipleAligned finds prime's first wheel-aligned multiple >= floor.
func firstMultipleAligned(prime, floor uint64) (uint64, uint8) {
	return wheel.FirstMultiple(prime, floor)
}
