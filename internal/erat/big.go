package erat

import (
	"errors"

	"github.com/haribomueller/primesieve/internal/wheel"
)

// ErrArenaExhausted is returned by Big.AddPrime when the bucket arena has
// grown past its configured cap — the Go analogue of the spec's
// ResourceExhausted error kind for EratBig's allocator.
var ErrArenaExhausted = errors.New("erat: bucket arena exhausted")

const nilNode = -1

type bigNode struct {
	next int32
	sp   sievingPrime
}

// Big crosses off multiples of sieving primes p > sieveSize*30: primes that
// land less than once per segment on average. Records are parked in an
// arena-backed ring of buckets keyed by how many segments ahead their next
// multiple falls, draining exactly the current ring slot each segment
// (mirroring the arena + free-list bucket shape used for timer wheels, but
// without the two-level "any populated slot" bitmap since Big only ever
// needs to know about the slot it is currently draining).
type Big struct {
	sieveSize uint64 // bytes
	ringSize  uint64
	slot      uint64
	ring      []int32
	arena     []bigNode
	free      int32
	capLimit  int
}

// NewBig returns an EratBig engine. ringSize must exceed the largest number
// of segments one wheel step (at most 6*p, see wheel.Gaps) can carry a
// parked prime ahead, i.e. ringSize >= 6*sqrt(stop)/(sieveSize*30) + 2, so
// that no prime ever re-parks into the bucket currently being drained.
// capLimit bounds the arena's growth (0 means unbounded).
func NewBig(sieveSize, ringSize uint64, capLimit int) *Big {
	ring := make([]int32, ringSize)
	for i := range ring {
		ring[i] = nilNode
	}
	return &Big{sieveSize: sieveSize, ringSize: ringSize, ring: ring, free: nilNode, capLimit: capLimit}
}

// Count returns the number of sieving primes currently parked.
func (b *Big) Count() int { return len(b.arena) - b.freeCount() }

func (b *Big) freeCount() int {
	n := 0
	for i := b.free; i != nilNode; i = b.arena[i].next {
		n++
	}
	return n
}

func (b *Big) borrow() (int32, error) {
	if b.free != nilNode {
		idx := b.free
		b.free = b.arena[idx].next
		return idx, nil
	}
	if b.capLimit > 0 && len(b.arena) >= b.capLimit {
		return nilNode, ErrArenaExhausted
	}
	b.arena = append(b.arena, bigNode{})
	return int32(len(b.arena) - 1), nil
}

func (b *Big) release(idx int32) {
	b.arena[idx] = bigNode{next: b.free}
	b.free = idx
}

// AddPrime registers a sieving prime discovered with the sieve already at
// segmentLow.
func (b *Big) AddPrime(prime, segmentLow, floor uint64) error {
	next, wi := wheel.FirstMultiple(prime, floor)
	return b.park(sievingPrime{prime: prime, next: next, wi: wi}, segmentLow)
}

func (b *Big) park(sp sievingPrime, segmentLow uint64) error {
	span := b.sieveSize * wheel.ByteSpan
	segmentsAhead := (sp.next - segmentLow - wheel.Residues[0]) / span // 30k+1 belongs to the byte before k
	bucket := (b.slot + segmentsAhead) % b.ringSize
	idx, err := b.borrow()
	if err != nil {
		return err
	}
	b.arena[idx] = bigNode{next: b.ring[bucket], sp: sp}
	b.ring[bucket] = idx
	return nil
}

// CrossOff drains the current ring slot, striking each parked prime's
// multiple and re-parking it into a future slot, then advances the ring.
func (b *Big) CrossOff(sieve []byte, segmentLow uint64) error {
	bucket := b.slot % b.ringSize
	head := b.ring[bucket]
	b.ring[bucket] = nilNode

	for idx := head; idx != nilNode; {
		node := b.arena[idx]
		next := node.next
		sp := node.sp

		byteOffset, bit, ok := wheel.Locate(sp.next, segmentLow)
		if ok && byteOffset < uint64(len(sieve)) {
			sieve[byteOffset] &^= wheel.BitValues[bit]
		}
		sp.next, sp.wi = wheel.Step(sp.next, sp.prime, sp.wi)
		b.release(idx)
		if err := b.park(sp, segmentLow); err != nil {
			return err
		}
		idx = next
	}
	b.slot++
	return nil
}
