// Package segment implements the Segmenter: the component that walks
// [start, stop] one sieve-sized chunk at a time, running every cross-off
// engine over each chunk and handing the finished bytes to a sink
// capability rather than owning output behavior itself.
package segment

import (
	"errors"

	"github.com/haribomueller/primesieve/internal/erat"
	"github.com/haribomueller/primesieve/internal/presieve"
	"github.com/haribomueller/primesieve/internal/wheel"
)

// ErrInvalidRange is returned by New when start > stop or sieveSize is zero.
var ErrInvalidRange = errors.New("segment: invalid range or sieve size")

// Consumer is the capability a Segmenter reports finished segments to. A
// Segmenter takes a Consumer rather than subclassing one, per the
// composition-over-inheritance redesign: there is no shared base type and
// no back-pointer from the Segmenter to whatever owns the Consumer.
type Consumer interface {
	OnSegment(sieve []byte, segmentLow uint64, lookahead byte, hasLookahead bool)
}

// Segmenter drives the three cross-off engines over successive segments of
// [start, stop], presieving each with a shared Table before striking the
// remaining sieving primes' multiples.
type Segmenter struct {
	start, stop uint64
	low         uint64 // low bound of the segment about to be processed, 30-aligned
	sieveSize   uint64 // bytes per segment

	pre    *presieve.Table
	small  *erat.Small
	medium *erat.Medium
	big    *erat.Big

	buf      []byte
	prevBuf  []byte // one segment behind buf; holds the last segment not yet emitted
	prevLow  uint64
	havePrev bool
	consumer Consumer
}

// New returns a Segmenter covering [start, stop]. sieveSize is the segment
// size in bytes; preSieveLimit is forwarded to presieve.New.
func New(start, stop, sieveSize uint64, preSieveLimit uint32, consumer Consumer) (*Segmenter, error) {
	if sieveSize == 0 || start > stop {
		return nil, ErrInvalidRange
	}
	if start < 7 {
		start = 7
	}
	span := sieveSize * wheel.ByteSpan
	ringSize := 6*isqrt(stop)/span + 2

	// A byte holds low+7 .. low+31, so when start%30 < 7 the first segment
	// begins one byte earlier, keeping a prime of the form 30k+1 >= start.
	rem := start % wheel.ByteSpan
	if rem < wheel.Residues[0] {
		rem += wheel.ByteSpan
	}

	smallLimit := span / 15
	sg := &Segmenter{
		start:     start,
		stop:      stop,
		low:       start - rem,
		sieveSize: sieveSize,
		pre:       presieve.New(preSieveLimit),
		small:     erat.NewSmall(smallLimit),
		medium:    erat.NewMedium(smallLimit, span),
		big:       erat.NewBig(sieveSize, ringSize, 0),
		buf:       make([]byte, sieveSize),
		prevBuf:   make([]byte, sieveSize),
		consumer:  consumer,
	}
	return sg, nil
}

// Sieve registers prime as a sieving prime, first finishing every segment
// that doesn't yet need it (segmentHigh < prime*prime, where segmentHigh =
// low+span+1 is the value held by the last byte's bit 7).
func (sg *Segmenter) Sieve(prime uint64) error {
	span := sg.sieveSize * wheel.ByteSpan
	square := prime * prime
	for sg.low <= sg.stop && sg.low+span+1 < square {
		if err := sg.processSegment(); err != nil {
			return err
		}
	}
	if sg.low > sg.stop {
		return nil
	}
	return sg.addSievingPrime(prime, square)
}

// Finish drains every remaining segment. Call it once the generator has no
// more primes to hand to Sieve. It also flushes the one segment held back
// for lookahead (see processSegment), which by now has no successor to
// borrow a lookahead byte from.
func (sg *Segmenter) Finish() error {
	for sg.low <= sg.stop {
		if err := sg.processSegment(); err != nil {
			return err
		}
	}
	if sg.havePrev {
		sg.consumer.OnSegment(sg.prevBuf, sg.prevLow, 0, false)
		sg.havePrev = false
	}
	return nil
}

func (sg *Segmenter) addSievingPrime(prime, square uint64) error {
	floor := square
	if floor < sg.start {
		floor = sg.start
	}
	switch {
	case sg.small.Accepts(prime):
		sg.small.AddPrime(prime, sg.low, floor)
	case sg.medium.Accepts(prime):
		sg.medium.AddPrime(prime, sg.low, floor)
	default:
		return sg.big.AddPrime(prime, sg.low, floor)
	}
	return nil
}

// processSegment sieves the segment at sg.low into sg.buf and hands the
// PREVIOUS segment (buffered in sg.prevBuf) to the consumer, supplying this
// segment's first byte as that previous segment's lookahead — the one byte
// a tuplet pattern straddling the segment boundary needs to resolve
// correctly. The very first segment is only buffered, never emitted, until
// a second segment (or Finish) supplies or forgoes its lookahead.
func (sg *Segmenter) processSegment() error {
	span := sg.sieveSize * wheel.ByteSpan
	for i := range sg.buf {
		sg.buf[i] = 0xff
	}
	sg.pre.Tile(sg.buf, sg.low)
	sg.small.CrossOff(sg.buf, sg.low)
	sg.medium.CrossOff(sg.buf, sg.low)
	if err := sg.big.CrossOff(sg.buf, sg.low); err != nil {
		return err
	}

	high := sg.low + span + 1 // value of the last byte's bit 7
	if sg.low < sg.start {
		sg.maskBelow(sg.start)
	}
	if high > sg.stop {
		sg.maskAbove(sg.stop)
	}

	if sg.havePrev {
		var lookahead byte
		if len(sg.buf) > 0 {
			lookahead = sg.buf[0]
		}
		sg.consumer.OnSegment(sg.prevBuf, sg.prevLow, lookahead, true)
	}
	sg.prevBuf, sg.buf = sg.buf, sg.prevBuf
	sg.prevLow = sg.low
	sg.havePrev = true

	sg.low += span
	return nil
}

// maskBelow clears every bit representing a value < floor.
func (sg *Segmenter) maskBelow(floor uint64) {
	for v := sg.low; v < floor; v++ {
		if byteOffset, bit, ok := wheel.Locate(v, sg.low); ok {
			sg.buf[byteOffset] &^= wheel.BitValues[bit]
		}
	}
}

// maskAbove clears every bit representing a value > ceil.
func (sg *Segmenter) maskAbove(ceil uint64) {
	span := sg.sieveSize * wheel.ByteSpan
	high := sg.low + span + 1 // value of the last byte's bit 7
	for v := ceil + 1; v <= high; v++ {
		if byteOffset, bit, ok := wheel.Locate(v, sg.low); ok {
			sg.buf[byteOffset] &^= wheel.BitValues[bit]
		}
	}
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
