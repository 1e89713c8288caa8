// Package sink implements PrimeSink: the per-segment consumer that counts,
// prints, or forwards primes and prime k-tuplets to a registered callback.
package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/haribomueller/primesieve/internal/wheel"
)

// NumCounters is the width of the counts vector: primes plus k-tuplets for
// k in 2..7.
const NumCounters = 7

// CallbackKind tags which of the four callback variants (if any) is active.
// Only one may be active at a time, matching the spec's tagged-union
// redesign of the four raw C function-pointer slots.
type CallbackKind int

const (
	NoCallback CallbackKind = iota
	Callback32
	Callback32Ctx
	Callback64
	Callback64Ctx
)

// Callback bundles the single active callback variant and its context.
type Callback struct {
	Kind      CallbackKind
	Func32    func(uint32)
	Func32Ctx func(uint32, interface{})
	Func64    func(uint64)
	Func64Ctx func(uint64, interface{})
	Ctx       interface{}
}

// Config selects which counters and prints are active and where output
// goes. Index 0 is primes; indices 1..6 are twins..septuplets.
type Config struct {
	Count    [NumCounters]bool
	Print    [NumCounters]bool
	Writer   io.Writer
	Callback Callback
	// Mutex, when non-nil, is locked around every Print/Callback emission.
	// The root package never sets it: SieveParallel runs any sieve with a
	// Print or Callback flag on a single worker.
	Mutex *sync.Mutex
}

// Sink is the PrimeSink: it receives one finished segment at a time and
// updates Counts and/or emits output, in strictly ascending order within a
// segment.
type Sink struct {
	cfg    Config
	counts [NumCounters]uint64
}

// New returns a Sink for cfg. cfg is copied; callers must not mutate it
// afterward.
func New(cfg Config) *Sink {
	return &Sink{cfg: cfg}
}

// Counts returns the seven-entry counts vector accumulated so far.
func (s *Sink) Counts() [NumCounters]uint64 { return s.counts }

// OnSegment processes one finished, boundary-masked segment: sieve holds
// sieveSize bytes for the values segmentLow+7 .. segmentLow+sieveSize*30+1
// (see wheel.Value), and lookahead is the first byte of the segment
// immediately following (hasLookahead is false at the very end of the
// interval). lookahead lets tuplet patterns
// that straddle this segment's final byte resolve correctly; without it,
// at most one tuplet per segment boundary could be missed (see DESIGN.md).
func (s *Sink) OnSegment(sieve []byte, segmentLow uint64, lookahead byte, hasLookahead bool) {
	needTuplets := false
	for k := 1; k < NumCounters; k++ {
		needTuplets = needTuplets || s.cfg.Count[k] || s.cfg.Print[k]
	}

	if s.cfg.Count[0] {
		for _, b := range sieve {
			s.counts[0] += uint64(wheel.PopCount(b))
		}
	}
	if s.cfg.Print[0] || s.cfg.Callback.Kind != NoCallback {
		s.emitPrimes(sieve, segmentLow)
	}
	if needTuplets {
		s.scanTuplets(sieve, segmentLow, lookahead, hasLookahead)
	}
}

func (s *Sink) emitPrimes(sieve []byte, segmentLow uint64) {
	for i, b := range sieve {
		for b != 0 {
			bit := wheel.BitScanForward64(uint64(b))
			b &^= 1 << uint(bit)
			v := wheel.Value(segmentLow, uint64(i), bit)
			s.emitOne(v)
		}
	}
}

func (s *Sink) emitOne(v uint64) {
	if s.cfg.Mutex != nil {
		s.cfg.Mutex.Lock()
		defer s.cfg.Mutex.Unlock()
	}
	if s.cfg.Print[0] {
		fmt.Fprintln(s.cfg.Writer, v)
	}
	switch s.cfg.Callback.Kind {
	case Callback32:
		s.cfg.Callback.Func32(uint32(v))
	case Callback32Ctx:
		s.cfg.Callback.Func32Ctx(uint32(v), s.cfg.Callback.Ctx)
	case Callback64:
		s.cfg.Callback.Func64(v)
	case Callback64Ctx:
		s.cfg.Callback.Func64Ctx(v, s.cfg.Callback.Ctx)
	}
}

// bitSet reports whether the bit representing value v is set, consulting
// lookahead for the one byte beyond the end of sieve.
func bitSet(sieve []byte, segmentLow uint64, lookahead byte, hasLookahead bool, v uint64) bool {
	byteOffset, bit, ok := wheel.Locate(v, segmentLow)
	if !ok {
		return false
	}
	if byteOffset < uint64(len(sieve)) {
		return sieve[byteOffset]&wheel.BitValues[bit] != 0
	}
	if byteOffset == uint64(len(sieve)) && hasLookahead {
		return lookahead&wheel.BitValues[bit] != 0
	}
	return false
}

func (s *Sink) scanTuplets(sieve []byte, segmentLow uint64, lookahead byte, hasLookahead bool) {
	for i, b := range sieve {
		for b != 0 {
			bit := wheel.BitScanForward64(uint64(b))
			b &^= 1 << uint(bit)
			p := wheel.Value(segmentLow, uint64(i), bit)
			for k, pats := range patterns {
				idx := k + 1 // counts/print index: 1=twins .. 6=septuplets
				if !s.cfg.Count[idx] && !s.cfg.Print[idx] {
					continue
				}
				for _, pat := range pats {
					if matchesPattern(sieve, segmentLow, lookahead, hasLookahead, p, pat) {
						if s.cfg.Count[idx] {
							s.counts[idx]++
						}
						if s.cfg.Print[idx] {
							s.printTuplet(p, pat)
						}
					}
				}
			}
		}
	}
}

func matchesPattern(sieve []byte, segmentLow uint64, lookahead byte, hasLookahead bool, p uint64, pat []uint64) bool {
	for _, off := range pat[1:] {
		if !bitSet(sieve, segmentLow, lookahead, hasLookahead, p+off) {
			return false
		}
	}
	return true
}

func (s *Sink) printTuplet(p uint64, pat []uint64) {
	if s.cfg.Mutex != nil {
		s.cfg.Mutex.Lock()
		defer s.cfg.Mutex.Unlock()
	}
	fmt.Fprint(s.cfg.Writer, "(")
	for i, off := range pat {
		if i > 0 {
			fmt.Fprint(s.cfg.Writer, ", ")
		}
		fmt.Fprintf(s.cfg.Writer, "%d", p+off)
	}
	fmt.Fprintln(s.cfg.Writer, ")")
}

// patterns[k] holds every admissible residue pattern for a (k+2)-tuplet,
// each pattern's offsets relative to its own leading member (offsets[0] is
// always 0). A leading prime's own wheel residue determines which pattern
// (if any) can possibly apply; incompatible residues are excluded for free
// because bitSet/Locate reports false for any offset that isn't itself a
// wheel residue.
var patterns = [][][]uint64{
	{{0, 2}},                 // twins
	{{0, 2, 6}, {0, 4, 6}},   // triplets
	{{0, 2, 6, 8}},           // quadruplets
	{{0, 2, 6, 8, 12}, {0, 4, 6, 10, 12}}, // quintuplets
	{{0, 4, 6, 10, 12, 16}},  // sextuplets
	{{0, 2, 6, 8, 12, 18, 20}, {0, 2, 8, 12, 14, 18, 20}}, // septuplets
}
