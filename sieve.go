// Package primesieve implements a segmented, wheel-30 sieve of
// Eratosthenes: count, print or stream primes and prime k-tuplets over any
// 64-bit range, optionally spread across multiple goroutines.
package primesieve

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/haribomueller/primesieve/internal/generator"
	"github.com/haribomueller/primesieve/internal/presieve"
	"github.com/haribomueller/primesieve/internal/sink"
	"github.com/haribomueller/primesieve/internal/smallprimes"
)

// Size bounds for SetSieveSize, in bytes. A sieve byte covers 30 integers,
// so the default of 32 KiB covers just under a million integers per
// segment, small enough to stay cache-resident on typical hardware.
const (
	MinSieveSize     uint32 = 1 << 10        // 1 KiB
	MaxSieveSize     uint32 = 4096 * 1 << 10 // 4096 KiB
	DefaultSieveSize uint32 = 32 * 1 << 10   // 32 KiB
	DefaultPreSieve  uint32 = 19
)

// PrimeSieve is the top-level driver: it owns the sieve parameters, the
// result counters, and the registered output channels (writer and/or
// callback). It is not safe for concurrent use by multiple goroutines;
// SieveParallel's workers only read its configuration, and each builds its
// own sink and GeneratorChain.
type PrimeSieve struct {
	start, stop   uint64
	sieveSize     uint32
	preSieveLimit uint32
	flags         Flags
	writer        io.Writer
	callback      sink.Callback

	counts  [sink.NumCounters]uint64
	elapsed time.Duration
}

// New returns a PrimeSieve with the spec's documented defaults: a 32 KiB
// segment size, a pre-sieve limit of 19, and output to os.Stdout.
func New() *PrimeSieve {
	return &PrimeSieve{
		sieveSize:     DefaultSieveSize,
		preSieveLimit: DefaultPreSieve,
		writer:        os.Stdout,
	}
}

// maxRangeBound is the largest value SetStart/SetStop accept: 2^64-1 minus
// 10*(2^32-1) of headroom, the same margin the spec reserves. That is more
// than one segment span (at most MaxSieveSize*30 < 2^32) or one wheel step
// of a sieving prime p < 2^32 (at most 6p), so neither wraps around.
const maxRangeBound = ^uint64(0) - 10*(1<<32-1)

// SetStart sets the inclusive lower bound of the next Sieve call. It rejects
// start above maxRangeBound with InvalidArgument.
func (ps *PrimeSieve) SetStart(start uint64) (*PrimeSieve, error) {
	if start > maxRangeBound {
		return ps, newError(InvalidArgument, "start %d exceeds maximum %d", start, maxRangeBound)
	}
	ps.start = start
	return ps, nil
}

// SetStop sets the inclusive upper bound of the next Sieve call. It rejects
// stop above maxRangeBound with InvalidArgument.
func (ps *PrimeSieve) SetStop(stop uint64) (*PrimeSieve, error) {
	if stop > maxRangeBound {
		return ps, newError(InvalidArgument, "stop %d exceeds maximum %d", stop, maxRangeBound)
	}
	ps.stop = stop
	return ps, nil
}

// SetSieveSize sets the per-segment buffer size in bytes, rounded up to a
// power of two. A size outside [MinSieveSize, MaxSieveSize] is rejected
// with InvalidArgument, not clamped.
func (ps *PrimeSieve) SetSieveSize(bytes uint32) error {
	if bytes < MinSieveSize || bytes > MaxSieveSize {
		return newError(InvalidArgument, "sieve size %d out of range [%d, %d]", bytes, MinSieveSize, MaxSieveSize)
	}
	ps.sieveSize = roundUpPow2(bytes)
	return nil
}

// SetPreSieveLimit sets the largest tiny prime folded into the pre-sieve
// tile. A limit outside [presieve.MinLimit, presieve.MaxLimit] is rejected
// with InvalidArgument, not clamped.
func (ps *PrimeSieve) SetPreSieveLimit(limit uint32) error {
	if limit < presieve.MinLimit || limit > presieve.MaxLimit {
		return newError(InvalidArgument, "pre-sieve limit %d out of range [%d, %d]", limit, presieve.MinLimit, presieve.MaxLimit)
	}
	ps.preSieveLimit = limit
	return nil
}

// SetWriter sets where PrintPrimes/PrintTwins/.../PrintSeptuplets output
// goes. The default is os.Stdout. PrintStatus writes no output.
func (ps *PrimeSieve) SetWriter(w io.Writer) { ps.writer = w }

// SetFlags replaces the flags bitfield outright. It rejects f if any bit
// above bit 19 is set.
func (ps *PrimeSieve) SetFlags(f Flags) error {
	if f&^maxFlags != 0 {
		return newError(InvalidArgument, "flags %#x set bits above bit 19", uint32(f))
	}
	ps.flags = f
	return nil
}

// AddFlags ORs additional bits into the flags bitfield. It rejects f if any
// bit above bit 19 is set.
func (ps *PrimeSieve) AddFlags(f Flags) error {
	if f&^maxFlags != 0 {
		return newError(InvalidArgument, "flags %#x set bits above bit 19", uint32(f))
	}
	ps.flags |= f
	return nil
}

// GetFlags returns the current flags bitfield.
func (ps *PrimeSieve) GetFlags() Flags { return ps.flags }

// RegisterCallback32 arranges for fn to be called once per prime found,
// truncated to uint32, in ascending order. The primes 2, 3 and 5, which
// come from the fixed small-prime table, are not passed to any callback
// variant. It clears any previously registered callback variant and sets
// CallbackPrimes.
func (ps *PrimeSieve) RegisterCallback32(fn func(uint32)) {
	ps.flags &^= CallbackPrimes | CallbackPrimesCtx | CallbackPrimes64 | CallbackPrimes64Ctx
	ps.flags |= CallbackPrimes
	ps.callback = sink.Callback{Kind: sink.Callback32, Func32: fn}
}

// RegisterCallback32Ctx is RegisterCallback32 with a caller-supplied context
// value passed through on every call.
func (ps *PrimeSieve) RegisterCallback32Ctx(fn func(uint32, interface{}), ctx interface{}) {
	ps.flags &^= CallbackPrimes | CallbackPrimesCtx | CallbackPrimes64 | CallbackPrimes64Ctx
	ps.flags |= CallbackPrimesCtx
	ps.callback = sink.Callback{Kind: sink.Callback32Ctx, Func32Ctx: fn, Ctx: ctx}
}

// RegisterCallback64 is RegisterCallback32 without the uint32 truncation.
func (ps *PrimeSieve) RegisterCallback64(fn func(uint64)) {
	ps.flags &^= CallbackPrimes | CallbackPrimesCtx | CallbackPrimes64 | CallbackPrimes64Ctx
	ps.flags |= CallbackPrimes64
	ps.callback = sink.Callback{Kind: sink.Callback64, Func64: fn}
}

// RegisterCallback64Ctx is RegisterCallback64 with a caller-supplied
// context value passed through on every call.
func (ps *PrimeSieve) RegisterCallback64Ctx(fn func(uint64, interface{}), ctx interface{}) {
	ps.flags &^= CallbackPrimes | CallbackPrimesCtx | CallbackPrimes64 | CallbackPrimes64Ctx
	ps.flags |= CallbackPrimes64Ctx
	ps.callback = sink.Callback{Kind: sink.Callback64Ctx, Func64Ctx: fn, Ctx: ctx}
}

// GetCounts returns the accumulated count for counter index i (0 = primes,
// 1 = twins, ..., 6 = septuplets) from the most recent Sieve call.
func (ps *PrimeSieve) GetCounts(i int) (uint64, error) {
	if i < 0 || i >= sink.NumCounters {
		return 0, newError(OutOfRange, "counter index %d out of range [0, %d]", i, sink.NumCounters-1)
	}
	return ps.counts[i], nil
}

// GetTimeElapsed returns the wall-clock duration of the most recent Sieve
// or SieveParallel call.
func (ps *PrimeSieve) GetTimeElapsed() time.Duration { return ps.elapsed }

// GetPrimeCount is a one-shot convenience: it sieves [start, stop] with
// only CountPrimes active (restoring the previous flags afterward) and
// returns the prime count directly.
func (ps *PrimeSieve) GetPrimeCount(start, stop uint64) (uint64, error) {
	if start > maxRangeBound {
		return 0, newError(InvalidArgument, "start %d exceeds maximum %d", start, maxRangeBound)
	}
	if stop > maxRangeBound {
		return 0, newError(InvalidArgument, "stop %d exceeds maximum %d", stop, maxRangeBound)
	}
	saved := ps.flags
	ps.flags = CountPrimes
	defer func() { ps.flags = saved }()
	ps.start, ps.stop = start, stop
	if err := ps.Sieve(); err != nil {
		return 0, err
	}
	return ps.counts[0], nil
}

// Sieve runs the configured sieve over [start, stop] set by SetStart and
// SetStop, on the calling goroutine.
func (ps *PrimeSieve) Sieve() error {
	if ps.start > ps.stop {
		return newError(InvalidArgument, "start %d exceeds stop %d", ps.start, ps.stop)
	}
	t0 := time.Now()
	counts, err := ps.sieveRange(ps.start, ps.stop, true)
	if err != nil {
		return err
	}
	ps.counts = counts
	ps.elapsed = time.Since(t0)
	return nil
}

// sieveRange sieves [start, stop] and returns its own counts vector,
// independent of ps.counts. includeSmall controls whether the fixed
// small-prime table (2, 3, 5 and the small fixed tuplets) is folded in;
// the ParallelDriver applies it exactly once, against the overall range,
// never per chunk.
func (ps *PrimeSieve) sieveRange(start, stop uint64, includeSmall bool) ([sink.NumCounters]uint64, error) {
	var counts [sink.NumCounters]uint64
	if includeSmall {
		for _, e := range smallprimes.Applicable(start, stop) {
			if ps.flags.CountEnabled(e.CounterIndex) {
				counts[e.CounterIndex]++
			}
			if ps.flags.PrintEnabled(e.CounterIndex) {
				ps.printSmall(e.Members)
			}
		}
	}
	if stop < 7 {
		return counts, nil
	}

	sk := sink.New(ps.buildSinkConfig())
	chain, err := generator.New(start, stop, uint64(ps.sieveSize), ps.preSieveLimit, sk)
	if err != nil {
		if errors.Is(err, generator.ErrRangeTooSmall) {
			return counts, nil
		}
		return counts, newError(InvalidArgument, "%v", err)
	}
	if err := chain.Run(); err != nil {
		return counts, newError(ResourceExhausted, "%v", err)
	}
	segCounts := sk.Counts()
	for i := 0; i < sink.NumCounters; i++ {
		counts[i] += segCounts[i]
	}
	return counts, nil
}

func (ps *PrimeSieve) buildSinkConfig() sink.Config {
	var cfg sink.Config
	for i := 0; i < sink.NumCounters; i++ {
		cfg.Count[i] = ps.flags.CountEnabled(i)
		cfg.Print[i] = ps.flags.PrintEnabled(i)
	}
	cfg.Writer = ps.writer
	cfg.Callback = ps.callback
	return cfg
}

func (ps *PrimeSieve) printSmall(members []uint64) {
	if len(members) == 1 {
		fmt.Fprintln(ps.writer, members[0])
		return
	}
	fmt.Fprint(ps.writer, "(")
	for i, m := range members {
		if i > 0 {
			fmt.Fprint(ps.writer, ", ")
		}
		fmt.Fprintf(ps.writer, "%d", m)
	}
	fmt.Fprintln(ps.writer, ")")
}

func roundUpPow2(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}
