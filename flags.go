package primesieve

// Flags is the public bitfield controlling what a PrimeSieve counts,
// prints and calls back, mirroring the external shape of the spec's flags
// API. Internally these bits are translated once, per Sieve call, into a
// sink.Config — there is no internal bitfield dispatch inside the hot
// per-prime loop, only the public surface is bit-based.
type Flags uint32

const (
	CountPrimes Flags = 1 << iota
	CountTwins
	CountTriplets
	CountQuadruplets
	CountQuintuplets
	CountSextuplets
	CountSeptuplets
	PrintPrimes
	PrintTwins
	PrintTriplets
	PrintQuadruplets
	PrintQuintuplets
	PrintSextuplets
	PrintSeptuplets
	PrintStatus
	CallbackPrimes
	CallbackPrimesCtx
	CallbackPrimes64
	CallbackPrimes64Ctx
)

// CountAll and PrintAll are convenience combinations, not new bits.
const (
	CountAll = CountPrimes | CountTwins | CountTriplets | CountQuadruplets | CountQuintuplets | CountSextuplets | CountSeptuplets
	PrintAll = PrintPrimes | PrintTwins | PrintTriplets | PrintQuadruplets | PrintQuintuplets | PrintSextuplets | PrintSeptuplets
)

// maxFlags is the widest bitfield SetFlags/AddFlags accept: bits 0 through
// 19, matching the reserved width of the flags argument even though the
// highest bit currently assigned to a meaning is 18 (CallbackPrimes64Ctx).
const maxFlags Flags = 1<<20 - 1

// CountEnabled reports whether counting is requested for counter index k
// (0 = primes, 1 = twins, ..., 6 = septuplets).
func (f Flags) CountEnabled(k int) bool { return f&(CountPrimes<<uint(k)) != 0 }

// PrintEnabled reports whether printing is requested for counter index k.
func (f Flags) PrintEnabled(k int) bool { return f&(PrintPrimes<<uint(k)) != 0 }

// HasCallback reports whether any of the four callback variants is set.
func (f Flags) HasCallback() bool {
	return f&(CallbackPrimes|CallbackPrimesCtx|CallbackPrimes64|CallbackPrimes64Ctx) != 0
}

// HasPrint reports whether any print bit, including PrintStatus, is set.
func (f Flags) HasPrint() bool {
	return f&(PrintAll|PrintStatus) != 0
}
