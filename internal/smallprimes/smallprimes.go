// Package smallprimes holds the fixed table of primes and prime tuplets
// below the wheel's floor of 7. A Segmenter can never discover these on
// its own since the wheel-30 bit layout doesn't represent multiples of 2,
// 3 or 5; the top-level driver consults this table once, before forking
// any workers, and folds matching entries into the result directly.
package smallprimes

// Entry describes one fixed small prime or prime tuplet: Members lists its
// values in ascending order, and CounterIndex is which slot of the seven
// entry counts vector it contributes to (0 = primes, 1 = twins, ...,
// 4 = quintuplets — no small-prime entry reaches sextuplets or
// septuplets).
type Entry struct {
	Members      []uint64
	CounterIndex int
}

// Min returns the smallest member.
func (e Entry) Min() uint64 { return e.Members[0] }

// Max returns the largest member.
func (e Entry) Max() uint64 { return e.Members[len(e.Members)-1] }

// Entries is the fixed table, in the order the original sieve's
// doSmallPrime step enumerates them.
var Entries = []Entry{
	{Members: []uint64{2}, CounterIndex: 0},
	{Members: []uint64{3}, CounterIndex: 0},
	{Members: []uint64{5}, CounterIndex: 0},
	{Members: []uint64{3, 5}, CounterIndex: 1},
	{Members: []uint64{5, 7}, CounterIndex: 1},
	{Members: []uint64{5, 7, 11}, CounterIndex: 2},
	{Members: []uint64{5, 7, 11, 13}, CounterIndex: 3},
	{Members: []uint64{5, 7, 11, 13, 17}, CounterIndex: 4},
}

// Applicable returns every entry fully contained in [start, stop].
func Applicable(start, stop uint64) []Entry {
	var out []Entry
	for _, e := range Entries {
		if start <= e.Min() && stop >= e.Max() {
			out = append(out, e)
		}
	}
	return out
}
