package primesieve_test

import (
	"testing"

	"github.com/haribomueller/primesieve"
)

// TestSieveParallel_PrimeCountDeterministic checks spec §8 property 3: the
// prime count must be identical regardless of threadCount and independent
// of how [start, stop] got partitioned. Tuplet counts are deliberately not
// asserted here — see DESIGN.md's ParallelDriver entry for why chunk
// boundaries (unlike intra-sieve segment boundaries) have no cross-chunk
// lookahead.
func TestSieveParallel_PrimeCountDeterministic(t *testing.T) {
	const start, stop = 1, 300000

	seq := primesieve.New()
	mustSetStart(t, seq, start)
	mustSetStop(t, seq, stop)
	mustSetFlags(t, seq, primesieve.CountPrimes)
	if err := seq.Sieve(); err != nil {
		t.Fatalf("sequential Sieve: %v", err)
	}
	want, _ := seq.GetCounts(0)

	for _, threads := range []int{1, 2, 3, 4, 8, 16} {
		ps := primesieve.New()
		mustSetStart(t, ps, start)
		mustSetStop(t, ps, stop)
		mustSetFlags(t, ps, primesieve.CountPrimes)
		if err := ps.SieveParallel(threads); err != nil {
			t.Fatalf("SieveParallel(%d): %v", threads, err)
		}
		got, _ := ps.GetCounts(0)
		if got != want {
			t.Errorf("threads=%d: prime count = %d, want %d", threads, got, want)
		}
	}
}

// TestSieveParallel_FallsBackToSequentialWhenPrinting checks the
// redesign decision that Print*/Callback* flags disable parallelism.
func TestSieveParallel_FallsBackToSequentialWhenPrinting(t *testing.T) {
	seq := primesieve.New()
	mustSetStart(t, seq, 0)
	mustSetStop(t, seq, 1000)
	mustSetFlags(t, seq, primesieve.CountPrimes)
	if err := seq.Sieve(); err != nil {
		t.Fatalf("sequential Sieve: %v", err)
	}
	want, _ := seq.GetCounts(0)

	ps := primesieve.New()
	mustSetStart(t, ps, 0)
	mustSetStop(t, ps, 1000)
	mustSetFlags(t, ps, primesieve.CountPrimes|primesieve.PrintPrimes)
	ps.SetWriter(discard{})
	if err := ps.SieveParallel(8); err != nil {
		t.Fatalf("SieveParallel: %v", err)
	}
	got, _ := ps.GetCounts(0)
	if got != want {
		t.Errorf("SieveParallel with PrintPrimes set: prime count = %d, want %d", got, want)
	}
}

// TestSieveParallel_SingleThreadMatchesSieve checks that threadCount=1
// behaves exactly like calling Sieve directly, including applying the
// small-prime table exactly once.
func TestSieveParallel_SingleThreadMatchesSieve(t *testing.T) {
	seq := primesieve.New()
	mustSetStart(t, seq, 0)
	mustSetStop(t, seq, 100)
	mustSetFlags(t, seq, primesieve.CountPrimes)
	if err := seq.Sieve(); err != nil {
		t.Fatalf("Sieve: %v", err)
	}
	want, _ := seq.GetCounts(0)

	par := primesieve.New()
	mustSetStart(t, par, 0)
	mustSetStop(t, par, 100)
	mustSetFlags(t, par, primesieve.CountPrimes)
	if err := par.SieveParallel(1); err != nil {
		t.Fatalf("SieveParallel(1): %v", err)
	}
	got, _ := par.GetCounts(0)
	if got != want {
		t.Errorf("SieveParallel(1) = %d, want %d", got, want)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
