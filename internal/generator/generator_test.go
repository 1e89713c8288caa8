package generator_test

import (
	"testing"

	"github.com/haribomueller/primesieve/internal/generator"
	"github.com/haribomueller/primesieve/internal/wheel"
)

type collector struct {
	primes []uint64
}

func (c *collector) OnSegment(sieve []byte, segmentLow uint64, lookahead byte, hasLookahead bool) {
	for i, b := range sieve {
		for b != 0 {
			bit := wheel.BitScanForward64(uint64(b))
			b &^= 1 << uint(bit)
			c.primes = append(c.primes, wheel.Value(segmentLow, uint64(i), bit))
		}
	}
}

func isPrimeTrial(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func trialPrimesInRange(lo, hi uint64) []uint64 {
	var out []uint64
	for v := lo; v <= hi; v++ {
		if isPrimeTrial(v) {
			out = append(out, v)
		}
	}
	return out
}

func assertMatchesTrial(t *testing.T, start, stop uint64, got []uint64) {
	t.Helper()
	want := trialPrimesInRange(start, stop)
	if len(got) != len(want) {
		t.Fatalf("found %d primes, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("primes[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestChain_BootstrapsItsOwnSievingPrimes is the integration test for the
// whole GeneratorChain: no sieving prime is handed in externally, only
// start/stop/sieveSize/preSieveLimit, matching how the root package
// actually drives it.
func TestChain_BootstrapsItsOwnSievingPrimes(t *testing.T) {
	const start, stop = 100, 20000
	c := &collector{}
	chain, err := generator.New(start, stop, 64, 13, c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := chain.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertMatchesTrial(t, start, stop, c.primes)
}

// TestChain_RangeEntirelyBelowSqrtFloor exercises the short-circuit where
// sqrt(stop) < 7, so no level-1 Segmenter is built at all.
func TestChain_RangeEntirelyBelowSqrtFloor(t *testing.T) {
	const start, stop = 7, 40
	c := &collector{}
	chain, err := generator.New(start, stop, 64, 13, c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := chain.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertMatchesTrial(t, start, stop, c.primes)
}

func TestNew_RejectsStopBelowSeven(t *testing.T) {
	c := &collector{}
	if _, err := generator.New(0, 5, 64, 13, c); err != generator.ErrRangeTooSmall {
		t.Errorf("New(0, 5, ...) error = %v, want ErrRangeTooSmall", err)
	}
}

// TestChain_TinySieveSizeForcesManySegments exercises many segment
// boundaries across both chain levels at once.
func TestChain_TinySieveSizeForcesManySegments(t *testing.T) {
	const start, stop = 7, 8000
	c := &collector{}
	chain, err := generator.New(start, stop, 8, 13, c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := chain.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertMatchesTrial(t, start, stop, c.primes)
}
