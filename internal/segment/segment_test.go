package segment_test

import (
	"testing"

	"github.com/haribomueller/primesieve/internal/segment"
	"github.com/haribomueller/primesieve/internal/wheel"
)

// collector is a minimal segment.Consumer that records every set bit's
// integer value, in the ascending order segments are delivered.
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

func sievingPrimesUpTo(limit uint64) []uint64 {
	var out []uint64
	for v := uint64(2); v <= limit; v++ {
		if isPrimeTrial(v) {
			out = append(out, v)
		}
	}
	return out
}

// isqrt is a small helper duplicated from the package under test's own
// unexported isqrt, kept local so this test file has no access to
// unexported identifiers.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := x/2 + x%2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

func runSegmenter(t *testing.T, start, stop, sieveSize uint64) []uint64 {
	t.Helper()
	c := &collector{}
	sg, err := segment.New(start, stop, sieveSize, 13, c)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", start, stop, err)
	}
	for _, p := range sievingPrimesUpTo(isqrt(stop) + 1) {
		if p < 7 {
			continue
		}
		if err := sg.Sieve(p); err != nil {
			t.Fatalf("Sieve(%d): %v", p, err)
		}
	}
	if err := sg.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return c.primes
}

func assertMatchesTrial(t *testing.T, start, stop uint64, got []uint64) {
	t.Helper()
	want := trialPrimesInRange(start, stop)
	if len(got) != len(want) {
		t.Fatalf("found %v\nwant %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("primes[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSegmenter_SingleSegmentRange(t *testing.T) {
	// sieveSize=64 bytes covers 1920 integers, comfortably one segment
	// for this range.
	assertMatchesTrial(t, 7, 500, runSegmenter(t, 7, 500, 64))
}

func TestSegmenter_MultiSegmentRange(t *testing.T) {
	// A tiny sieveSize forces many segment boundaries across this range,
	// exercising the Sieve/Finish segment-ready rule and the one-byte
	// lookahead at every boundary.
	assertMatchesTrial(t, 7, 5000, runSegmenter(t, 7, 5000, 8))
}

func TestSegmenter_MasksNonWheelAlignedBoundaries(t *testing.T) {
	// start/stop not aligned to 30 (start is composite, stop is the prime
	// 83); the first and last segments must mask out-of-range bits correctly.
	assertMatchesTrial(t, 50, 83, runSegmenter(t, 50, 83, 32))
}

func TestSegmenter_StartBelowWheelFloorClampsToSeven(t *testing.T) {
	// New clamps any start < 7 up to 7, since 2, 3 and 5 aren't
	// wheel-representable; the caller (the root package) is responsible
	// for reporting them from its own fixed table instead.
	got := runSegmenter(t, 0, 30, 32)
	assertMatchesTrial(t, 7, 30, got)
}

func TestNew_RejectsInvalidRange(t *testing.T) {
	c := &collector{}
	if _, err := segment.New(100, 10, 32, 13, c); err != segment.ErrInvalidRange {
		t.Errorf("New(100, 10, ...) error = %v, want ErrInvalidRange", err)
	}
	if _, err := segment.New(10, 100, 0, 13, c); err != segment.ErrInvalidRange {
		t.Errorf("New(_, _, 0, ...) error = %v, want ErrInvalidRange", err)
	}
}
