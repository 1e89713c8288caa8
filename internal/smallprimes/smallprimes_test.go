package smallprimes_test

import (
	"testing"

	"github.com/haribomueller/primesieve/internal/smallprimes"
)

func TestApplicable_ExactContainment(t *testing.T) {
	cases := []struct {
		start, stop uint64
		wantMembers [][]uint64
	}{
		{0, 1, nil},
		{0, 2, [][]uint64{{2}}},
		{2, 5, [][]uint64{{2}, {3}, {5}, {3, 5}}},
		{0, 10, [][]uint64{{2}, {3}, {5}, {3, 5}, {5, 7}}},
		{0, 17, [][]uint64{
			{2}, {3}, {5}, {3, 5}, {5, 7}, {5, 7, 11}, {5, 7, 11, 13}, {5, 7, 11, 13, 17},
		}},
		// Narrowing stop below a tuplet's last member drops that tuplet.
		{0, 16, [][]uint64{{2}, {3}, {5}, {3, 5}, {5, 7}, {5, 7, 11}, {5, 7, 11, 13}}},
		// Raising start above a tuplet's first member drops it too.
		{4, 17, [][]uint64{{5}, {5, 7}, {5, 7, 11}, {5, 7, 11, 13}, {5, 7, 11, 13, 17}}},
	}
	for _, c := range cases {
		got := smallprimes.Applicable(c.start, c.stop)
		if len(got) != len(c.wantMembers) {
			t.Fatalf("Applicable(%d, %d): got %d entries, want %d (%v)", c.start, c.stop, len(got), len(c.wantMembers), got)
		}
		for i, e := range got {
			if !equalMembers(e.Members, c.wantMembers[i]) {
				t.Errorf("Applicable(%d, %d)[%d] = %v, want %v", c.start, c.stop, i, e.Members, c.wantMembers[i])
			}
		}
	}
}

func equalMembers(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEntries_CounterIndexNeverReachesSextupletsOrSeptuplets(t *testing.T) {
	for _, e := range smallprimes.Entries {
		if e.CounterIndex > 4 {
			t.Errorf("entry %v has CounterIndex %d, want <= 4 (no small-prime sextuplet/septuplet exists)", e.Members, e.CounterIndex)
		}
	}
}

func TestEntry_MinMax(t *testing.T) {
	e := smallprimes.Entry{Members: []uint64{5, 7, 11, 13, 17}, CounterIndex: 4}
	if e.Min() != 5 {
		t.Errorf("Min() = %d, want 5", e.Min())
	}
	if e.Max() != 17 {
		t.Errorf("Max() = %d, want 17", e.Max())
	}
}
