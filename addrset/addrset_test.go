package addrset

import (
	"testing"
)

func TestContains(t *testing.T) {
	s := New(0x1000, 0xFFF)

	for _, addr := range []uint64{0x1000, 0x1234, 0x1FFF} {
		if !s.Contains(addr) {
			t.Fatalf("%s should contain %X", s, addr)
		}
	}
	for _, addr := range []uint64{0x0FFF, 0x2000, 0} {
		if s.Contains(addr) {
			t.Fatalf("%s should not contain %X", s, addr)
		}
	}
}

func TestOverlaps(t *testing.T) {
	a := New(0x1000, 0xFFF)
	b := New(0x2000, 0xFFF)
	wide := New(0x0, 0x3FFF)
	holed := New(0x1000, 0x2FFF) // 1000-1FFF and 3000-3FFF

	if a.Overlaps(b) {
		t.Fatalf("%s and %s are disjoint", a, b)
	}
	if !wide.Overlaps(a) || !wide.ContainsSet(a) {
		t.Fatalf("%s should cover %s", wide, a)
	}
	if holed.Overlaps(b) {
		t.Fatalf("%s has a hole at %s", holed, b)
	}
	if !holed.Overlaps(a) {
		t.Fatalf("%s should overlap %s", holed, a)
	}
}

func TestWiden(t *testing.T) {
	s := New(0x1000, 0xFFF)
	w := s.Widen(0x1000)

	if w.Base != 0 || w.Mask != 0x1FFF {
		t.Fatalf("widen got %s", w)
	}
	if !w.ContainsSet(s) {
		t.Fatalf("widened %s must cover %s", w, s)
	}
	// widening by covered bits changes nothing
	if s.Widen(0xFF) != s {
		t.Fatalf("widen by masked bits changed %s", s.Widen(0xFF))
	}
}

func TestAlignment(t *testing.T) {
	cases := []struct {
		set   AddressSet
		align uint64
	}{
		{New(0x1000, 0xFFF), 0x1000},
		{New(0x1000, 0x2FFF), 0x1000},
		{New(0x0, 0x3FFF), 0x4000},
		{New(0x1800, 0x7FF), 0x800},
		{New(0x1234, 0x3), 0x4},
	}
	for _, c := range cases {
		if got := c.set.Alignment(); got != c.align {
			t.Fatalf("%s: alignment got %X, want %X", c.set, got, c.align)
		}
	}
}

func TestRange(t *testing.T) {
	cases := []struct {
		start, end uint64
	}{
		{0x0, 0x1000},
		{0x1000, 0x3000},
		{0x1000, 0x1800},
		{0x1234, 0x1240},
		{0x1800, 0x4000},
		{0xFFF, 0x3001},
	}
	for _, c := range cases {
		sets := Range(c.start, c.end)
		checkRangeStrict(t, c.start, c.end, sets)
	}

	if Range(0x2000, 0x2000) != nil || Range(0x2000, 0x1000) != nil {
		t.Fatal("empty range must decompose to nothing")
	}
}

// checkRangeStrict walks the decomposition in order and requires it to
// cover [start, end) exactly, aligned, without gaps or overlap.
func checkRangeStrict(t *testing.T, start, end uint64, sets []AddressSet) {
	t.Helper()

	var total uint64
	cursor := start
	for i, s := range sets {
		if !s.Contiguous() {
			t.Fatalf("[%X, %X): chunk %d (%s) not contiguous", start, end, i, s)
		}
		if s.Base%s.Size() != 0 {
			t.Fatalf("[%X, %X): chunk %d (%s) not naturally aligned", start, end, i, s)
		}
		if s.Base != cursor {
			t.Fatalf("[%X, %X): gap or overlap at %X, chunk starts at %X", start, end, cursor, s.Base)
		}
		cursor = s.Max() + 1
		total += s.Size()
	}
	if cursor != end {
		t.Fatalf("[%X, %X): coverage stops at %X", start, end, cursor)
	}
	if total != end-start {
		t.Fatalf("[%X, %X): byte count mismatch, got %d", start, end, total)
	}
}

func TestUnify(t *testing.T) {
	t.Run("adjacent pair", func(t *testing.T) {
		got := Unify([]AddressSet{New(0x2000, 0xFFF), New(0x3000, 0xFFF)})
		want := New(0x2000, 0x1FFF)
		if len(got) != 1 || got[0] != want {
			t.Fatalf("got %v, want [%s]", got, want)
		}
	})

	t.Run("quad", func(t *testing.T) {
		got := Unify([]AddressSet{
			New(0x1000, 0xFFF), New(0x0, 0xFFF),
			New(0x3000, 0xFFF), New(0x2000, 0xFFF),
		})
		want := New(0x0, 0x3FFF)
		if len(got) != 1 || got[0] != want {
			t.Fatalf("got %v, want [%s]", got, want)
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		got := Unify([]AddressSet{New(0x1000, 0xFFF), New(0x1000, 0xFFF)})
		if len(got) != 1 || got[0] != New(0x1000, 0xFFF) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("distant pair fuses into a holed set", func(t *testing.T) {
		got := Unify([]AddressSet{New(0x1000, 0xFFF), New(0x3000, 0xFFF)})
		want := New(0x1000, 0x2FFF)
		if len(got) != 1 || got[0] != want {
			t.Fatalf("got %v, want [%s]", got, want)
		}
	})

	t.Run("unmergeable stays sorted", func(t *testing.T) {
		got := Unify([]AddressSet{New(0x4000, 0xFFF), New(0x1000, 0xFFF)})
		if len(got) != 2 || got[0].Base != 0x1000 || got[1].Base != 0x4000 {
			t.Fatalf("got %v", got)
		}
	})
}

func TestUnifyMembershipPreserved(t *testing.T) {
	in := []AddressSet{
		New(0x0, 0xFF), New(0x100, 0xFF), New(0x200, 0xFF),
		New(0x1000, 0xFFF), New(0x2000, 0xFFF), New(0x3000, 0xFFF),
		New(0x8000, 0x7FF),
	}
	out := Unify(in)

	if len(out) >= len(in) {
		t.Fatalf("unify did not shrink: %d -> %d", len(in), len(out))
	}
	for addr := uint64(0); addr < 0x10000; addr += 0x40 {
		if ContainsAny(in, addr) != ContainsAny(out, addr) {
			t.Fatalf("membership of %X changed", addr)
		}
	}
}
