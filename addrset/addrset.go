package addrset

import (
	"fmt"
	"math/bits"
	"slices"
)

// AddressSet is the set of addresses {Base | m : m ⊆ Mask}.
// Mask marks the don't-care bits; Base must have none of them set.
// A set whose mask is a contiguous run of low bits is an ordinary
// naturally-aligned range.
type AddressSet struct {
	Base uint64
	Mask uint64
}

// New panics when base has bits inside mask; declarations are static,
// a malformed set is a programming error, not an input error.
func New(base, mask uint64) AddressSet {
	if base&mask != 0 {
		panic(fmt.Sprintf("addrset: base %X intersects mask %X", base, mask))
	}
	return AddressSet{Base: base, Mask: mask}
}

func (s AddressSet) Contains(addr uint64) bool {
	return addr&^s.Mask == s.Base
}

// ContainsSet reports whether every address of other is in s.
func (s AddressSet) ContainsSet(other AddressSet) bool {
	return (other.Base^s.Base)&^s.Mask == 0 && other.Mask&^s.Mask == 0
}

func (s AddressSet) Overlaps(other AddressSet) bool {
	return (s.Base^other.Base)&^(s.Mask|other.Mask) == 0
}

// Widen discards the given address bits, producing the coarser set that
// covers s regardless of their values.
func (s AddressSet) Widen(discard uint64) AddressSet {
	return AddressSet{Base: s.Base &^ discard, Mask: s.Mask | discard}
}

// Alignment is the largest power of two the set is naturally aligned to:
// the span of the contiguous low run of mask bits, plus one.
func (s AddressSet) Alignment() uint64 {
	return (s.Mask + 1) & ^s.Mask
}

// Contiguous reports whether the mask is a single low run, i.e. the set
// is one gap-free range of Alignment() bytes.
func (s AddressSet) Contiguous() bool {
	return s.Mask&(s.Mask+1) == 0
}

// Size is the number of addresses in the set.
func (s AddressSet) Size() uint64 {
	return 1 << bits.OnesCount64(s.Mask)
}

// Max is the largest address in the set.
func (s AddressSet) Max() uint64 {
	return s.Base | s.Mask
}

func (s AddressSet) String() string {
	if s.Contiguous() {
		return fmt.Sprintf("%08X-%08X", s.Base, s.Max()+1)
	}
	return fmt.Sprintf("%08X/%X", s.Base, s.Mask)
}

// Compare orders sets by base, then by mask, for stable covers.
func Compare(a, b AddressSet) int {
	if a.Base != b.Base {
		if a.Base < b.Base {
			return -1
		}
		return 1
	}
	switch {
	case a.Mask < b.Mask:
		return -1
	case a.Mask > b.Mask:
		return 1
	}
	return 0
}

// Range decomposes [start, end) into the minimal ordered sequence of
// aligned sets. Each chunk is the largest power of two that both fits the
// remainder and keeps the current start aligned.
func Range(start, end uint64) []AddressSet {
	if end <= start {
		return nil
	}
	sets := make([]AddressSet, 0, 4)
	for start < end {
		size := uint64(1) << log2Floor(end-start)
		if a := start & (^start + 1); a != 0 && a < size {
			size = a
		}
		sets = append(sets, AddressSet{Base: start, Mask: size - 1})
		start += size
	}
	return sets
}

// Unify coalesces a collection into the minimal cover of the union:
// duplicates are dropped and sets identical up to one base bit are fused
// by widening that bit, repeated to a fixed point. Inputs must be
// pairwise disjoint or equal. The result is sorted.
func Unify(sets []AddressSet) []AddressSet {
	out := slices.Clone(sets)
	slices.SortFunc(out, Compare)
	out = slices.Compact(out)

	var baseBits uint64
	for _, s := range out {
		baseBits |= s.Base
	}

	for bit := uint64(1); bit != 0 && bit <= baseBits; bit <<= 1 {
		if baseBits&bit == 0 {
			continue
		}
		out = unifyBit(out, bit)
	}

	slices.SortFunc(out, Compare)
	return out
}

// unifyBit fuses pairs that differ only in bit. Fusing may expose
// further pairs at the same bit, so it loops until nothing merges.
func unifyBit(sets []AddressSet, bit uint64) []AddressSet {
	for {
		merged := false
		keyed := make(map[AddressSet]int, len(sets))
		out := sets[:0:0]
		for _, s := range sets {
			key := AddressSet{Base: s.Base &^ bit, Mask: s.Mask}
			if i, ok := keyed[key]; ok {
				if out[i] == s {
					// duplicate produced by an earlier fuse
					merged = true
				} else {
					out[i] = AddressSet{Base: key.Base, Mask: s.Mask | bit}
					merged = true
				}
				continue
			}
			keyed[key] = len(out)
			out = append(out, s)
		}
		sets = out
		if !merged {
			return sets
		}
	}
}

// ContainsAny reports whether addr is a member of any set in the cover.
func ContainsAny(cover []AddressSet, addr uint64) bool {
	for _, s := range cover {
		if s.Contains(addr) {
			return true
		}
	}
	return false
}

func log2Floor(n uint64) uint {
	return uint(bits.Len64(n)) - 1
}
