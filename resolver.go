package pma

import (
	"pma/addrset"
)

// queryBits fixes the synthesis order of the six queryable bits.
var queryBits = [...]struct {
	bit  Permissions
	name string
}{
	{PermRead, "read"},
	{PermWrite, "write"},
	{PermExec, "exec"},
	{PermCacheable, "cacheable"},
	{PermArithmetic, "arithmetic"},
	{PermLogical, "logical"},
}

// Resolver is the compiled decision procedure over a static memory map.
// It is immutable after construction; Lookup reads no mutable state and
// may be called from any number of goroutines.
type Resolver struct {
	pageSize    uint64
	homogeneous []addrset.AddressSet
	tests       [len(queryBits)]bitTest
	groups      map[Permissions][]addrset.AddressSet
}

// BuildResolver validates the region table and compiles the decision
// procedure. The whole pipeline runs here, once; a table that fails any
// rule yields a *ConfigurationError and no resolver at all.
func BuildResolver(regions []MemoryRegion, xLen, cacheBlockBytes, pageSize uint64) (*Resolver, error) {
	if err := validateParams(xLen, cacheBlockBytes, pageSize); err != nil {
		return nil, err
	}
	if err := validateRegions(regions, xLen, cacheBlockBytes); err != nil {
		return nil, err
	}

	entries := classify(regions)
	if err := checkDisjoint(entries); err != nil {
		return nil, err
	}

	pageGroups := pageAligned(groupCovers(entries), pageSize)

	r := &Resolver{
		pageSize: pageSize,
		groups:   pageGroups,
	}

	var all []addrset.AddressSet
	for _, cover := range pageGroups {
		all = append(all, cover...)
	}
	r.homogeneous = addrset.Unify(all)

	for i, qb := range queryBits {
		r.tests[i] = synthesize(pageGroups, qb.bit)
	}
	return r, nil
}

// Lookup resolves an address. ok is the homogeneity flag: when false the
// containing page has no uniform permission assignment and the returned
// Permissions is zero, never a stale partial answer. Lookup cannot fail.
func (r *Resolver) Lookup(addr uint64) (p Permissions, ok bool) {
	if !addrset.ContainsAny(r.homogeneous, addr) {
		return 0, false
	}
	for i, qb := range queryBits {
		if r.tests[i].test(addr) {
			p |= qb.bit
		}
	}
	return p, true
}

func (r *Resolver) PageSize() uint64 {
	return r.pageSize
}

// Groups exposes the page-aligned permission covers the resolver was
// compiled from. The returned map is shared; treat it as read-only.
func (r *Resolver) Groups() map[Permissions][]addrset.AddressSet {
	return r.groups
}

// TestSummary describes one compiled bit test, for reporting.
type TestSummary struct {
	Name     string
	Mask     uint64
	Negated  bool
	Constant bool
	Value    bool
	Cover    []addrset.AddressSet
}

func (r *Resolver) Summary() []TestSummary {
	out := make([]TestSummary, len(queryBits))
	for i, qb := range queryBits {
		t := &r.tests[i]
		out[i] = TestSummary{
			Name:     qb.name,
			Mask:     t.mask,
			Negated:  t.negate,
			Constant: t.cover == nil,
			Value:    t.value,
			Cover:    t.cover,
		}
	}
	return out
}

// IsPageMapHomogeneous reports whether no permission boundary anywhere in
// the declared map falls inside a page: every group's coalesced cover
// consists solely of page-aligned, page-sized-or-larger blocks. It needs
// no validated table and never fails.
func IsPageMapHomogeneous(regions []MemoryRegion, pageSize uint64) bool {
	for _, cover := range groupCovers(classify(regions)) {
		for _, s := range cover {
			if s.Alignment() < pageSize {
				return false
			}
		}
	}
	return true
}
