package pma

import (
	"fmt"

	"pma/addrset"
)

type classified struct {
	region *MemoryRegion
	perms  Permissions
}

// classify derives each region's permission tuple and drops regions whose
// tuple carries no queryable bit.
func classify(regions []MemoryRegion) []classified {
	entries := make([]classified, 0, len(regions))
	for i := range regions {
		r := &regions[i]
		p := r.Permissions()
		if !p.Useful() {
			continue
		}
		entries = append(entries, classified{region: r, perms: p})
	}
	return entries
}

// checkDisjoint rejects address overlap between regions of different
// tuples. Same-tuple overlap is harmless, the covers union anyway.
func checkDisjoint(entries []classified) error {
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].perms == entries[j].perms {
				continue
			}
			for _, a := range entries[i].region.Address {
				for _, b := range entries[j].region.Address {
					if a.Overlaps(b) {
						return &ConfigurationError{
							Region:  entries[i].region.Name,
							Address: a.Base,
							Reason: fmt.Sprintf("overlaps region %q (%s vs %s) at %s",
								entries[j].region.Name, entries[i].perms, entries[j].perms, b),
						}
					}
				}
			}
		}
	}
	return nil
}

// groupCovers unions the address sets of all regions sharing a tuple into
// one minimal disjoint cover per tuple.
func groupCovers(entries []classified) map[Permissions][]addrset.AddressSet {
	groups := make(map[Permissions][]addrset.AddressSet)
	for _, e := range entries {
		groups[e.perms] = append(groups[e.perms], e.region.Address...)
	}
	for p, sets := range groups {
		groups[p] = addrset.Unify(sets)
	}
	return groups
}

// pageAligned keeps only the sets that are uniform at page granularity.
// A sub-page set cannot be vouched for by a page-level answer, so it is
// conservatively treated as inhomogeneous.
func pageAligned(groups map[Permissions][]addrset.AddressSet, pageSize uint64) map[Permissions][]addrset.AddressSet {
	out := make(map[Permissions][]addrset.AddressSet, len(groups))
	for p, cover := range groups {
		kept := make([]addrset.AddressSet, 0, len(cover))
		for _, s := range cover {
			if s.Alignment() >= pageSize {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			out[p] = kept
		}
	}
	return out
}
