// Copyright (C) 2025 kayon <kayon.hu@gmail.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pma

import (
	"pma/addrset"
)

// bitTest is the compiled membership test of a single permission bit.
// A nil cover makes the test a constant: one side of the partition was
// empty and no address bit needs examining.
type bitTest struct {
	mask   uint64
	negate bool
	value  bool
	cover  []addrset.AddressSet
}

func (t *bitTest) test(addr uint64) bool {
	if t.cover == nil {
		return t.value
	}
	hit := addrset.ContainsAny(t.cover, addr)
	if t.negate {
		return !hit
	}
	return hit
}

// synthesize compiles the test for one permission bit. The page-aligned
// groups are split by the bit, the smallest discriminating mask between
// the two sides is found, both sides are widened to the mask and
// re-coalesced, and whichever side then needs fewer range comparators
// becomes the test (negated when it is the no side).
func synthesize(groups map[Permissions][]addrset.AddressSet, bit Permissions) bitTest {
	var yes, no []addrset.AddressSet
	for p, cover := range groups {
		if p&bit != 0 {
			yes = append(yes, cover...)
		} else {
			no = append(no, cover...)
		}
	}

	// degenerate partitions cost nothing
	if len(yes) == 0 {
		return bitTest{value: false}
	}
	if len(no) == 0 {
		return bitTest{value: true}
	}

	mask := addrset.MinimalMask(yes, no)
	discard := ^mask
	yes = addrset.Unify(widenAll(yes, discard))
	no = addrset.Unify(widenAll(no, discard))

	if len(yes) < len(no) {
		return bitTest{mask: mask, cover: yes}
	}
	return bitTest{mask: mask, negate: true, cover: no}
}

func widenAll(sets []addrset.AddressSet, discard uint64) []addrset.AddressSet {
	out := make([]addrset.AddressSet, len(sets))
	for i, s := range sets {
		out[i] = s.Widen(discard)
	}
	return out
}
