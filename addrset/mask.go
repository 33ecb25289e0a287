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

package addrset

import "math/bits"

// MinimalMask finds a smallest set of address bits whose values suffice to
// tell membership in yes apart from membership in no. The two covers must
// be disjoint. An empty side needs no bits at all.
//
// Greedy fixed point: start from every significant bit, then try dropping
// bits from the top down, keeping a drop whenever the two covers stay
// separable with the remaining bits.
func MinimalMask(yes, no []AddressSet) uint64 {
	if len(yes) == 0 || len(no) == 0 {
		return 0
	}

	width := significantBits(yes)
	if w := significantBits(no); w > width {
		width = w
	}

	mask := ^uint64(0)
	if width < 64 {
		mask = 1<<width - 1
	}

	for bit := width; bit > 0; bit-- {
		try := mask &^ (1 << (bit - 1))
		if try == mask {
			continue
		}
		if separates(yes, no, try) {
			mask = try
		}
	}
	return mask
}

// separates reports whether ignoring the bits outside mask still keeps
// every yes set apart from every no set.
func separates(yes, no []AddressSet, mask uint64) bool {
	discard := ^mask
	for _, y := range yes {
		yw := y.Widen(discard)
		for _, n := range no {
			if yw.Overlaps(n.Widen(discard)) {
				return false
			}
		}
	}
	return true
}

func significantBits(sets []AddressSet) uint {
	var top uint64
	for _, s := range sets {
		top |= s.Base | s.Mask
	}
	return uint(bits.Len64(top))
}
