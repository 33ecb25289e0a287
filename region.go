package pma

import (
	"pma/addrset"
)

// MemoryRegion declares one entry of the static memory map: its address
// coverage and the transfers it can serve. Declarations are immutable
// input; the pipeline never writes back into them.
type MemoryRegion struct {
	Name    string
	Address []addrset.AddressSet

	SupportsGet        TransferSizes
	SupportsPutFull    TransferSizes
	SupportsPutPartial TransferSizes
	SupportsAcquireB   TransferSizes
	SupportsAcquireT   TransferSizes
	SupportsArithmetic TransferSizes
	SupportsLogical    TransferSizes

	Executable   bool
	ReadEffects  bool
	WriteEffects bool
}

// Permissions derives the fixed permission tuple of the region.
func (r *MemoryRegion) Permissions() (p Permissions) {
	if r.ReadEffects || r.WriteEffects {
		p |= PermEffects
	}
	if r.SupportsGet.Supported() || r.SupportsAcquireB.Supported() {
		p |= PermRead
	}
	if r.SupportsPutFull.Supported() || r.SupportsAcquireT.Supported() {
		p |= PermWrite
	}
	if r.Executable {
		p |= PermExec
	}
	if r.SupportsAcquireB.Supported() {
		p |= PermCacheable
	}
	if r.SupportsArithmetic.Supported() {
		p |= PermArithmetic
	}
	if r.SupportsLogical.Supported() {
		p |= PermLogical
	}
	return
}

// firstAddress is the lowest declared address, used when reporting the
// region in errors.
func (r *MemoryRegion) firstAddress() uint64 {
	var min uint64
	for i, s := range r.Address {
		if i == 0 || s.Base < min {
			min = s.Base
		}
	}
	return min
}
