package pma

import "fmt"

// TransferSizes is the inclusive range of transfer sizes, in bytes, a
// region supports for one operation. The zero value means the operation
// is not supported at all.
type TransferSizes struct {
	Min uint64
	Max uint64
}

func TransferRange(min, max uint64) TransferSizes {
	return TransferSizes{Min: min, Max: max}
}

func TransferExactly(n uint64) TransferSizes {
	return TransferSizes{Min: n, Max: n}
}

func (t TransferSizes) Supported() bool {
	return t.Max != 0
}

// Contains reports whether t covers the whole of other.
func (t TransferSizes) Contains(other TransferSizes) bool {
	return t.Supported() && t.Min <= other.Min && other.Max <= t.Max
}

func (t TransferSizes) ContainsSize(n uint64) bool {
	return t.Min <= n && n <= t.Max
}

func (t TransferSizes) String() string {
	if !t.Supported() {
		return "none"
	}
	if t.Min == t.Max {
		return fmt.Sprintf("[%d]", t.Min)
	}
	return fmt.Sprintf("[%d, %d]", t.Min, t.Max)
}
