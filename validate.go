package pma

import (
	"fmt"

	"pma/utils"
)

// ConfigurationError reports a region table that cannot be compiled. It
// is raised before any decision logic is built; a resolver is never
// constructed from a table that fails validation.
type ConfigurationError struct {
	Region   string
	Address  uint64
	Op       string
	Declared TransferSizes
	Required TransferSizes
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		if e.Region == "" {
			return fmt.Sprintf("pma: %s", e.Reason)
		}
		return fmt.Sprintf("pma: region %q at %08X: %s", e.Region, e.Address, e.Reason)
	}
	return fmt.Sprintf("pma: region %q at %08X: %s supports %s, requires %s",
		e.Region, e.Address, e.Op, e.Declared, e.Required)
}

func paramError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

func validateParams(xLen, cacheBlockBytes, pageSize uint64) error {
	if !utils.IsPow2(xLen) || xLen < 8 {
		return paramError("xLen %d must be a power of two >= 8", xLen)
	}
	if !utils.IsPow2(cacheBlockBytes) || cacheBlockBytes < xLen/8 {
		return paramError("cacheBlockBytes %d must be a power of two >= xLen/8 (%d)", cacheBlockBytes, xLen/8)
	}
	if !utils.IsPow2(pageSize) || pageSize < cacheBlockBytes {
		return paramError("pageSize %d must be a power of two >= cacheBlockBytes (%d)", pageSize, cacheBlockBytes)
	}
	return nil
}

// validateRegions checks every declared capability against the transfer
// sizes its operation class demands. All failures are configuration
// errors; nothing is silently downgraded.
func validateRegions(regions []MemoryRegion, xLen, cacheBlockBytes uint64) error {
	fullBlock := TransferRange(1, cacheBlockBytes)
	exactBlock := TransferExactly(cacheBlockBytes)
	word := TransferRange(4, xLen/8)

	for i := range regions {
		r := &regions[i]
		rules := []struct {
			op       string
			declared TransferSizes
			required TransferSizes
			exact    bool
		}{
			{"get", r.SupportsGet, fullBlock, false},
			{"putFull", r.SupportsPutFull, fullBlock, false},
			{"putPartial", r.SupportsPutPartial, fullBlock, false},
			{"acquireB", r.SupportsAcquireB, exactBlock, true},
			{"acquireT", r.SupportsAcquireT, exactBlock, true},
			{"arithmetic", r.SupportsArithmetic, word, false},
			{"logical", r.SupportsLogical, word, false},
		}
		for _, rule := range rules {
			if !rule.declared.Supported() {
				continue
			}
			ok := rule.declared.Contains(rule.required)
			if rule.exact {
				ok = rule.declared == rule.required
			}
			if !ok {
				return &ConfigurationError{
					Region:   r.Name,
					Address:  r.firstAddress(),
					Op:       rule.op,
					Declared: rule.declared,
					Required: rule.required,
				}
			}
		}

		// cached-readable but only plain-writable has no coherent
		// upgrade path and is not supported
		if r.SupportsAcquireB.Supported() && r.SupportsPutFull.Supported() && !r.SupportsAcquireT.Supported() {
			return &ConfigurationError{
				Region:  r.Name,
				Address: r.firstAddress(),
				Reason:  "supports acquireB and putFull but not acquireT",
			}
		}
	}
	return nil
}
