package pma

import (
	"errors"
	"testing"

	"pma/addrset"
)

const (
	testXLen       = 64
	testCacheBlock = 64
	testPageSize   = 0x1000
)

func ramRegion(name string, start, end uint64) MemoryRegion {
	return MemoryRegion{
		Name:               name,
		Address:            addrset.Range(start, end),
		SupportsGet:        TransferRange(1, testCacheBlock),
		SupportsPutFull:    TransferRange(1, testCacheBlock),
		SupportsPutPartial: TransferRange(1, testCacheBlock),
		SupportsAcquireB:   TransferExactly(testCacheBlock),
		SupportsAcquireT:   TransferExactly(testCacheBlock),
		SupportsArithmetic: TransferRange(4, testXLen/8),
		SupportsLogical:    TransferRange(4, testXLen/8),
		Executable:         true,
	}
}

func romRegion(name string, start, end uint64) MemoryRegion {
	return MemoryRegion{
		Name:        name,
		Address:     addrset.Range(start, end),
		SupportsGet: TransferRange(1, testCacheBlock),
		Executable:  true,
	}
}

func mmioRegion(name string, start, end uint64) MemoryRegion {
	return MemoryRegion{
		Name:               name,
		Address:            addrset.Range(start, end),
		SupportsGet:        TransferRange(1, testCacheBlock),
		SupportsPutFull:    TransferRange(1, testCacheBlock),
		SupportsPutPartial: TransferRange(1, testCacheBlock),
		ReadEffects:        true,
		WriteEffects:       true,
	}
}

func TestValidateParams(t *testing.T) {
	cases := []struct {
		name                  string
		xLen, block, pageSize uint64
	}{
		{"xLen not pow2", 48, 64, 0x1000},
		{"xLen too small", 4, 64, 0x1000},
		{"block not pow2", 64, 48, 0x1000},
		{"block under word", 64, 4, 0x1000},
		{"page not pow2", 64, 64, 0x1800},
		{"page under block", 64, 64, 32},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := BuildResolver(nil, c.xLen, c.block, c.pageSize)
			var cfg *ConfigurationError
			if !errors.As(err, &cfg) {
				t.Fatalf("want ConfigurationError, got %v", err)
			}
		})
	}
}

func TestValidateTransferPolicies(t *testing.T) {
	base := func() MemoryRegion { return ramRegion("ram", 0x1000, 0x2000) }

	cases := []struct {
		name   string
		mutate func(*MemoryRegion)
		op     string
	}{
		{
			name:   "get too narrow",
			mutate: func(r *MemoryRegion) { r.SupportsGet = TransferRange(4, testCacheBlock) },
			op:     "get",
		},
		{
			name:   "putFull capped early",
			mutate: func(r *MemoryRegion) { r.SupportsPutFull = TransferRange(1, 32) },
			op:     "putFull",
		},
		{
			name:   "acquireB under block size",
			mutate: func(r *MemoryRegion) { r.SupportsAcquireB = TransferExactly(32) },
			op:     "acquireB",
		},
		{
			name:   "acquireB wider than block",
			mutate: func(r *MemoryRegion) { r.SupportsAcquireB = TransferRange(32, 64) },
			op:     "acquireB",
		},
		{
			name:   "acquireT not exact",
			mutate: func(r *MemoryRegion) { r.SupportsAcquireT = TransferRange(64, 128) },
			op:     "acquireT",
		},
		{
			name:   "arithmetic misses word sizes",
			mutate: func(r *MemoryRegion) { r.SupportsArithmetic = TransferExactly(8) },
			op:     "arithmetic",
		},
		{
			name:   "logical misses word sizes",
			mutate: func(r *MemoryRegion) { r.SupportsLogical = TransferRange(4, 4) },
			op:     "logical",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			region := base()
			c.mutate(&region)

			_, err := BuildResolver([]MemoryRegion{region}, testXLen, testCacheBlock, testPageSize)
			var cfg *ConfigurationError
			if !errors.As(err, &cfg) {
				t.Fatalf("want ConfigurationError, got %v", err)
			}
			if cfg.Op != c.op {
				t.Fatalf("reported op %q, want %q", cfg.Op, c.op)
			}
			if cfg.Region != "ram" || cfg.Address != 0x1000 {
				t.Fatalf("reported %q at %X", cfg.Region, cfg.Address)
			}
		})
	}
}

func TestValidateCachedWithoutExclusive(t *testing.T) {
	region := ramRegion("ram", 0x1000, 0x2000)
	region.SupportsAcquireT = TransferSizes{}

	_, err := BuildResolver([]MemoryRegion{region}, testXLen, testCacheBlock, testPageSize)
	var cfg *ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
	if cfg.Region != "ram" {
		t.Fatalf("reported %q", cfg.Region)
	}
}

func TestValidateCrossTupleOverlap(t *testing.T) {
	regions := []MemoryRegion{
		romRegion("rom", 0x1000, 0x3000),
		mmioRegion("uart", 0x2000, 0x4000),
	}

	_, err := BuildResolver(regions, testXLen, testCacheBlock, testPageSize)
	var cfg *ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}

	// same-tuple overlap is just a union
	regions = []MemoryRegion{
		romRegion("rom0", 0x1000, 0x3000),
		romRegion("rom1", 0x2000, 0x4000),
	}
	if _, err := BuildResolver(regions, testXLen, testCacheBlock, testPageSize); err != nil {
		t.Fatalf("same-tuple overlap must build: %v", err)
	}
}

func TestValidateCleanTable(t *testing.T) {
	regions := []MemoryRegion{
		romRegion("rom", 0x0, 0x10000),
		ramRegion("ram", 0x8000_0000, 0x9000_0000),
		mmioRegion("mmio", 0x4000_0000, 0x4001_0000),
	}
	if _, err := BuildResolver(regions, testXLen, testCacheBlock, testPageSize); err != nil {
		t.Fatalf("clean table rejected: %v", err)
	}
}
