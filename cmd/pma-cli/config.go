package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"pma"
	"pma/addrset"
)

type regionTable struct {
	regions    []pma.MemoryRegion
	xLen       uint64
	cacheBlock uint64
	pageSize   uint64
}

type tableFile struct {
	XLen       uint64        `toml:"xlen"`
	CacheBlock uint64        `toml:"cache-block"`
	PageSize   uint64        `toml:"page-size"`
	Region     []tableRegion `toml:"region"`
}

type tableRegion struct {
	Name    string     `toml:"name"`
	Address [][]uint64 `toml:"address"`

	Get        []uint64 `toml:"get"`
	PutFull    []uint64 `toml:"put-full"`
	PutPartial []uint64 `toml:"put-partial"`
	AcquireB   []uint64 `toml:"acquire-b"`
	AcquireT   []uint64 `toml:"acquire-t"`
	Arithmetic []uint64 `toml:"arithmetic"`
	Logical    []uint64 `toml:"logical"`

	Executable   bool `toml:"executable"`
	ReadEffects  bool `toml:"read-effects"`
	WriteEffects bool `toml:"write-effects"`
}

func loadTable(path string) (*regionTable, error) {
	var file tableFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}

	table := &regionTable{
		regions:    make([]pma.MemoryRegion, 0, len(file.Region)),
		xLen:       file.XLen,
		cacheBlock: file.CacheBlock,
		pageSize:   file.PageSize,
	}

	for _, raw := range file.Region {
		region := pma.MemoryRegion{
			Name:         raw.Name,
			Executable:   raw.Executable,
			ReadEffects:  raw.ReadEffects,
			WriteEffects: raw.WriteEffects,
		}

		if len(raw.Address) == 0 {
			return nil, fmt.Errorf("region %q: no address ranges", raw.Name)
		}
		for _, pair := range raw.Address {
			if len(pair) != 2 || pair[1] <= pair[0] {
				return nil, fmt.Errorf("region %q: address wants [start, end) pairs", raw.Name)
			}
			region.Address = append(region.Address, addrset.Range(pair[0], pair[1])...)
		}

		sizes := []struct {
			name string
			pair []uint64
			dst  *pma.TransferSizes
		}{
			{"get", raw.Get, &region.SupportsGet},
			{"put-full", raw.PutFull, &region.SupportsPutFull},
			{"put-partial", raw.PutPartial, &region.SupportsPutPartial},
			{"acquire-b", raw.AcquireB, &region.SupportsAcquireB},
			{"acquire-t", raw.AcquireT, &region.SupportsAcquireT},
			{"arithmetic", raw.Arithmetic, &region.SupportsArithmetic},
			{"logical", raw.Logical, &region.SupportsLogical},
		}
		for _, s := range sizes {
			switch len(s.pair) {
			case 0:
			case 2:
				*s.dst = pma.TransferRange(s.pair[0], s.pair[1])
			default:
				return nil, fmt.Errorf("region %q: %s wants [min, max]", raw.Name, s.name)
			}
		}

		table.regions = append(table.regions, region)
	}
	return table, nil
}
