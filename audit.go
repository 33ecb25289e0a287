package pma

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/roaring64"
	"golang.org/x/sync/semaphore"

	"pma/addrset"
	"pma/utils"
)

const (
	auditMaxGoroutines = 64
	auditFindingsCaps  = 1 << 20
)

// Overlap names two permission groups whose page covers intersect. A
// correctly compiled resolver never produces one; a non-empty list means
// the grouping invariant was broken.
type Overlap struct {
	A, B  Permissions
	Pages uint64
}

type AuditReport struct {
	PagesSwept    uint64
	MismatchCount uint64
	// Mismatches holds the offending page addresses, capped at
	// auditFindingsCaps entries
	Mismatches []uint64
	Overlaps   []Overlap
}

func (r *AuditReport) Clean() bool {
	return r.MismatchCount == 0 && len(r.Overlaps) == 0
}

// Audit replays every page of every compiled permission cover through
// Lookup and checks the answer against the group's tuple, then re-proves
// pairwise group disjointness from the swept page indexes. Group sweeps
// run concurrently; Lookup is stateless, so the only coordination is the
// admission semaphore and the findings buffer.
func (r *Resolver) Audit(ctx context.Context) (*AuditReport, error) {
	findings, err := NewMmapUint64(auditFindingsCaps)
	if err != nil {
		return nil, err
	}
	defer findings.Destroy()

	var (
		sem        = semaphore.NewWeighted(auditMaxGoroutines)
		wg         sync.WaitGroup
		mu         sync.Mutex
		swept      uint64
		mismatches uint64
		pageShift  = utils.Log2(r.pageSize)
	)

	type groupPages struct {
		perms Permissions
		pages *roaring64.Bitmap
	}
	results := make([]groupPages, 0, len(r.groups))

	for p, cover := range r.groups {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(perms Permissions, cover []addrset.AddressSet) {
			defer wg.Done()
			defer sem.Release(1)

			pages := roaring64.New()
			want := perms & permQueryable
			for _, s := range cover {
				if ctx.Err() != nil {
					return
				}
				r.sweepSet(s, want, pageShift, pages, findings, &swept, &mismatches)
			}

			mu.Lock()
			results = append(results, groupPages{perms: perms, pages: pages})
			mu.Unlock()
		}(p, cover)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &AuditReport{
		PagesSwept:    atomic.LoadUint64(&swept),
		MismatchCount: atomic.LoadUint64(&mismatches),
		Mismatches:    slices.Clone(findings.Data()),
	}

	for i := range results {
		for j := i + 1; j < len(results); j++ {
			if n := roaring64.And(results[i].pages, results[j].pages).GetCardinality(); n > 0 {
				report.Overlaps = append(report.Overlaps, Overlap{
					A:     results[i].perms,
					B:     results[j].perms,
					Pages: n,
				})
			}
		}
	}
	return report, nil
}

// sweepSet walks every page of one aligned set. The set's mask may have
// holes above the page bits, so member pages are enumerated as submasks
// of the high mask bits, ascending.
func (r *Resolver) sweepSet(s addrset.AddressSet, want Permissions, pageShift uint,
	pages *roaring64.Bitmap, findings *MmapUint64, swept, mismatches *uint64) {

	high := s.Mask &^ (r.pageSize - 1)
	for m := uint64(0); ; m = (m - high) & high {
		page := s.Base | m
		got, ok := r.Lookup(page)
		if !ok || got != want {
			atomic.AddUint64(mismatches, 1)
			_ = findings.Put(page)
		}
		atomic.AddUint64(swept, 1)
		pages.Add(page >> pageShift)
		if m == high {
			return
		}
	}
}
