package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"pma"
)

var (
	colorLabel     = color.New(color.FgYellow)
	colorHighlight = color.New(color.FgGreen)
)

func displayLookup(resolver *pma.Resolver, addr uint64) {
	perms, ok := resolver.Lookup(addr)
	if !ok {
		fmt.Printf("%08X > %s\n", addr, color.RedString("inhomogeneous"))
		return
	}
	fmt.Printf("%08X > %s\n", addr, colorHighlight.Sprint(perms))
}

func displayReport(resolver *pma.Resolver, table *regionTable) {
	fmt.Printf("%s xLen=%d cacheBlock=%d pageSize=%d regions=%d\n",
		colorLabel.Sprint("MAP"), table.xLen, table.cacheBlock, table.pageSize, len(table.regions))

	homogeneous := pma.IsPageMapHomogeneous(table.regions, table.pageSize)
	fmt.Printf("%s %v\n", colorLabel.Sprint("PAGE-HOMOGENEOUS"), homogeneous)

	groups := resolver.Groups()
	perms := make([]pma.Permissions, 0, len(groups))
	for p := range groups {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })

	for _, p := range perms {
		fmt.Printf("%s\n", colorHighlight.Sprint(p))
		for _, s := range groups[p] {
			fmt.Printf("  %s\n", s)
		}
	}

	fmt.Println(colorLabel.Sprint("DECISION"))
	for _, t := range resolver.Summary() {
		switch {
		case t.Constant:
			fmt.Printf("  %-10s = %v\n", t.Name, t.Value)
		case t.Negated:
			fmt.Printf("  %-10s mask=%X comparators=%d (negated)\n", t.Name, t.Mask, len(t.Cover))
		default:
			fmt.Printf("  %-10s mask=%X comparators=%d\n", t.Name, t.Mask, len(t.Cover))
		}
	}
}

func displayAudit(report *pma.AuditReport) {
	fmt.Printf("%s pages=%d mismatches=%d overlaps=%d\n",
		colorLabel.Sprint("AUDIT"), report.PagesSwept, report.MismatchCount, len(report.Overlaps))

	for i, addr := range report.Mismatches {
		if i == 10 {
			fmt.Printf("  ... %d more\n", report.MismatchCount-10)
			break
		}
		fmt.Printf("  mismatch at %08X\n", addr)
	}
	for _, o := range report.Overlaps {
		fmt.Printf("  overlap %s / %s (%d pages)\n", o.A, o.B, o.Pages)
	}

	if report.Clean() {
		color.Green("OK")
	} else {
		color.Red("BROKEN MAP")
	}
}
