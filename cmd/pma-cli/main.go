package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"pma"
)

var (
	// Basic flags (Global switches)
	tablePath  string
	showReport bool
	runAudit   bool
	queryAddr  string
)

func init() {
	pflag.StringVarP(&tablePath, "table", "t", "", "memory region table (TOML)")
	pflag.BoolVarP(&showReport, "report", "r", false, "print the compiled decision report")
	pflag.BoolVar(&runAudit, "audit", false, "sweep every page of the compiled map and verify it")
	pflag.StringVarP(&queryAddr, "query", "q", "", "resolve a single hex address and exit")

	// Execute the parsing
	pflag.Parse()
}

func main() {
	if tablePath == "" {
		pflag.Usage()
		os.Exit(1)
	}

	table, err := loadTable(tablePath)
	checkError(err)

	resolver, err := pma.BuildResolver(table.regions, table.xLen, table.cacheBlock, table.pageSize)
	checkError(err)

	switch {
	case showReport:
		displayReport(resolver, table)
	case runAudit:
		report, err := resolver.Audit(context.Background())
		checkError(err)
		displayAudit(report)
	case queryAddr != "":
		addr, err := parseAddress(queryAddr)
		checkError(err)
		displayLookup(resolver, addr)
	default:
		runConsole(resolver)
	}
}

func checkError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
