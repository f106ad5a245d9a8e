// Package main implements the safemem demonstration CLI.
//
// It replays the historical memory-safety bugs (an out-of-bounds array read,
// a use-after-free, a released buffer read through a new owner) against the
// safe primitives and reports whether each hazardous step was refused with a
// named error.
//
// Usage:
//
//	safemem spatial           # Out-of-bounds reads on a bounded sequence
//	safemem temporal          # Access to a released cell
//	safemem -json all         # Every scenario, as a protojson report
//	safemem -metrics all      # Every scenario, then tracker metrics
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/pavanmanishd/safemem"
	"github.com/pavanmanishd/safemem/internal/demo"
)

const version = "0.1.0"

type options struct {
	json    bool
	metrics bool
	quiet   bool
	limit   int
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("safemem: ")

	var opts options
	fs := flag.NewFlagSet("safemem", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.json, "json", false, "print a protojson report")
	fs.BoolVar(&opts.metrics, "metrics", false, "print tracker metrics in Prometheus text format")
	fs.BoolVar(&opts.quiet, "q", false, "list failing steps only")
	fs.IntVar(&opts.limit, "limit", 0, "tracker byte limit, 0 for none")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage()
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		printUsage()
		os.Exit(2)
	}

	command := fs.Arg(0)
	switch command {
	case "all":
		os.Exit(run(opts, demo.Scenarios()))
	case "version":
		fmt.Printf("safemem version %s\n", version)
	case "help":
		printUsage()
	default:
		sc, ok := demo.Lookup(command)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
			printUsage()
			os.Exit(2)
		}
		os.Exit(run(opts, []demo.Scenario{sc}))
	}
}

// run executes scenarios against one tracker and returns the exit status.
func run(opts options, scenarios []demo.Scenario) int {
	tracker := safemem.NewTracker(nil, opts.limit)

	results := make([]demo.Result, 0, len(scenarios))
	failed := 0
	for _, sc := range scenarios {
		res := sc.Run(tracker)
		if !res.Passed() {
			failed++
		}
		results = append(results, res)
	}

	if opts.json {
		data, err := demo.MarshalReport(results)
		if err != nil {
			log.Printf("report failed: %v", err)
			return 1
		}
		fmt.Println(string(data))
	} else {
		for _, res := range results {
			demo.WriteText(os.Stdout, res, opts.quiet)
		}
	}

	if opts.metrics {
		if err := writeMetrics(os.Stdout, tracker); err != nil {
			log.Printf("metrics failed: %v", err)
			return 1
		}
	}

	if failed > 0 {
		log.Printf("%d of %d scenarios failed", failed, len(scenarios))
		return 1
	}
	return 0
}

func writeMetrics(w io.Writer, tracker *safemem.Tracker) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(safemem.NewCollector("safemem", tracker)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func printUsage() {
	fmt.Print(`safemem - memory-safety demonstration harness

USAGE:
    safemem [flags] <command>

COMMANDS:
    spatial    Out-of-bounds reads on a bounded sequence
    temporal   Access to a cell after release
    reuse      Reading released storage through a new owner
    all        Run every scenario
    version    Show version information
    help       Show this help message

FLAGS:
    -json      Print a protojson report instead of text
    -metrics   Print tracker metrics in Prometheus text format
    -q         List failing steps only
    -limit N   Cap the tracker at N bytes

EXIT STATUS:
    0 when every scenario passed, 1 when any failed, 2 on usage errors.
`)
}
