package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/veriflow/pkg/calibration"
	"github.com/dd0wney/veriflow/pkg/logging"
	"github.com/dd0wney/veriflow/pkg/metrics"
	"github.com/dd0wney/veriflow/pkg/oracle"
	"github.com/dd0wney/veriflow/pkg/pipeline"
	"github.com/dd0wney/veriflow/pkg/snapshot"
)

func main() {
	graphPath := flag.String("graph", "", "Path to the captured dataflow graph snapshot")
	configPath := flag.String("config", "veriflow.yaml", "Path to the project configuration file")
	artifactPath := flag.String("artifact", "", "Path to the emitted hardware description, passed to the oracle")
	oracleAddr := flag.String("oracle", "", "Synthesis oracle address (e.g. tcp://localhost:9400); empty disables the oracle")
	oracleTimeout := flag.Duration("oracle-timeout", oracle.DefaultTimeout, "Synthesis oracle round-trip timeout")
	parallel := flag.Bool("parallel", false, "Solve independent graph components concurrently")
	workers := flag.Int("workers", 0, "Worker pool size for parallel inference (0 = GOMAXPROCS)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	widest := flag.Int("widest", 0, "Print the N widest signals after analysis")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "usage: veriflow -graph <snapshot> [-config <yaml>] [-oracle <addr>]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := logging.NewDefaultLogger()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}

	cfg, err := calibration.LoadProject(*configPath)
	if err != nil {
		logger.Error("failed to load project configuration", logging.Error(err))
		os.Exit(2)
	}

	doc, err := snapshot.Read(*graphPath)
	if err != nil {
		logger.Error("failed to read graph snapshot", logging.Error(err))
		os.Exit(2)
	}
	g, err := doc.Graph()
	if err != nil {
		logger.Error("snapshot does not describe a well-formed graph", logging.Error(err))
		os.Exit(2)
	}

	var client oracle.Client
	if *oracleAddr != "" {
		client = oracle.NewNNGClient(*oracleAddr, *oracleTimeout)
	}

	runner := &pipeline.Runner{
		Logger:   logger,
		Metrics:  metrics.DefaultRegistry(),
		Oracle:   client,
		Parallel: *parallel,
		Workers:  *workers,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *oracleTimeout+5*time.Minute)
	defer cancel()

	report, err := runner.Run(ctx, g, cfg, *artifactPath)
	if err != nil {
		logger.Error("analysis failed", logging.Error(err))
		fmt.Fprintf(os.Stderr, "veriflow: %v\n", err)
		os.Exit(2)
	}

	fmt.Print(report.Summary())

	if *widest > 0 {
		fmt.Printf("widest signals:\n")
		for _, id := range report.WidestNodes(*widest) {
			fmt.Printf("  node %d: %d bit(s)\n", id, report.Widths[id])
		}
	}

	if !report.Decision.Proceed {
		os.Exit(1)
	}
}
