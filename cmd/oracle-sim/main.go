// oracle-sim answers slack queries with a fixed value. It stands in for a
// real synthesis tool when exercising the policy gate end to end.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/veriflow/pkg/logging"
	"github.com/dd0wney/veriflow/pkg/oracle"
)

func main() {
	listenAddr := flag.String("listen", "tcp://127.0.0.1:9400", "Address to answer slack queries on")
	slack := flag.Float64("slack", 1.0, "Slack in nanoseconds to report for every request")
	source := flag.String("source", "oracle-sim", "Tool name stamped on every report")
	delay := flag.Duration("delay", 0, "Artificial synthesis delay per request")
	flag.Parse()

	logger := logging.NewDefaultLogger()

	server := oracle.NewServer(func(req oracle.Request) (oracle.Report, error) {
		if *delay > 0 {
			time.Sleep(*delay)
		}
		logger.Info("slack query",
			logging.String("artifact", req.ArtifactPath),
			logging.Float64("clock_period_ns", req.ClockPeriodNs),
			logging.Float64("reported_slack_ns", *slack))
		return oracle.Report{SlackNs: *slack, Source: *source}, nil
	})

	if err := server.Start(*listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "oracle-sim: %v\n", err)
		os.Exit(1)
	}
	logger.Info("oracle simulator listening",
		logging.String("addr", *listenAddr),
		logging.Float64("slack_ns", *slack))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	server.Stop()
}
