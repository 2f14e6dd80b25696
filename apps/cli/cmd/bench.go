package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kuiper-http/kuiper/packages/bench"
)

var (
	benchRequestsFlag int
	benchRateFlag     float64
)

var benchCmd = &cobra.Command{
	Use:   "bench <request.kuiper>",
	Short: "Send one request repeatedly and report latencies",
	Long: `Resolve a request once, then send it repeatedly and report latency
percentiles. This repeats a single request; it runs no test suites.

Examples:
  kuiper bench api/users/get_user.kuiper -n 100
  kuiper bench api/users/get_user.kuiper -n 1000 -r 50`,
	Args: cobra.ExactArgs(1),
	RunE: benchCommand,
}

func init() {
	benchCmd.Flags().IntVarP(&benchRequestsFlag, "requests", "n", 10, "Total number of sends")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 0, "Target sends per second (0 = unthrottled)")
	benchCmd.Flags().StringVarP(&envFileFlag, "env-file", "e", "", "Path to .env file for {{env:NAME}} substitution")
	benchCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Per-request timeout (e.g., 30s)")
	benchCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	req, cfg, err := resolveRequest(args[0])
	if err != nil {
		return err
	}

	client, err := clientFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt, stopping...")
		cancel()
	}()

	runner := bench.NewRunner(client, bench.Config{
		Requests: benchRequestsFlag,
		Rate:     benchRateFlag,
	})

	summary, err := runner.Run(ctx, req)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n\n", req.Method, req.URI)
	fmt.Fprintf(out, "Requests: %d (%d errors) in %s\n", summary.Total, summary.Errors, summary.Duration.Round(time.Millisecond))

	codes := make([]int, 0, len(summary.StatusCodes))
	for code := range summary.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(out, "  %d: %d\n", code, summary.StatusCodes[code])
	}

	if summary.Total > summary.Errors {
		fmt.Fprintf(out, "\nLatency:\n")
		fmt.Fprintf(out, "  min  %s\n", summary.Min)
		fmt.Fprintf(out, "  p50  %s\n", summary.P50)
		fmt.Fprintf(out, "  p95  %s\n", summary.P95)
		fmt.Fprintf(out, "  p99  %s\n", summary.P99)
		fmt.Fprintf(out, "  max  %s\n", summary.Max)
	}

	return nil
}
