// Package bench repeats a single resolved request at a fixed rate and
// summarizes latency with an HDR histogram. It re-sends one
// descriptor; it never coordinates multiple requests.
package bench

import (
	"context"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/kuiper-http/kuiper/packages/core/request"
	kuiperhttp "github.com/kuiper-http/kuiper/packages/http"
)

// Config controls a bench run.
type Config struct {
	// Requests is the total number of sends.
	Requests int
	// Rate is the target sends per second. Zero means unthrottled.
	Rate float64
}

// Summary aggregates the outcome of a bench run.
type Summary struct {
	Total       int
	Errors      int
	StatusCodes map[int]int
	Duration    time.Duration
	Min         time.Duration
	Max         time.Duration
	Mean        time.Duration
	P50         time.Duration
	P95         time.Duration
	P99         time.Duration
}

// Runner sends the same request repeatedly.
type Runner struct {
	client *kuiperhttp.Client
	cfg    Config
}

func NewRunner(client *kuiperhttp.Client, cfg Config) *Runner {
	if cfg.Requests <= 0 {
		cfg.Requests = 1
	}
	return &Runner{client: client, cfg: cfg}
}

// Run performs the sends sequentially, honoring ctx cancellation
// between sends. Latencies are recorded in microseconds.
func (r *Runner) Run(ctx context.Context, req *request.Request) (*Summary, error) {
	// 1us to 60s range, 3 significant digits
	histogram := hdrhistogram.New(1, 60_000_000, 3)

	var limiter *rate.Limiter
	if r.cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.Rate), 1)
	}

	summary := &Summary{
		StatusCodes: make(map[int]int),
	}

	start := time.Now()
	for i := 0; i < r.cfg.Requests; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		} else if ctx.Err() != nil {
			break
		}

		resp, err := r.client.Do(ctx, req)
		summary.Total++
		if err != nil {
			summary.Errors++
			continue
		}
		summary.StatusCodes[resp.StatusCode]++
		_ = histogram.RecordValue(resp.Duration.Microseconds())
	}
	summary.Duration = time.Since(start)

	if histogram.TotalCount() > 0 {
		summary.Min = time.Duration(histogram.Min()) * time.Microsecond
		summary.Max = time.Duration(histogram.Max()) * time.Microsecond
		summary.Mean = time.Duration(histogram.Mean()) * time.Microsecond
		summary.P50 = time.Duration(histogram.ValueAtQuantile(50)) * time.Microsecond
		summary.P95 = time.Duration(histogram.ValueAtQuantile(95)) * time.Microsecond
		summary.P99 = time.Duration(histogram.ValueAtQuantile(99)) * time.Microsecond
	}

	return summary, ctx.Err()
}
