package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/idlereport/internal/models"
)

// Default coordinator settings
const (
	DefaultConcurrency  = 4
	DefaultProbeTimeout = 60 * time.Second
)

// Options configures a Coordinator
type Options struct {
	// Concurrency bounds how many probes run at once
	Concurrency int
	// ProbeTimeout bounds each probe call; zero disables the bound
	ProbeTimeout time.Duration
	// Clock supplies the scan instant; defaults to time.Now
	Clock func() time.Time
}

// Coordinator runs every registered probe and merges classified findings
type Coordinator struct {
	registry     *Registry
	concurrency  int
	probeTimeout time.Duration
	clock        func() time.Time
}

// New creates a Coordinator over registry
func New(registry *Registry, opts Options) *Coordinator {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Coordinator{
		registry:     registry,
		concurrency:  opts.Concurrency,
		probeTimeout: opts.ProbeTimeout,
		clock:        opts.Clock,
	}
}

// Result is the outcome of one scan
type Result struct {
	Report   models.Report
	Failures []models.ProbeFailure
	Stats    []models.KindStats
	Duration time.Duration
}

// Err joins one ProbeError per failed kind, or returns nil
func (r Result) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, &ProbeError{Kind: f.Kind, Err: f.Err})
	}
	return errors.Join(errs...)
}

// outcome is what one task leaves in its kind's slot
type outcome struct {
	index    int
	findings []models.Finding
	scanned  int
	duration time.Duration
	err      error
}

// Run scans every registered kind and returns the merged report.
// Probe failures and timeouts are recorded per kind and never abort the scan.
// If ctx ends first, the report holds whatever kinds completed and the rest
// are recorded as failures.
func (c *Coordinator) Run(ctx context.Context, thresholds models.Thresholds) Result {
	logger := zerolog.Ctx(ctx)
	regs := c.registry.Registrations()
	now := c.clock().UTC()
	started := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Each index is sent exactly once, so workers never block on results
	jobs := make(chan int)
	results := make(chan outcome, len(regs))

	workers := min(c.concurrency, len(regs))
	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				results <- c.runTask(runCtx, i, regs[i], thresholds, now)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range regs {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	slots := make([]*outcome, len(regs))
	received := 0

collect:
	for received < len(regs) {
		select {
		case o := <-results:
			slots[o.index] = &o
			received++
		case <-ctx.Done():
			break collect
		}
	}

	// Keep anything that finished while cancellation was observed
drain:
	for received < len(regs) {
		select {
		case o := <-results:
			slots[o.index] = &o
			received++
		default:
			break drain
		}
	}

	result := Result{
		Report: models.Report{
			GeneratedAt: now,
			Findings:    []models.Finding{},
		},
		Stats: make([]models.KindStats, 0, len(regs)),
	}

	// Merge by registration index, not completion order
	for i, reg := range regs {
		stat := models.KindStats{Kind: reg.Kind}
		o := slots[i]

		if o == nil {
			stat.Err = fmt.Errorf("scan did not finish: %w", ctx.Err())
		} else {
			stat.Scanned = o.scanned
			stat.Duration = o.duration
			stat.Err = o.err
		}

		if stat.Err != nil {
			logger.Warn().Err(stat.Err).Str("kind", string(reg.Kind)).Msg("probe failed, kind skipped")
			result.Failures = append(result.Failures, models.ProbeFailure{Kind: reg.Kind, Err: stat.Err})
			result.Stats = append(result.Stats, stat)
			continue
		}

		stat.Found = len(o.findings)
		result.Report.Findings = append(result.Report.Findings, o.findings...)
		result.Stats = append(result.Stats, stat)

		logger.Debug().
			Str("kind", string(reg.Kind)).
			Int("scanned", stat.Scanned).
			Int("found", stat.Found).
			Dur("duration", stat.Duration).
			Msg("kind scanned")
	}

	result.Duration = time.Since(started)
	return result
}

// runTask probes one kind and classifies its descriptors
func (c *Coordinator) runTask(ctx context.Context, index int, reg Registration, thresholds models.Thresholds, now time.Time) (o outcome) {
	o.index = index
	began := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.findings = nil
			o.err = fmt.Errorf("probe panicked: %v", r)
		}
		o.duration = time.Since(began)
	}()

	if err := ctx.Err(); err != nil {
		o.err = err
		return o
	}

	probeCtx := ctx
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}

	descriptors, err := reg.Probe.Scan(probeCtx)
	if err != nil {
		o.err = err
		return o
	}
	// Scan may return a partial list after swallowing its deadline
	if err := probeCtx.Err(); err != nil {
		o.err = fmt.Errorf("scan did not finish: %w", err)
		return o
	}

	o.scanned = len(descriptors)
	for _, d := range descriptors {
		if f, ok := reg.Classify(d, thresholds, now); ok {
			o.findings = append(o.findings, f)
		}
	}

	return o
}
