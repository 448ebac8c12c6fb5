// Package app runs one invocation end to end.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/younsl/idlereport/internal/config"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/formatter"
	"github.com/younsl/idlereport/pkg/scanner"
)

// Scanner produces one scan result
type Scanner interface {
	Run(ctx context.Context, thresholds models.Thresholds) scanner.Result
}

// Storage persists the report document
type Storage interface {
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error
	Location(bucket, key string) string
}

// Notifier delivers the alert text
type Notifier interface {
	Publish(ctx context.Context, topicARN, subject, body string) error
}

// MetricsSink records per-kind scan statistics
type MetricsSink interface {
	Publish(ctx context.Context, namespace string, stats []models.KindStats, duration time.Duration, at time.Time) error
}

// Delivery defaults. The reserve is cut from the invocation deadline before
// scanning, and the timeout bounds storage, notification and metrics together.
const (
	DefaultDeliveryReserve = 10 * time.Second
	DefaultDeliveryTimeout = 10 * time.Second
)

// App wires a scanner to its delivery sinks
type App struct {
	cfg             *config.Config
	scanner         Scanner
	storage         Storage
	notifier        Notifier
	metrics         MetricsSink
	deliveryReserve time.Duration
	deliveryTimeout time.Duration
}

// Option configures an App
type Option func(*App)

// WithStorage sets the storage sink
func WithStorage(s Storage) Option {
	return func(a *App) { a.storage = s }
}

// WithNotifier sets the notification sink
func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithMetrics sets the metrics sink
func WithMetrics(m MetricsSink) Option {
	return func(a *App) { a.metrics = m }
}

// WithDelivery overrides how much of the invocation deadline is kept for
// delivery and how long delivery may take
func WithDelivery(reserve, timeout time.Duration) Option {
	return func(a *App) {
		a.deliveryReserve = reserve
		a.deliveryTimeout = timeout
	}
}

// New creates an App. Sinks left unset are skipped.
func New(cfg *config.Config, s Scanner, opts ...Option) *App {
	a := &App{
		cfg:             cfg,
		scanner:         s,
		deliveryReserve: DefaultDeliveryReserve,
		deliveryTimeout: DefaultDeliveryTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Outcome is everything one invocation produced
type Outcome struct {
	Result          scanner.Result
	Rendered        formatter.Rendered
	ReportKey       string
	StorageLocation string
	StorageErr      error
	Alert           string
	Notified        bool
	NotificationErr error
	MetricsErr      error
}

// Run performs one invocation. Probe, storage, notification and metrics
// failures are recorded in the outcome; only a rendering failure is returned.
// When ctx has a deadline the scan stops deliveryReserve before it, and
// delivery runs even if ctx has already ended.
func (a *App) Run(ctx context.Context) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)

	scanCtx, cancelScan := a.scanContext(ctx)
	result := a.scanner.Run(scanCtx, a.cfg.Thresholds)
	cancelScan()

	logger.Info().
		Int("findings", result.Report.Total()).
		Int("failures", len(result.Failures)).
		Dur("duration", result.Duration).
		Msg("scan completed")

	rendered, err := formatter.Render(result.Report)
	if err != nil {
		return nil, fmt.Errorf("error rendering report: %w", err)
	}

	out := &Outcome{
		Result:    result,
		Rendered:  rendered,
		ReportKey: formatter.ReportKey(result.Report.GeneratedAt),
	}

	// A partial report is still worth delivering after cancellation
	deliveryCtx, cancelDelivery := context.WithTimeout(context.WithoutCancel(ctx), a.deliveryTimeout)
	defer cancelDelivery()

	a.store(deliveryCtx, out)
	a.notify(deliveryCtx, out)
	a.publishMetrics(deliveryCtx, out)

	return out, nil
}

// scanContext derives the scan context, keeping deliveryReserve of any deadline
func (a *App) scanContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || a.deliveryReserve <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline.Add(-a.deliveryReserve))
}

func (a *App) store(ctx context.Context, out *Outcome) {
	logger := zerolog.Ctx(ctx)

	if !a.cfg.StorageEnabled() || a.storage == nil {
		logger.Info().Msg("S3_BUCKET_NAME is not set, skipping report upload")
		return
	}

	err := a.storage.Put(ctx, a.cfg.BucketName, out.ReportKey, out.Rendered.Document, formatter.CSVContentType)
	if err != nil {
		out.StorageErr = &StorageError{Bucket: a.cfg.BucketName, Key: out.ReportKey, Err: err}
		logger.Error().Err(out.StorageErr).Msg("report upload failed")
		return
	}

	out.StorageLocation = a.storage.Location(a.cfg.BucketName, out.ReportKey)
	logger.Info().
		Str("location", out.StorageLocation).
		Str("size", humanize.Bytes(uint64(len(out.Rendered.Document)))).
		Msg("report saved")
}

func (a *App) notify(ctx context.Context, out *Outcome) {
	logger := zerolog.Ctx(ctx)

	out.Alert = formatter.ComposeAlert(formatter.Alert{
		StorageLocation: out.StorageLocation,
		StorageErr:      errors.Unwrap(out.StorageErr),
		Summary:         out.Rendered.Summary,
		Total:           out.Rendered.Total,
		Failures:        out.Result.Failures,
		IdleDaysNote:    hasKind(out.Result.Report, models.KindComputeInstance),
	})

	if !a.cfg.NotificationEnabled() || a.notifier == nil {
		logger.Info().Msg("SNS_TOPIC_ARN is not set, skipping alert")
		return
	}

	if err := a.notifier.Publish(ctx, a.cfg.TopicARN, formatter.AlertSubject, out.Alert); err != nil {
		out.NotificationErr = &NotificationError{TopicARN: a.cfg.TopicARN, Err: err}
		logger.Error().Err(out.NotificationErr).Msg("alert delivery failed")
		return
	}

	out.Notified = true
	logger.Info().Str("topic", a.cfg.TopicARN).Msg("alert sent")
}

func (a *App) publishMetrics(ctx context.Context, out *Outcome) {
	if !a.cfg.MetricsEnabled() || a.metrics == nil {
		return
	}

	err := a.metrics.Publish(ctx, a.cfg.MetricsNamespace, out.Result.Stats, out.Result.Duration, out.Result.Report.GeneratedAt)
	if err != nil {
		out.MetricsErr = err
		zerolog.Ctx(ctx).Error().Err(err).Msg("metrics publish failed")
	}
}

func hasKind(report models.Report, kind models.ResourceKind) bool {
	for _, f := range report.Findings {
		if f.Kind == kind {
			return true
		}
	}
	return false
}
