package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younsl/idlereport/internal/config"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/classifier"
	"github.com/younsl/idlereport/pkg/formatter"
	"github.com/younsl/idlereport/pkg/scanner"
)

var scanTime = time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

// ══════════════════════════════════════════════════════════════════════════════
// Fakes
// ══════════════════════════════════════════════════════════════════════════════

type fakeProbe struct {
	kind        models.ResourceKind
	descriptors []models.ResourceDescriptor
	err         error
	// waitCtx blocks Scan until ctx ends
	waitCtx bool
	// deadlines receives the ctx deadline Scan saw, when set
	deadlines chan time.Time
}

func (p *fakeProbe) Kind() models.ResourceKind { return p.kind }

func (p *fakeProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	if p.deadlines != nil {
		d, _ := ctx.Deadline()
		p.deadlines <- d
	}
	if p.waitCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.descriptors, p.err
}

type putCall struct {
	bucket, key, contentType string
	body                     []byte
}

type fakeStorage struct {
	calls []putCall
	err   error
}

func (s *fakeStorage) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.calls = append(s.calls, putCall{bucket: bucket, key: key, body: body, contentType: contentType})
	return s.err
}

func (s *fakeStorage) Location(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

type publishCall struct {
	topic, subject, body string
}

type fakeNotifier struct {
	calls []publishCall
	err   error
}

func (n *fakeNotifier) Publish(ctx context.Context, topicARN, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.calls = append(n.calls, publishCall{topic: topicARN, subject: subject, body: body})
	return n.err
}

type fakeMetrics struct {
	stats []models.KindStats
	err   error
	calls int
}

func (m *fakeMetrics) Publish(ctx context.Context, _ string, stats []models.KindStats, _ time.Duration, _ time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.calls++
	m.stats = stats
	return m.err
}

func newCoordinator(t *testing.T, probes ...*fakeProbe) *scanner.Coordinator {
	t.Helper()

	registry := scanner.NewRegistry()
	for _, p := range probes {
		policy, ok := classifier.For(p.kind)
		require.True(t, ok)
		require.NoError(t, registry.Register(scanner.Registration{Kind: p.kind, Probe: p, Classify: policy}))
	}

	return scanner.New(registry, scanner.Options{
		Concurrency: 2,
		Clock:       func() time.Time { return scanTime },
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Thresholds:       models.DefaultThresholds(),
		BucketName:       "reports",
		TopicARN:         "arn:aws:sns:us-east-1:123456789012:alerts",
		Region:           "us-east-1",
		Concurrency:      2,
		ProbeTimeout:     time.Second,
		MetricsNamespace: "IdleReport",
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

func stoppedInstance(id string, idleDays int) models.ResourceDescriptor {
	ref := scanTime.Add(-time.Duration(idleDays) * 24 * time.Hour)
	return models.ResourceDescriptor{
		ID:         id,
		Location:   "us-east-1a",
		Attributes: models.Attributes{ReferenceTime: &ref},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// Scenarios
// ══════════════════════════════════════════════════════════════════════════════

func TestRun_NoResources(t *testing.T) {
	storage := &fakeStorage{}
	notifier := &fakeNotifier{}

	a := New(testConfig(),
		newCoordinator(t,
			&fakeProbe{kind: models.KindComputeInstance},
			&fakeProbe{kind: models.KindObjectStoreBucket},
		),
		WithStorage(storage),
		WithNotifier(notifier),
	)

	out, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, out.Result.Report.Findings)
	assert.Equal(t, formatter.NoFindingsSummary, out.Rendered.Summary)

	require.Len(t, storage.calls, 1)
	assert.Equal(t, "reports", storage.calls[0].bucket)
	assert.Equal(t, "unused-resources-report-2025-03-11.csv", storage.calls[0].key)
	assert.Equal(t, "text/csv", storage.calls[0].contentType)
	assert.Equal(t, "Resource Type,ID,Region/Zone,Unused Days\n", string(storage.calls[0].body))

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, formatter.AlertSubject, notifier.calls[0].subject)
	assert.Contains(t, notifier.calls[0].body, "Report Saved To S3: s3://reports/unused-resources-report-2025-03-11.csv")
	assert.Contains(t, notifier.calls[0].body, formatter.NoFindingsSummary)
	assert.Contains(t, notifier.calls[0].body, "Total Unused Resources: 0")
	assert.NotContains(t, notifier.calls[0].body, formatter.IdleDaysNote)
	assert.True(t, out.Notified)
}

func TestRun_OneIdleInstance(t *testing.T) {
	notifier := &fakeNotifier{}

	a := New(testConfig(),
		newCoordinator(t, &fakeProbe{
			kind:        models.KindComputeInstance,
			descriptors: []models.ResourceDescriptor{stoppedInstance("i-idle", 10), stoppedInstance("i-recent", 2)},
		}),
		WithStorage(&fakeStorage{}),
		WithNotifier(notifier),
	)

	out, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Finding{{
		Kind:     models.KindComputeInstance,
		ID:       "i-idle",
		Location: "us-east-1a",
		Metric:   "10",
	}}, out.Result.Report.Findings)
	assert.Contains(t, notifier.calls[0].body, "EC2 Instance: i-idle (Region: us-east-1a)")
	assert.Contains(t, notifier.calls[0].body, "Total Unused Resources: 1")
	assert.Contains(t, notifier.calls[0].body, formatter.IdleDaysNote)
}

func TestRun_StorageUnset(t *testing.T) {
	cfg := testConfig()
	cfg.BucketName = ""
	storage := &fakeStorage{}
	notifier := &fakeNotifier{}

	a := New(cfg, newCoordinator(t, &fakeProbe{kind: models.KindFunction}), WithStorage(storage), WithNotifier(notifier))

	out, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, storage.calls)
	assert.Empty(t, out.StorageLocation)
	require.Len(t, notifier.calls, 1)
	assert.Contains(t, notifier.calls[0].body, "No S3 report generated.\n")
	assert.NotContains(t, notifier.calls[0].body, "Report Saved To S3")
}

func TestRun_StorageFailure(t *testing.T) {
	storage := &fakeStorage{err: errors.New("AccessDenied")}
	notifier := &fakeNotifier{}

	a := New(testConfig(), newCoordinator(t, &fakeProbe{kind: models.KindFunction}), WithStorage(storage), WithNotifier(notifier))

	out, err := a.Run(context.Background())
	require.NoError(t, err)

	var storageErr *StorageError
	require.ErrorAs(t, out.StorageErr, &storageErr)
	assert.Equal(t, "reports", storageErr.Bucket)

	require.Len(t, notifier.calls, 1)
	assert.Contains(t, notifier.calls[0].body, "No S3 report generated (upload failed: AccessDenied).")
}

func TestRun_NotificationFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("AuthorizationError")}

	a := New(testConfig(), newCoordinator(t, &fakeProbe{kind: models.KindFunction}), WithStorage(&fakeStorage{}), WithNotifier(notifier))

	out, err := a.Run(context.Background())
	require.NoError(t, err)

	var notifyErr *NotificationError
	require.ErrorAs(t, out.NotificationErr, &notifyErr)
	assert.False(t, out.Notified)
}

func TestRun_NotificationUnset(t *testing.T) {
	cfg := testConfig()
	cfg.TopicARN = ""
	notifier := &fakeNotifier{}

	a := New(cfg, newCoordinator(t, &fakeProbe{kind: models.KindFunction}), WithNotifier(notifier))

	out, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, notifier.calls)
	assert.NotEmpty(t, out.Alert)
}

func TestRun_ProbeFailureIsReported(t *testing.T) {
	notifier := &fakeNotifier{}
	metrics := &fakeMetrics{}

	a := New(testConfig(),
		newCoordinator(t,
			&fakeProbe{kind: models.KindFloatingIP, descriptors: []models.ResourceDescriptor{{ID: "3.3.3.3", Location: "us-east-1"}}},
			&fakeProbe{kind: models.KindManagedDatabase, err: errors.New("throttled")},
			&fakeProbe{kind: models.KindKeyValueTable, descriptors: []models.ResourceDescriptor{{ID: "sessions"}}},
		),
		WithStorage(&fakeStorage{}),
		WithNotifier(notifier),
		WithMetrics(metrics),
	)

	out, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, out.Result.Report.Total())
	require.Len(t, out.Result.Failures, 1)

	body := notifier.calls[0].body
	assert.Contains(t, body, "Scan failures:\nRDS Instance: throttled")
	assert.Contains(t, body, "Total Unused Resources: 2")
	assert.Less(t, strings.Index(body, "Elastic IP: 3.3.3.3"), strings.Index(body, "DynamoDB Table: sessions"))

	assert.Equal(t, 1, metrics.calls)
	assert.Len(t, metrics.stats, 3)
}

func TestRun_MetricsFailureIsNotFatal(t *testing.T) {
	a := New(testConfig(), newCoordinator(t, &fakeProbe{kind: models.KindFunction}), WithMetrics(&fakeMetrics{err: errors.New("Throttling")}))

	out, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Error(t, out.MetricsErr)
}

func TestRun_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsNamespace = ""
	metrics := &fakeMetrics{}

	_, err := New(cfg, newCoordinator(t, &fakeProbe{kind: models.KindFunction}), WithMetrics(metrics)).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, metrics.calls)
}

// ══════════════════════════════════════════════════════════════════════════════
// Invocation responses
// ══════════════════════════════════════════════════════════════════════════════

func TestRun_DeliversAfterInvocationDeadline(t *testing.T) {
	storage := &fakeStorage{}
	notifier := &fakeNotifier{}
	metrics := &fakeMetrics{}

	a := New(testConfig(),
		newCoordinator(t,
			&fakeProbe{kind: models.KindComputeInstance, descriptors: []models.ResourceDescriptor{stoppedInstance("i-idle", 10)}},
			&fakeProbe{kind: models.KindObjectStoreBucket, waitCtx: true},
		),
		WithStorage(storage),
		WithNotifier(notifier),
		WithMetrics(metrics),
		WithDelivery(0, time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out, err := a.Run(ctx)
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	require.Len(t, out.Result.Failures, 1)
	assert.ErrorIs(t, out.Result.Failures[0].Err, context.DeadlineExceeded)

	require.Len(t, storage.calls, 1)
	assert.NoError(t, out.StorageErr)
	assert.NotEmpty(t, out.StorageLocation)

	require.Len(t, notifier.calls, 1)
	assert.True(t, out.Notified)
	assert.NoError(t, out.NotificationErr)
	assert.Contains(t, notifier.calls[0].body, "i-idle")
	assert.Contains(t, notifier.calls[0].body, "Scan failures:")

	assert.Equal(t, 1, metrics.calls)
	assert.NoError(t, out.MetricsErr)
}

func TestRun_ScanKeepsDeliveryReserve(t *testing.T) {
	slow := &fakeProbe{kind: models.KindObjectStoreBucket, waitCtx: true, deadlines: make(chan time.Time, 1)}
	notifier := &fakeNotifier{}

	a := New(testConfig(),
		newCoordinator(t, slow),
		WithNotifier(notifier),
		WithDelivery(1950*time.Millisecond, time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	parent, _ := ctx.Deadline()

	out, err := a.Run(ctx)
	require.NoError(t, err)

	assert.True(t, (<-slow.deadlines).Equal(parent.Add(-1950*time.Millisecond)))
	assert.NoError(t, ctx.Err(), "scan should stop before the invocation deadline")
	require.Len(t, out.Result.Failures, 1)
	assert.ErrorIs(t, out.Result.Failures[0].Err, context.DeadlineExceeded)
	assert.True(t, out.Notified)
}

func TestRun_NoDeadlineScansWithoutReserve(t *testing.T) {
	instances := &fakeProbe{kind: models.KindComputeInstance, deadlines: make(chan time.Time, 1)}

	a := New(testConfig(), newCoordinator(t, instances))

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, (<-instances.deadlines).IsZero())
}

func TestResponses(t *testing.T) {
	assert.Equal(t, Response{StatusCode: 200, Body: `"Execution Completed"`}, Success())
	assert.Equal(t, Response{StatusCode: 500, Body: `"bad \"value\""`}, Fault(errors.New(`bad "value"`)))
}

func TestInvoke_ConfigurationFault(t *testing.T) {
	t.Setenv("EC2_UNUSED_DAYS", "seven")

	resp := Invoke(context.Background(), config.NewViper())

	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, resp.Body, "EC2_UNUSED_DAYS")
}
