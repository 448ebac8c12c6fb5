package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/younsl/idlereport/internal/models"
)

// AWS CloudWatch metric names
const (
	metricUnusedResources = "UnusedResources"
	metricProbeFailures   = "ProbeFailures"
	metricScanDuration    = "ScanDurationSeconds"

	dimensionKind = "Kind"

	// PutMetricData accepts up to 1000 datums per call
	maxDatumsPerCall = 1000
)

// CloudWatchMetrics publishes scan statistics as custom metrics
type CloudWatchMetrics struct {
	client CloudWatchAPI
}

// NewCloudWatchMetrics creates a new CloudWatchMetrics
func NewCloudWatchMetrics(client CloudWatchAPI) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client}
}

// Publish writes one UnusedResources datum per successful kind, a ProbeFailures
// datum per failed kind, and the total scan duration
func (m *CloudWatchMetrics) Publish(ctx context.Context, namespace string, stats []models.KindStats, duration time.Duration, at time.Time) error {
	datums := buildDatums(stats, duration, at)

	for start := 0; start < len(datums); start += maxDatumsPerCall {
		end := min(start+maxDatumsPerCall, len(datums))

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(namespace),
			MetricData: datums[start:end],
		})
		if err != nil {
			return fmt.Errorf("error putting metric data to %s: %w", namespace, err)
		}
	}

	return nil
}

func buildDatums(stats []models.KindStats, duration time.Duration, at time.Time) []cwtypes.MetricDatum {
	datums := make([]cwtypes.MetricDatum, 0, len(stats)+1)

	for _, s := range stats {
		dims := []cwtypes.Dimension{
			{Name: aws.String(dimensionKind), Value: aws.String(string(s.Kind))},
		}

		if s.Err != nil {
			datums = append(datums, cwtypes.MetricDatum{
				MetricName: aws.String(metricProbeFailures),
				Dimensions: dims,
				Timestamp:  aws.Time(at),
				Unit:       cwtypes.StandardUnitCount,
				Value:      aws.Float64(1),
			})
			continue
		}

		datums = append(datums, cwtypes.MetricDatum{
			MetricName: aws.String(metricUnusedResources),
			Dimensions: dims,
			Timestamp:  aws.Time(at),
			Unit:       cwtypes.StandardUnitCount,
			Value:      aws.Float64(float64(s.Found)),
		})
	}

	datums = append(datums, cwtypes.MetricDatum{
		MetricName: aws.String(metricScanDuration),
		Timestamp:  aws.Time(at),
		Unit:       cwtypes.StandardUnitSeconds,
		Value:      aws.Float64(duration.Seconds()),
	})

	return datums
}
