package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/younsl/idlereport/internal/models"
)

// LogGroupProbe lists CloudWatch Logs log groups with their stored bytes
type LogGroupProbe struct {
	client CloudWatchLogsAPI
	region string
}

// NewLogGroupProbe creates a new LogGroupProbe
func NewLogGroupProbe(client CloudWatchLogsAPI, region string) *LogGroupProbe {
	return &LogGroupProbe{client: client, region: region}
}

// Kind returns the resource kind this probe enumerates
func (p *LogGroupProbe) Kind() models.ResourceKind {
	return models.KindLogGroup
}

// Scan returns every log group in the region
func (p *LogGroupProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	descriptors := []models.ResourceDescriptor{}

	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(p.client, &cloudwatchlogs.DescribeLogGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error fetching log groups: %w", err)
		}

		for _, lg := range page.LogGroups {
			descriptors = append(descriptors, models.ResourceDescriptor{
				ID:       aws.ToString(lg.LogGroupName),
				Location: p.region,
				Attributes: models.Attributes{
					StoredBytes: aws.ToInt64(lg.StoredBytes),
				},
			})
		}
	}

	return descriptors, nil
}
