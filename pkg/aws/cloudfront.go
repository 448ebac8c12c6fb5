package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/younsl/idlereport/internal/models"
)

// CloudFrontProbe lists CloudFront distributions
type CloudFrontProbe struct {
	client CloudFrontAPI
}

// NewCloudFrontProbe creates a new CloudFrontProbe
func NewCloudFrontProbe(client CloudFrontAPI) *CloudFrontProbe {
	return &CloudFrontProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *CloudFrontProbe) Kind() models.ResourceKind {
	return models.KindDistribution
}

// Scan returns every distribution with its enabled flag.
// CloudFront is global, so descriptors carry no location.
func (p *CloudFrontProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	descriptors := []models.ResourceDescriptor{}
	var marker *string

	for {
		result, err := p.client.ListDistributions(ctx, &cloudfront.ListDistributionsInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("error listing CloudFront distributions: %w", err)
		}

		list := result.DistributionList
		if list == nil {
			break
		}

		for _, dist := range list.Items {
			descriptors = append(descriptors, models.ResourceDescriptor{
				ID: aws.ToString(dist.Id),
				Attributes: models.Attributes{
					Enabled: aws.ToBool(dist.Enabled),
				},
			})
		}

		if !aws.ToBool(list.IsTruncated) || aws.ToString(list.NextMarker) == "" {
			break
		}
		marker = list.NextMarker
	}

	return descriptors, nil
}
