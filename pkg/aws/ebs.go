package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/utils"
)

// EBSVolumeProbe lists unattached EBS volumes
type EBSVolumeProbe struct {
	client EC2API
}

// NewEBSVolumeProbe creates a new EBSVolumeProbe
func NewEBSVolumeProbe(client EC2API) *EBSVolumeProbe {
	return &EBSVolumeProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *EBSVolumeProbe) Kind() models.ResourceKind {
	return models.KindBlockVolume
}

// Scan returns all EBS volumes in Available state
func (p *EBSVolumeProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	// Filter only volumes in 'available' state (unattached volumes)
	input := &ec2.DescribeVolumesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("status"),
				Values: []string{"available"},
			},
		},
	}

	descriptors := []models.ResourceDescriptor{}

	paginator := ec2.NewDescribeVolumesPaginator(p.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EBS volumes: %w", err)
		}

		for _, volume := range page.Volumes {
			descriptors = append(descriptors, models.ResourceDescriptor{
				ID:       aws.ToString(volume.VolumeId),
				Location: aws.ToString(volume.AvailabilityZone),
				Attributes: models.Attributes{
					CreationTime: utils.TimePtr(volume.CreateTime),
				},
			})
		}
	}

	return descriptors, nil
}
