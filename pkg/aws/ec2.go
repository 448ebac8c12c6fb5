package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/utils"
)

// EC2InstanceProbe lists stopped EC2 instances
type EC2InstanceProbe struct {
	client EC2API
}

// NewEC2InstanceProbe creates a new EC2InstanceProbe
func NewEC2InstanceProbe(client EC2API) *EC2InstanceProbe {
	return &EC2InstanceProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *EC2InstanceProbe) Kind() models.ResourceKind {
	return models.KindComputeInstance
}

// Scan returns all EC2 instances in Stopped state
func (p *EC2InstanceProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	// Filter only stopped instances
	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"stopped"},
			},
		},
	}

	descriptors := []models.ResourceDescriptor{}

	paginator := ec2.NewDescribeInstancesPaginator(p.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				var zone string
				if instance.Placement != nil {
					zone = aws.ToString(instance.Placement.AvailabilityZone)
				}

				descriptors = append(descriptors, models.ResourceDescriptor{
					ID:       aws.ToString(instance.InstanceId),
					Location: zone,
					Attributes: models.Attributes{
						ReferenceTime: instanceReferenceTime(instance),
					},
				})
			}
		}
	}

	return descriptors, nil
}

// instanceReferenceTime returns when the instance stopped, parsed from the
// state transition reason, and falls back to the launch time
func instanceReferenceTime(instance types.Instance) *time.Time {
	if stopped := utils.ParseStateTransitionTime(aws.ToString(instance.StateTransitionReason)); stopped != nil {
		return stopped
	}
	return utils.TimePtr(instance.LaunchTime)
}
