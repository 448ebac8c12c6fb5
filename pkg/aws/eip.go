package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/utils"
)

// EIPProbe lists allocated Elastic IP addresses
type EIPProbe struct {
	client EC2API
}

// NewEIPProbe creates a new EIPProbe
func NewEIPProbe(client EC2API) *EIPProbe {
	return &EIPProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *EIPProbe) Kind() models.ResourceKind {
	return models.KindFloatingIP
}

// Scan returns every allocated address along with its attachment state
func (p *EIPProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	// DescribeAddresses is not paginated
	result, err := p.client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("error querying Elastic IPs: %w", err)
	}

	descriptors := make([]models.ResourceDescriptor, 0, len(result.Addresses))

	for _, eip := range result.Addresses {
		id := utils.SafeDeref(eip.PublicIp)
		if id == "" {
			id = aws.ToString(eip.AllocationId)
		}

		// Associated with an instance or a network interface
		attached := utils.SafeDeref(eip.AssociationId) != "" || utils.SafeDeref(eip.InstanceId) != ""

		descriptors = append(descriptors, models.ResourceDescriptor{
			ID:       id,
			Location: aws.ToString(eip.NetworkBorderGroup),
			Attributes: models.Attributes{
				Attached: attached,
			},
		})
	}

	return descriptors, nil
}
