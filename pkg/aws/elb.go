package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/younsl/idlereport/internal/models"
)

// ELBProbe lists ELBv2 load balancers (ALB, NLB, GWLB)
type ELBProbe struct {
	client ELBAPI
}

// NewELBProbe creates a new ELBProbe
func NewELBProbe(client ELBAPI) *ELBProbe {
	return &ELBProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *ELBProbe) Kind() models.ResourceKind {
	return models.KindLoadBalancer
}

// Scan returns every load balancer with its lifecycle state
func (p *ELBProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	descriptors := []models.ResourceDescriptor{}

	paginator := elbv2.NewDescribeLoadBalancersPaginator(p.client, &elbv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing v2 load balancers: %w", err)
		}

		for _, lb := range page.LoadBalancers {
			// First availability zone stands in for the location
			var zone string
			if len(lb.AvailabilityZones) > 0 {
				zone = aws.ToString(lb.AvailabilityZones[0].ZoneName)
			}

			var state string
			if lb.State != nil {
				state = string(lb.State.Code)
			}

			descriptors = append(descriptors, models.ResourceDescriptor{
				ID:       aws.ToString(lb.LoadBalancerName),
				Location: zone,
				Attributes: models.Attributes{
					State: state,
				},
			})
		}
	}

	return descriptors, nil
}
