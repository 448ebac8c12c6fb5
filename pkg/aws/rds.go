package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/younsl/idlereport/internal/models"
)

// RDSProbe lists RDS database instances
type RDSProbe struct {
	client RDSAPI
}

// NewRDSProbe creates a new RDSProbe
func NewRDSProbe(client RDSAPI) *RDSProbe {
	return &RDSProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *RDSProbe) Kind() models.ResourceKind {
	return models.KindManagedDatabase
}

// Scan returns every DB instance with its status
func (p *RDSProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	descriptors := []models.ResourceDescriptor{}

	paginator := rds.NewDescribeDBInstancesPaginator(p.client, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing DB instances: %w", err)
		}

		for _, db := range page.DBInstances {
			descriptors = append(descriptors, models.ResourceDescriptor{
				ID:       aws.ToString(db.DBInstanceIdentifier),
				Location: aws.ToString(db.AvailabilityZone),
				Attributes: models.Attributes{
					State: aws.ToString(db.DBInstanceStatus),
				},
			})
		}
	}

	return descriptors, nil
}
