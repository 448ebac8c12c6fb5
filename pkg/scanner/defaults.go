package scanner

import (
	"fmt"

	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/aws"
	"github.com/younsl/idlereport/pkg/classifier"
)

// DefaultKinds are always registered, in this order
var DefaultKinds = []models.ResourceKind{
	models.KindComputeInstance,
	models.KindBlockVolume,
	models.KindFloatingIP,
	models.KindLoadBalancer,
	models.KindManagedDatabase,
	models.KindObjectStoreBucket,
	models.KindKeyValueTable,
	models.KindDistribution,
	models.KindFunction,
}

// OptionalKinds are registered after the defaults when requested
var OptionalKinds = []models.ResourceKind{
	models.KindLogGroup,
	models.KindContainerRepository,
}

// kindDescriptions backs the --list-kinds output
var kindDescriptions = map[models.ResourceKind]string{
	models.KindComputeInstance:     "Stopped EC2 instances idle past the EC2 threshold",
	models.KindBlockVolume:         "Unattached EBS volumes older than the EBS threshold",
	models.KindFloatingIP:          "Elastic IP addresses with no association",
	models.KindLoadBalancer:        "Active ALB/NLB load balancers for traffic review",
	models.KindManagedDatabase:     "Stopped RDS instances",
	models.KindObjectStoreBucket:   "S3 buckets without objects",
	models.KindKeyValueTable:       "All DynamoDB tables",
	models.KindDistribution:        "Disabled CloudFront distributions",
	models.KindFunction:            "All Lambda functions",
	models.KindLogGroup:            "CloudWatch log groups that never stored data (optional)",
	models.KindContainerRepository: "ECR repositories without images (optional)",
}

// Describe returns the description of kind
func Describe(kind models.ResourceKind) string {
	return kindDescriptions[kind]
}

// IsOptional reports whether kind is only registered on request
func IsOptional(kind models.ResourceKind) bool {
	for _, k := range OptionalKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// NewProbe builds the AWS probe for kind from clients
func NewProbe(kind models.ResourceKind, clients *aws.Clients) (Probe, error) {
	switch kind {
	case models.KindComputeInstance:
		return aws.NewEC2InstanceProbe(clients.EC2), nil
	case models.KindBlockVolume:
		return aws.NewEBSVolumeProbe(clients.EC2), nil
	case models.KindFloatingIP:
		return aws.NewEIPProbe(clients.EC2), nil
	case models.KindLoadBalancer:
		return aws.NewELBProbe(clients.ELB), nil
	case models.KindManagedDatabase:
		return aws.NewRDSProbe(clients.RDS), nil
	case models.KindObjectStoreBucket:
		return aws.NewS3BucketProbe(clients.S3), nil
	case models.KindKeyValueTable:
		return aws.NewDynamoDBTableProbe(clients.DynamoDB), nil
	case models.KindDistribution:
		return aws.NewCloudFrontProbe(clients.CloudFront), nil
	case models.KindFunction:
		return aws.NewLambdaProbe(clients.Lambda), nil
	case models.KindLogGroup:
		return aws.NewLogGroupProbe(clients.CloudWatchLogs, clients.Region), nil
	case models.KindContainerRepository:
		return aws.NewECRRepositoryProbe(clients.ECR, clients.Region), nil
	default:
		return nil, fmt.Errorf("unsupported resource kind: %s", kind)
	}
}

// DefaultRegistry registers the default kinds followed by any optional
// kinds listed in extra
func DefaultRegistry(clients *aws.Clients, extra []models.ResourceKind) (*Registry, error) {
	kinds := append([]models.ResourceKind{}, DefaultKinds...)
	for _, k := range extra {
		if !IsOptional(k) {
			return nil, fmt.Errorf("%s is not an optional resource kind", k)
		}
		kinds = append(kinds, k)
	}

	registry := NewRegistry()
	for _, kind := range kinds {
		probe, err := NewProbe(kind, clients)
		if err != nil {
			return nil, err
		}

		policy, ok := classifier.For(kind)
		if !ok {
			return nil, fmt.Errorf("no classifier for resource kind %s", kind)
		}

		if err := registry.Register(Registration{Kind: kind, Probe: probe, Classify: policy}); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
