package models

// ResourceKind identifies one probe/classifier family
type ResourceKind string

// Resource kinds scanned by default, in registration order
const (
	KindComputeInstance     ResourceKind = "compute-instance"
	KindBlockVolume         ResourceKind = "block-volume"
	KindFloatingIP          ResourceKind = "floating-ip"
	KindLoadBalancer        ResourceKind = "load-balancer"
	KindManagedDatabase     ResourceKind = "managed-database"
	KindObjectStoreBucket   ResourceKind = "object-store-bucket"
	KindKeyValueTable       ResourceKind = "key-value-table"
	KindDistribution        ResourceKind = "content-distribution-endpoint"
	KindFunction            ResourceKind = "function"
	KindLogGroup            ResourceKind = "log-group"
	KindContainerRepository ResourceKind = "container-repository"
)

// kindLabels maps each kind to the label shown in reports
var kindLabels = map[ResourceKind]string{
	KindComputeInstance:     "EC2 Instance",
	KindBlockVolume:         "EBS Volume",
	KindFloatingIP:          "Elastic IP",
	KindLoadBalancer:        "Load Balancer",
	KindManagedDatabase:     "RDS Instance",
	KindObjectStoreBucket:   "S3 Bucket",
	KindKeyValueTable:       "DynamoDB Table",
	KindDistribution:        "CloudFront Distribution",
	KindFunction:            "Lambda Function",
	KindLogGroup:            "CloudWatch Log Group",
	KindContainerRepository: "ECR Repository",
}

// Label returns the human readable report label for the kind.
// Unknown kinds fall back to the raw identifier.
func (k ResourceKind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// String implements fmt.Stringer
func (k ResourceKind) String() string {
	return string(k)
}

// KindFromLabel resolves a report label back to its kind
func KindFromLabel(label string) (ResourceKind, bool) {
	for kind, l := range kindLabels {
		if l == label {
			return kind, true
		}
	}
	return "", false
}
