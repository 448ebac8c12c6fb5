package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// LoadConfig loads the shared AWS configuration for one region
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config: %w", err)
	}
	return cfg, nil
}

// Clients bundles the service clients used during one invocation.
// Built once and passed to probes and sinks explicitly.
type Clients struct {
	Region         string
	EC2            EC2API
	ELB            ELBAPI
	RDS            RDSAPI
	S3             S3ClientAPI
	DynamoDB       DynamoDBAPI
	CloudFront     CloudFrontAPI
	Lambda         LambdaAPI
	CloudWatchLogs CloudWatchLogsAPI
	ECR            ECRAPI
	SNS            SNSAPI
	CloudWatch     CloudWatchAPI
}

// NewClients creates every service client from a loaded configuration
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		Region:         cfg.Region,
		EC2:            ec2.NewFromConfig(cfg),
		ELB:            elbv2.NewFromConfig(cfg),
		RDS:            rds.NewFromConfig(cfg),
		S3:             s3.NewFromConfig(cfg),
		DynamoDB:       dynamodb.NewFromConfig(cfg),
		CloudFront:     cloudfront.NewFromConfig(cfg),
		Lambda:         lambda.NewFromConfig(cfg),
		CloudWatchLogs: cloudwatchlogs.NewFromConfig(cfg),
		ECR:            ecr.NewFromConfig(cfg),
		SNS:            sns.NewFromConfig(cfg),
		CloudWatch:     cloudwatch.NewFromConfig(cfg),
	}
}
