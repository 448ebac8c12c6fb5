package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/younsl/idlereport/internal/models"
)

// S3BucketProbe lists S3 buckets and checks each one for at least one object
type S3BucketProbe struct {
	client S3API
}

// NewS3BucketProbe creates a new S3BucketProbe
func NewS3BucketProbe(client S3API) *S3BucketProbe {
	return &S3BucketProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *S3BucketProbe) Kind() models.ResourceKind {
	return models.KindObjectStoreBucket
}

// Scan returns every bucket the caller can inspect. A bucket whose location
// or object check fails is skipped, unless ctx has ended: then Scan fails so
// a partial list is never returned.
func (p *S3BucketProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	logger := zerolog.Ctx(ctx)

	names, err := p.listBucketNames(ctx)
	if err != nil {
		return nil, err
	}

	descriptors := make([]models.ResourceDescriptor, 0, len(names))

	for _, name := range names {
		region, err := p.getBucketRegion(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("error looking up location of bucket %s: %w", name, ctx.Err())
			}
			logger.Warn().Err(err).Str("bucket", name).Msg("skipping bucket: location lookup failed")
			continue
		}

		hasObjects, err := p.hasObjects(ctx, name, region)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("error checking objects in bucket %s: %w", name, ctx.Err())
			}
			logger.Warn().Err(err).Str("bucket", name).Msg("skipping bucket: object check failed")
			continue
		}

		descriptors = append(descriptors, models.ResourceDescriptor{
			ID:       name,
			Location: region,
			Attributes: models.Attributes{
				HasObjects: hasObjects,
			},
		})
	}

	return descriptors, nil
}

// listBucketNames pages through ListBuckets
func (p *S3BucketProbe) listBucketNames(ctx context.Context) ([]string, error) {
	var names []string
	var token *string

	for {
		result, err := p.client.ListBuckets(ctx, &s3.ListBucketsInput{ContinuationToken: token})
		if err != nil {
			return nil, fmt.Errorf("error listing S3 buckets: %w", err)
		}

		for _, bucket := range result.Buckets {
			names = append(names, aws.ToString(bucket.Name))
		}

		if aws.ToString(result.ContinuationToken) == "" {
			break
		}
		token = result.ContinuationToken
	}

	return names, nil
}

// getBucketRegion determines the region for a bucket
func (p *S3BucketProbe) getBucketRegion(ctx context.Context, bucketName string) (string, error) {
	location, err := p.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return "", err
	}

	// An empty location constraint means us-east-1, "EU" is the legacy name of eu-west-1
	switch location.LocationConstraint {
	case "":
		return "us-east-1", nil
	case "EU":
		return "eu-west-1", nil
	default:
		return string(location.LocationConstraint), nil
	}
}

// hasObjects asks for a single key, which is enough to tell empty from non-empty
func (p *S3BucketProbe) hasObjects(ctx context.Context, bucketName, region string) (bool, error) {
	result, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucketName),
		MaxKeys: aws.Int32(1),
	}, func(o *s3.Options) {
		o.Region = region
	})
	if err != nil {
		return false, err
	}

	return aws.ToInt32(result.KeyCount) > 0 || len(result.Contents) > 0, nil
}
