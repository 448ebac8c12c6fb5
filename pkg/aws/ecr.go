package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/rs/zerolog"
	"github.com/younsl/idlereport/internal/models"
)

// ECRRepositoryProbe lists ECR repositories and checks each for at least one image
type ECRRepositoryProbe struct {
	client ECRAPI
	region string
}

// NewECRRepositoryProbe creates a new ECRRepositoryProbe
func NewECRRepositoryProbe(client ECRAPI, region string) *ECRRepositoryProbe {
	return &ECRRepositoryProbe{client: client, region: region}
}

// Kind returns the resource kind this probe enumerates
func (p *ECRRepositoryProbe) Kind() models.ResourceKind {
	return models.KindContainerRepository
}

// Scan returns every repository whose image check succeeded.
// It fails as a whole when ctx ends before every repository is checked.
func (p *ECRRepositoryProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	logger := zerolog.Ctx(ctx)
	descriptors := []models.ResourceDescriptor{}

	paginator := ecr.NewDescribeRepositoriesPaginator(p.client, &ecr.DescribeRepositoriesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe ECR repositories in region %s: %w", p.region, err)
		}

		for _, repo := range page.Repositories {
			name := aws.ToString(repo.RepositoryName)

			hasImages, err := p.hasImages(ctx, repo.RepositoryName, repo.RegistryId)
			if err != nil {
				// A deadline or cancellation fails the whole kind; a partial list would look complete
				if ctx.Err() != nil {
					return nil, fmt.Errorf("error checking images in ECR repository %s: %w", name, ctx.Err())
				}
				logger.Warn().Err(err).Str("repository", name).Msg("skipping repository: image check failed")
				continue
			}

			descriptors = append(descriptors, models.ResourceDescriptor{
				ID:       name,
				Location: p.region,
				Attributes: models.Attributes{
					HasObjects: hasImages,
				},
			})
		}
	}

	return descriptors, nil
}

// hasImages requests a single image id from the repository
func (p *ECRRepositoryProbe) hasImages(ctx context.Context, name, registryID *string) (bool, error) {
	output, err := p.client.ListImages(ctx, &ecr.ListImagesInput{
		RepositoryName: name,
		RegistryId:     registryID,
		MaxResults:     aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(output.ImageIds) > 0, nil
}
