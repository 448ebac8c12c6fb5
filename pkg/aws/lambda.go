package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/younsl/idlereport/internal/models"
)

// LambdaProbe lists Lambda functions
type LambdaProbe struct {
	client LambdaAPI
}

// NewLambdaProbe creates a new LambdaProbe
func NewLambdaProbe(client LambdaAPI) *LambdaProbe {
	return &LambdaProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *LambdaProbe) Kind() models.ResourceKind {
	return models.KindFunction
}

// Scan returns every function name. Invocation metrics are not collected.
func (p *LambdaProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	descriptors := []models.ResourceDescriptor{}

	paginator := lambda.NewListFunctionsPaginator(p.client, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing Lambda functions: %w", err)
		}

		for _, function := range page.Functions {
			descriptors = append(descriptors, models.ResourceDescriptor{
				ID: aws.ToString(function.FunctionName),
			})
		}
	}

	return descriptors, nil
}
