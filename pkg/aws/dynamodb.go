package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/younsl/idlereport/internal/models"
)

// DynamoDBTableProbe lists DynamoDB tables
type DynamoDBTableProbe struct {
	client DynamoDBAPI
}

// NewDynamoDBTableProbe creates a new DynamoDBTableProbe
func NewDynamoDBTableProbe(client DynamoDBAPI) *DynamoDBTableProbe {
	return &DynamoDBTableProbe{client: client}
}

// Kind returns the resource kind this probe enumerates
func (p *DynamoDBTableProbe) Kind() models.ResourceKind {
	return models.KindKeyValueTable
}

// Scan returns every table name. No activity signal is collected.
func (p *DynamoDBTableProbe) Scan(ctx context.Context) ([]models.ResourceDescriptor, error) {
	descriptors := []models.ResourceDescriptor{}

	paginator := dynamodb.NewListTablesPaginator(p.client, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing DynamoDB tables: %w", err)
		}

		for _, name := range page.TableNames {
			descriptors = append(descriptors, models.ResourceDescriptor{ID: name})
		}
	}

	return descriptors, nil
}
