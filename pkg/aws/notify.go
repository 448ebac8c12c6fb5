package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// snsSubjectLimit is the maximum subject length accepted by SNS
const snsSubjectLimit = 100

// SNSNotifier publishes report summaries to an SNS topic
type SNSNotifier struct {
	client SNSAPI
}

// NewSNSNotifier creates a new SNSNotifier
func NewSNSNotifier(client SNSAPI) *SNSNotifier {
	return &SNSNotifier{client: client}
}

// Publish sends one message to topicARN
func (n *SNSNotifier) Publish(ctx context.Context, topicARN, subject, body string) error {
	if len(subject) > snsSubjectLimit {
		subject = subject[:snsSubjectLimit]
	}

	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("error publishing to %s: %w", topicARN, err)
	}
	return nil
}
