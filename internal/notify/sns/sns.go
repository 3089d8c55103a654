// Package sns publishes feedback notifications to an Amazon SNS topic.
package sns

import (
	"context"
	"fmt"

	"github.com/NomadCrew/feedback-intake/internal/notify"
	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS caps subjects at 100 characters.
const maxSubjectLength = 100

// API is the subset of the SNS client the notifier uses.
type API interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// Notifier publishes one SNS message per call.
type Notifier struct {
	client API
}

// New creates a Notifier over client.
func New(client API) *Notifier {
	return &Notifier{client: client}
}

// NewFromConfig builds the SNS client from cfg.
func NewFromConfig(cfg aws.Config, endpoint string) *Notifier {
	return New(awssns.NewFromConfig(cfg, func(o *awssns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}))
}

// Publish sends message to the topic ARN.
func (n *Notifier) Publish(ctx context.Context, topic, subject, message string) error {
	if topic == "" {
		return notify.ErrEmptyTopic
	}
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength]
	}

	_, err := n.client.Publish(ctx, &awssns.PublishInput{
		TopicArn: aws.String(topic),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("sns publish to %s: %w", topic, err)
	}
	return nil
}
