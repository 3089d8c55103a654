package sns

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NomadCrew/feedback-intake/internal/notify"
	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	input *awssns.PublishInput
	err   error
}

func (f *fakeAPI) Publish(_ context.Context, in *awssns.PublishInput, _ ...func(*awssns.Options)) (*awssns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &awssns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

const topic = "arn:aws:sns:us-east-1:123456789012:feedback"

func TestNotifier_Publish(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, New(api).Publish(context.Background(), topic, "New Feedback Submission", "body"))

	assert.Equal(t, topic, aws.ToString(api.input.TopicArn))
	assert.Equal(t, "New Feedback Submission", aws.ToString(api.input.Subject))
	assert.Equal(t, "body", aws.ToString(api.input.Message))
}

func TestNotifier_PublishTruncatesSubject(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, New(api).Publish(context.Background(), topic, strings.Repeat("s", 150), "body"))
	assert.Len(t, aws.ToString(api.input.Subject), 100)
}

func TestNotifier_PublishFailure(t *testing.T) {
	err := New(&fakeAPI{err: errors.New("AuthorizationError")}).Publish(context.Background(), topic, "s", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AuthorizationError")
}

func TestNotifier_EmptyTopic(t *testing.T) {
	api := &fakeAPI{}
	err := New(api).Publish(context.Background(), "", "s", "m")
	assert.ErrorIs(t, err, notify.ErrEmptyTopic)
	assert.Nil(t, api.input)
}
