package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	input       *dynamodb.PutItemInput
	putErr      error
	describeErr error
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.input = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodb.DescribeTableOutput{Table: &ddbtypes.TableDescription{TableName: in.TableName}}, nil
}

var record = types.FeedbackRecord{
	ID:        "3f1c2a9e-0000-4000-8000-000000000001",
	Name:      "Ada",
	Email:     "ada@x.com",
	Message:   "Great site",
	CreatedAt: "2025-03-01T12:00:00.000000+00:00",
}

func TestStore_Put(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, "feedback")

	require.NoError(t, s.Put(context.Background(), record))

	require.NotNil(t, api.input)
	assert.Equal(t, "feedback", aws.ToString(api.input.TableName))
	assert.Equal(t, "attribute_not_exists(id)", aws.ToString(api.input.ConditionExpression))

	var got types.FeedbackRecord
	require.NoError(t, attributevalue.UnmarshalMap(api.input.Item, &got))
	assert.Equal(t, record, got)

	for _, key := range []string{"id", "name", "email", "message", "created_at"} {
		member, ok := api.input.Item[key].(*ddbtypes.AttributeValueMemberS)
		require.True(t, ok, key)
		assert.NotEmpty(t, member.Value)
	}
}

func TestStore_PutConflict(t *testing.T) {
	api := &fakeAPI{putErr: &ddbtypes.ConditionalCheckFailedException{Message: aws.String("exists")}}
	err := New(api, "feedback").Put(context.Background(), record)
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestStore_PutFailure(t *testing.T) {
	api := &fakeAPI{putErr: errors.New("throttled")}
	err := New(api, "feedback").Put(context.Background(), record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.NotErrorIs(t, err, store.ErrConflict)
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, New(&fakeAPI{}, "feedback").Ping(context.Background()))

	err := New(&fakeAPI{describeErr: errors.New("ResourceNotFoundException")}, "feedback").Ping(context.Background())
	assert.ErrorContains(t, err, "describe table feedback")
}
