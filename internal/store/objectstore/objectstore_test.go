package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	input   *s3.PutObjectInput
	body    []byte
	putErr  error
	headErr error
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
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
	require.NoError(t, New(api, "feedback-bucket").Put(context.Background(), record))

	assert.Equal(t, "feedback-bucket", aws.ToString(api.input.Bucket))
	assert.Equal(t, "feedback/3f1c2a9e-0000-4000-8000-000000000001.json", aws.ToString(api.input.Key))
	assert.Equal(t, "*", aws.ToString(api.input.IfNoneMatch))
	assert.Equal(t, "application/json", aws.ToString(api.input.ContentType))

	var got types.FeedbackRecord
	require.NoError(t, json.Unmarshal(api.body, &got))
	assert.Equal(t, record, got)
}

func TestStore_PutConflict(t *testing.T) {
	api := &fakeAPI{putErr: &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}}
	err := New(api, "b").Put(context.Background(), record)
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestStore_PutFailure(t *testing.T) {
	err := New(&fakeAPI{putErr: errors.New("AccessDenied")}, "b").Put(context.Background(), record)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrConflict)
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, New(&fakeAPI{}, "b").Ping(context.Background()))
	assert.ErrorContains(t, New(&fakeAPI{headErr: errors.New("NotFound")}, "b").Ping(context.Background()), "head bucket b")
}
