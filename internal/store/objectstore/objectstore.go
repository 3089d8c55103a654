// Package objectstore stores each feedback record as a JSON object in an
// S3-compatible bucket.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// KeyPrefix is prepended to every object key.
const KeyPrefix = "feedback/"

// API is the subset of the S3 client the store uses.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Store writes feedback/<id>.json objects. Put refuses to overwrite.
type Store struct {
	client API
	bucket string
}

// New creates a Store writing into bucket.
func New(client API, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// NewFromConfig builds the S3 client from cfg. A custom endpoint switches to
// path-style addressing for MinIO, R2 and similar.
func NewFromConfig(cfg aws.Config, bucket, endpoint string) *Store {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, bucket)
}

// Key returns the object key for a record id.
func Key(id string) string {
	return KeyPrefix + id + ".json"
}

// Put uploads record as JSON.
func (s *Store) Put(ctx context.Context, record types.FeedbackRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", record.ID, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(Key(record.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return fmt.Errorf("put %s: %w", record.ID, store.ErrConflict)
		}
		return fmt.Errorf("s3 put object failed: %w", err)
	}
	return nil
}

// Ping checks the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}
	return nil
}
