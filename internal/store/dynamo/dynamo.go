// Package dynamo stores feedback records as DynamoDB items.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store writes one item per record. Put refuses to overwrite an existing id.
type Store struct {
	client API
	table  string
}

// New creates a Store over client writing to table.
func New(client API, table string) *Store {
	return &Store{client: client, table: table}
}

// NewFromConfig builds the DynamoDB client from cfg. A non-empty endpoint
// points the client at a local emulator.
func NewFromConfig(cfg aws.Config, table, endpoint string) *Store {
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(client, table)
}

// Put writes record as a single item.
func (s *Store) Put(ctx context.Context, record types.FeedbackRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", record.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditional *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditional) {
			return fmt.Errorf("put %s: %w", record.ID, store.ErrConflict)
		}
		return fmt.Errorf("put item into %s: %w", s.table, err)
	}
	return nil
}

// Ping checks that the table exists and is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", s.table, err)
	}
	return nil
}
