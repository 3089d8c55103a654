// Package mongo stores feedback records as MongoDB documents keyed by _id.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/NomadCrew/feedback-intake/types"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection is the subset of *mongo.Collection the store uses.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Pinger checks the deployment is reachable.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Store inserts one document per record.
type Store struct {
	coll   Collection
	pinger Pinger
}

// New creates a Store over coll. pinger may be nil.
func New(coll Collection, pinger Pinger) *Store {
	return &Store{coll: coll, pinger: pinger}
}

// Put inserts record. A duplicate _id is reported as store.ErrConflict.
func (s *Store) Put(ctx context.Context, record types.FeedbackRecord) error {
	if _, err := s.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert %s: %w", record.ID, store.ErrConflict)
		}
		return fmt.Errorf("insert feedback document: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	return s.pinger.Ping(ctx, readpref.Primary())
}

// Connect dials cfg.URI and returns a Store writing to collection, plus the
// client so the caller can disconnect it.
func Connect(ctx context.Context, cfg config.MongoConfig, collection string) (*Store, *mongo.Client, error) {
	logger.GetLogger().Infow("Connecting to MongoDB",
		"uri", logger.MaskConnectionString(cfg.URI),
		"database", cfg.Database,
		"collection", collection)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(collection)
	return New(coll, client), client, nil
}
