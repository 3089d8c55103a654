// Package provision builds the record store and notifier named by the
// configuration and wraps them in intake providers.
package provision

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/internal/intake"
	"github.com/NomadCrew/feedback-intake/internal/notify/email"
	"github.com/NomadCrew/feedback-intake/internal/notify/lognotify"
	redisnotify "github.com/NomadCrew/feedback-intake/internal/notify/redis"
	"github.com/NomadCrew/feedback-intake/internal/notify/sns"
	"github.com/NomadCrew/feedback-intake/internal/notify/webhook"
	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/internal/store/dynamo"
	"github.com/NomadCrew/feedback-intake/internal/store/memory"
	mongostore "github.com/NomadCrew/feedback-intake/internal/store/mongo"
	"github.com/NomadCrew/feedback-intake/internal/store/objectstore"
	"github.com/NomadCrew/feedback-intake/internal/store/postgres"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Store is a RecordStore that can also report health and release resources.
type Store interface {
	intake.RecordStore
	store.Pinger
}

// CloseFunc releases whatever a provider opened.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// Providers carries the built providers plus the shared instances, if any,
// for health checks.
type Providers struct {
	Stores    intake.StoreProvider
	Notifiers intake.NotifierProvider
	// Checks lists collaborators that answer Ping. Empty under per-invocation
	// provisioning because nothing outlives a request.
	Checks map[string]store.Pinger
	Close  CloseFunc
}

// Policy maps the configured notification policy onto intake.Policy.
func Policy(p config.NotificationPolicy) intake.Policy {
	if p == config.PolicyStrict {
		return intake.PolicyStrict
	}
	return intake.PolicyBestEffort
}

// AWSConfig loads the SDK configuration for region, adding static
// credentials when both halves are configured.
func AWSConfig(ctx context.Context, cfg *config.Config, region string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// Build creates both providers according to cfg.Intake.Provisioning.
// Under shared provisioning the collaborators are built here, once, so a
// misconfiguration fails start-up rather than the first request.
func Build(ctx context.Context, cfg *config.Config) (*Providers, error) {
	log := logger.GetLogger().Named("provision")

	if cfg.Intake.Provisioning == config.ProvisionPerInvocation {
		log.Infow("Collaborators will be built per invocation",
			"store", cfg.Store.Driver,
			"notifier", cfg.Notifier.Driver)
		return &Providers{
			Stores:    perInvocationStores(cfg),
			Notifiers: perInvocationNotifiers(cfg),
			Checks:    map[string]store.Pinger{},
			Close:     noopClose,
		}, nil
	}

	st, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	n, closeNotifier, err := NewNotifier(ctx, cfg)
	if err != nil {
		_ = closeStore(ctx)
		return nil, err
	}

	checks := map[string]store.Pinger{"store": st}
	if p, ok := n.(store.Pinger); ok {
		checks["notifier"] = p
	}

	log.Infow("Collaborators built",
		"store", cfg.Store.Driver,
		"notifier", cfg.Notifier.Driver)

	return &Providers{
		Stores:    intake.SharedStore(st),
		Notifiers: intake.SharedNotifier(n),
		Checks:    checks,
		Close: func(ctx context.Context) error {
			return errors.Join(closeStore(ctx), closeNotifier(ctx))
		},
	}, nil
}

// closingStore releases its connection after the single Put of an invocation.
type closingStore struct {
	store Store
	close CloseFunc
}

func (s closingStore) Put(ctx context.Context, record types.FeedbackRecord) error {
	defer func() { _ = s.close(context.WithoutCancel(ctx)) }()
	return s.store.Put(ctx, record)
}

type closingNotifier struct {
	notifier intake.Notifier
	close    CloseFunc
}

func (n closingNotifier) Publish(ctx context.Context, topic, subject, message string) error {
	defer func() { _ = n.close(context.WithoutCancel(ctx)) }()
	return n.notifier.Publish(ctx, topic, subject, message)
}

func perInvocationStores(cfg *config.Config) intake.StoreProvider {
	return func(ctx context.Context) (intake.RecordStore, error) {
		st, closeStore, err := NewStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return closingStore{store: st, close: closeStore}, nil
	}
}

func perInvocationNotifiers(cfg *config.Config) intake.NotifierProvider {
	return func(ctx context.Context) (intake.Notifier, error) {
		n, closeNotifier, err := NewNotifier(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return closingNotifier{notifier: n, close: closeNotifier}, nil
	}
}

var (
	memoryOnce  sync.Once
	memoryStore *memory.Store
)

// sharedMemory returns the process-wide memory store so per-invocation
// provisioning still sees earlier records.
func sharedMemory() *memory.Store {
	memoryOnce.Do(func() { memoryStore = memory.New() })
	return memoryStore
}

// NewStore builds the configured record store.
func NewStore(ctx context.Context, cfg *config.Config) (Store, CloseFunc, error) {
	switch cfg.Store.Driver {
	case config.StoreDynamoDB:
		awsCfg, err := AWSConfig(ctx, cfg, cfg.StoreRegion())
		if err != nil {
			return nil, nil, err
		}
		return dynamo.NewFromConfig(awsCfg, cfg.Store.TableName, cfg.Store.Endpoint), noopClose, nil

	case config.StoreS3:
		awsCfg, err := AWSConfig(ctx, cfg, cfg.StoreRegion())
		if err != nil {
			return nil, nil, err
		}
		return objectstore.NewFromConfig(awsCfg, cfg.Store.TableName, cfg.Store.Endpoint), noopClose, nil

	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		closePool := func(context.Context) error {
			pool.Close()
			return nil
		}
		return postgres.New(pool, cfg.Store.TableName), closePool, nil

	case config.StoreMongo:
		st, client, err := mongostore.Connect(ctx, cfg.Mongo, cfg.Store.TableName)
		if err != nil {
			return nil, nil, err
		}
		return st, client.Disconnect, nil

	case config.StoreMemory:
		return sharedMemory(), noopClose, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewNotifier builds the configured notifier.
func NewNotifier(ctx context.Context, cfg *config.Config) (intake.Notifier, CloseFunc, error) {
	switch cfg.Notifier.Driver {
	case config.NotifierSNS:
		awsCfg, err := AWSConfig(ctx, cfg, cfg.NotifierRegion())
		if err != nil {
			return nil, nil, err
		}
		return sns.NewFromConfig(awsCfg, cfg.Notifier.Endpoint), noopClose, nil

	case config.NotifierEmail:
		n, err := email.NewFromConfig(cfg.Email)
		if err != nil {
			return nil, nil, err
		}
		return n, noopClose, nil

	case config.NotifierRedis:
		timeout := time.Duration(cfg.Notifier.PublishTimeoutSeconds) * time.Second
		client := redisnotify.NewClient(cfg.Redis)
		closeClient := func(context.Context) error { return client.Close() }
		return redisnotify.New(client, redisnotify.WithPublishTimeout(timeout)), closeClient, nil

	case config.NotifierWebhook:
		timeout := time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
		return webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.APIKey, webhook.WithTimeout(timeout)), noopClose, nil

	case config.NotifierLog:
		return lognotify.New(logger.GetLogger().Named("notify")), noopClose, nil

	default:
		return nil, nil, fmt.Errorf("unknown notifier driver %q", cfg.Notifier.Driver)
	}
}
