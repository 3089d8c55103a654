// Package redis publishes feedback notifications on a Redis pub/sub channel.
package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/internal/notify"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPublishTimeout bounds a single PUBLISH.
const DefaultPublishTimeout = 5 * time.Second

// Payload is the JSON document published on the channel.
type Payload struct {
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	PublishedAt time.Time `json:"published_at"`
}

// Notifier publishes to the channel named by the topic.
type Notifier struct {
	rdb     goredis.Cmdable
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithPublishTimeout overrides DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithClock overrides the published_at time source.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

// New creates a Notifier over rdb.
func New(rdb goredis.Cmdable, opts ...Option) *Notifier {
	n := &Notifier{rdb: rdb, timeout: DefaultPublishTimeout, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewClient builds a go-redis client from cfg.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	opts := &goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return goredis.NewClient(opts)
}

// Publish sends a Payload to the topic channel.
func (n *Notifier) Publish(ctx context.Context, topic, subject, message string) error {
	if topic == "" {
		return notify.ErrEmptyTopic
	}

	data, err := json.Marshal(Payload{
		Subject:     subject,
		Message:     message,
		PublishedAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.rdb.Publish(ctx, topic, string(data)).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", topic, err)
	}
	return nil
}

// Ping checks the server is reachable.
func (n *Notifier) Ping(ctx context.Context) error {
	return n.rdb.Ping(ctx).Err()
}
