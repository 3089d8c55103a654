package intake

import (
	"context"

	"github.com/NomadCrew/feedback-intake/types"
)

// RecordStore durably stores feedback records keyed by ID. Put either stores
// the whole record or nothing.
type RecordStore interface {
	Put(ctx context.Context, record types.FeedbackRecord) error
}

// Notifier broadcasts a message to the subscribers of topic.
type Notifier interface {
	Publish(ctx context.Context, topic, subject, message string) error
}

// StoreProvider yields the RecordStore for one invocation. Implementations
// either hand out a shared instance or build a new one per call.
type StoreProvider func(ctx context.Context) (RecordStore, error)

// NotifierProvider yields the Notifier for one invocation.
type NotifierProvider func(ctx context.Context) (Notifier, error)

// SharedStore returns a provider that always yields s.
func SharedStore(s RecordStore) StoreProvider {
	return func(context.Context) (RecordStore, error) { return s, nil }
}

// SharedNotifier returns a provider that always yields n.
func SharedNotifier(n Notifier) NotifierProvider {
	return func(context.Context) (Notifier, error) { return n, nil }
}

// StoreFunc adapts a function to RecordStore.
type StoreFunc func(ctx context.Context, record types.FeedbackRecord) error

func (f StoreFunc) Put(ctx context.Context, record types.FeedbackRecord) error {
	return f(ctx, record)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, topic, subject, message string) error

func (f NotifierFunc) Publish(ctx context.Context, topic, subject, message string) error {
	return f(ctx, topic, subject, message)
}
