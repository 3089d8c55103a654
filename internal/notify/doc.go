// Package notify holds the notifier drivers. Each subpackage implements
// Publish(ctx, topic, subject, message) for one transport.
package notify

import "errors"

// ErrEmptyTopic is returned when Publish is called without a topic.
var ErrEmptyTopic = errors.New("notify: empty topic")
