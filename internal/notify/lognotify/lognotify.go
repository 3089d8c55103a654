// Package lognotify writes notifications to the log instead of delivering
// them. It is meant for local development.
package lognotify

import (
	"context"

	"github.com/NomadCrew/feedback-intake/internal/notify"
	"go.uber.org/zap"
)

// Notifier logs every Publish at info level.
type Notifier struct {
	log *zap.SugaredLogger
}

// New creates a Notifier writing to log.
func New(log *zap.SugaredLogger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Publish(_ context.Context, topic, subject, message string) error {
	if topic == "" {
		return notify.ErrEmptyTopic
	}
	n.log.Infow("Feedback notification", "topic", topic, "subject", subject, "message", message)
	return nil
}
