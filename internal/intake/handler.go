// Package intake implements the feedback pipeline: parse, validate, persist,
// notify, respond. A Handler keeps no state between invocations; its
// collaborators come from providers so they can be shared or built per call.
package intake

import (
	"context"
	"time"

	apperrors "github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Policy decides what a failed publish means once the record is stored.
type Policy int

const (
	// PolicyBestEffort logs the failure and still reports success; the
	// submission is already safe in the store.
	PolicyBestEffort Policy = iota
	// PolicyStrict reports a NotificationError to the client.
	PolicyStrict
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "best_effort"
}

// Handler runs one submission end to end.
type Handler struct {
	stores    StoreProvider
	notifiers NotifierProvider
	topic     string
	policy    Policy
	now       func() time.Time
	newID     func() string
	log       *zap.SugaredLogger
	metrics   *Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(h *Handler) {
		h.newID = newID
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(h *Handler) {
		h.log = log
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithNotificationPolicy sets the publish failure policy. Defaults to PolicyBestEffort.
func WithNotificationPolicy(p Policy) Option {
	return func(h *Handler) {
		h.policy = p
	}
}

// NewHandler creates a Handler publishing to topic.
func NewHandler(stores StoreProvider, notifiers NotifierProvider, topic string, opts ...Option) *Handler {
	h := &Handler{
		stores:    stores,
		notifiers: notifiers,
		topic:     topic,
		policy:    PolicyBestEffort,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       logger.GetLogger().Named("intake"),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Submit decodes and validates body, stores the resulting record and
// notifies subscribers. Errors are *errors.AppError values; on error the
// returned record is empty even if it was already stored.
func (h *Handler) Submit(ctx context.Context, body any) (types.FeedbackRecord, error) {
	fields, err := decodeBody(body)
	if err != nil {
		h.metrics.observeOutcome(OutcomeInvalidInput)
		h.log.Infow("Rejected feedback with undecodable body", "error", err)
		return types.FeedbackRecord{}, err
	}

	sub, err := validate(fields)
	if err != nil {
		h.metrics.observeOutcome(OutcomeValidation)
		h.log.Infow("Rejected invalid feedback", "error", err)
		return types.FeedbackRecord{}, err
	}

	record := types.FeedbackRecord{
		ID:        h.newID(),
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		CreatedAt: h.now().UTC().Format(types.TimestampLayout),
	}

	if err := h.persist(ctx, record); err != nil {
		h.metrics.observeOutcome(OutcomePersistence)
		return types.FeedbackRecord{}, err
	}

	// The record is never retracted, whatever the policy.
	if err := h.notify(ctx, record); err != nil && h.policy == PolicyStrict {
		h.metrics.observeOutcome(OutcomeNotification)
		return types.FeedbackRecord{}, err
	}

	h.metrics.observeOutcome(OutcomeOK)
	h.log.Infow("Feedback accepted",
		"id", record.ID,
		"email", logger.MaskEmail(record.Email))
	return record, nil
}

func (h *Handler) persist(ctx context.Context, record types.FeedbackRecord) error {
	store, err := h.stores(ctx)
	if err != nil {
		h.log.Errorw("Failed to provision record store", "id", record.ID, "error", err)
		return apperrors.Persistence(err)
	}

	start := time.Now()
	err = store.Put(ctx, record)
	h.metrics.observeStore(time.Since(start).Seconds())
	if err != nil {
		h.log.Errorw("Failed to store feedback record", "id", record.ID, "error", err)
		return apperrors.Persistence(err)
	}
	return nil
}

func (h *Handler) notify(ctx context.Context, record types.FeedbackRecord) error {
	notifier, err := h.notifiers(ctx)
	if err != nil {
		h.metrics.observeNotify(0, true)
		h.logNotifyFailure("Failed to provision notifier", record, err)
		return apperrors.Notification(err)
	}

	start := time.Now()
	err = notifier.Publish(ctx, h.topic, types.Subject, FormatMessage(record))
	h.metrics.observeNotify(time.Since(start).Seconds(), err != nil)
	if err != nil {
		h.logNotifyFailure("Failed to publish feedback notification", record, err)
		return apperrors.Notification(err)
	}
	return nil
}

func (h *Handler) logNotifyFailure(msg string, record types.FeedbackRecord, err error) {
	if h.policy == PolicyStrict {
		h.log.Errorw(msg, "id", record.ID, "topic", h.topic, "error", err)
		return
	}
	h.log.Warnw(msg+", record kept", "id", record.ID, "topic", h.topic, "error", err)
}

// Handle is the transport-neutral entry point: it runs Submit and renders
// the outcome. OPTIONS requests get an empty preflight response.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	if req.Method == MethodOptions {
		return PreflightResponse()
	}

	record, err := h.Submit(ctx, req.Body)
	if err != nil {
		return ErrorResponse(err)
	}
	return SuccessResponse(record.ID)
}
