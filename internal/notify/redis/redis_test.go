package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-intake/internal/notify"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var publishedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func expectedPayload(t *testing.T, subject, message string) string {
	t.Helper()
	data, err := json.Marshal(Payload{Subject: subject, Message: message, PublishedAt: publishedAt})
	require.NoError(t, err)
	return string(data)
}

func TestNotifier_Publish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := New(client, WithClock(func() time.Time { return publishedAt }))

	mock.ExpectPublish("feedback", expectedPayload(t, "New Feedback Submission", "hello")).SetVal(1)

	require.NoError(t, n.Publish(context.Background(), "feedback", "New Feedback Submission", "hello"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifier_PublishFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := New(client, WithClock(func() time.Time { return publishedAt }))

	mock.ExpectPublish("feedback", expectedPayload(t, "s", "m")).SetErr(errors.New("connection refused"))

	err := n.Publish(context.Background(), "feedback", "s", "m")
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifier_EmptyTopic(t *testing.T) {
	client, mock := redismock.NewClientMock()
	assert.ErrorIs(t, New(client).Publish(context.Background(), "", "s", "m"), notify.ErrEmptyTopic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifier_Ping(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, New(client).Ping(context.Background()))
}

func TestWithPublishTimeout(t *testing.T) {
	client, _ := redismock.NewClientMock()
	assert.Equal(t, 2*time.Second, New(client, WithPublishTimeout(2*time.Second)).timeout)
	assert.Equal(t, DefaultPublishTimeout, New(client, WithPublishTimeout(0)).timeout)
}
