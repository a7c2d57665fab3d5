package outbox

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionLogged struct {
	domain.BaseEvent
	Minutes int `json:"minutes"`
}

func newSessionLogged(aggregateID uuid.UUID, minutes int) *sessionLogged {
	return &sessionLogged{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Session", "habits.session.registered"),
		Minutes:   minutes,
	}
}

func TestNewMessage(t *testing.T) {
	t.Run("copies the envelope", func(t *testing.T) {
		aggregateID := uuid.New()
		event := newSessionLogged(aggregateID, 90)

		msg, err := NewMessage(event)

		require.NoError(t, err)
		assert.Equal(t, event.EventID(), msg.EventID)
		assert.Equal(t, "Session", msg.AggregateType)
		assert.Equal(t, aggregateID, msg.AggregateID)
		assert.Equal(t, "habits.session.registered", msg.EventType)
		assert.Equal(t, "habits.session.registered", msg.RoutingKey)
		assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
		assert.Zero(t, msg.ID)
		assert.Nil(t, msg.PublishedAt)
		assert.Nil(t, msg.NextRetryAt)
	})

	t.Run("payload carries envelope and body", func(t *testing.T) {
		event := newSessionLogged(uuid.New(), 45)

		msg, err := NewMessage(event)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, float64(45), decoded["minutes"])
		assert.Equal(t, "habits.session.registered", decoded["routing_key"])
		assert.Equal(t, event.EventID().String(), decoded["event_id"])
	})

	t.Run("metadata is serialized separately", func(t *testing.T) {
		event := newSessionLogged(uuid.New(), 10)
		metadata := domain.EventMetadata{CorrelationID: uuid.New(), CausationID: uuid.New(), UserID: uuid.New()}
		event.SetMetadata(metadata)

		msg, err := NewMessage(event)

		require.NoError(t, err)
		assert.Contains(t, string(msg.Metadata), metadata.CorrelationID.String())
	})
}

func TestNewMessages(t *testing.T) {
	events := []domain.DomainEvent{
		newSessionLogged(uuid.New(), 1),
		newSessionLogged(uuid.New(), 2),
	}

	msgs, err := NewMessages(events)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, events[1].EventID(), msgs[1].EventID)
}

func TestMessage_CanRetry(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		maxRetries int
		want       bool
	}{
		{"below max", 2, 5, true},
		{"fresh message", 0, 1, true},
		{"at max", 5, 5, false},
		{"past max", 10, 5, false},
		{"retries disabled", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{RetryCount: tt.retryCount}
			assert.Equal(t, tt.want, msg.CanRetry(tt.maxRetries))
		})
	}
}
