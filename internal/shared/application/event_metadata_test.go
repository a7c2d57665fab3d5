package application

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordedEvent struct {
	domain.BaseEvent
}

func TestNewEventMetadata(t *testing.T) {
	userID := uuid.New()

	t.Run("uses correlation id from context", func(t *testing.T) {
		correlationID := uuid.New()
		ctx := WithCorrelationID(context.Background(), correlationID)

		metadata := NewEventMetadata(ctx, userID)

		assert.Equal(t, correlationID, metadata.CorrelationID)
		assert.Equal(t, userID, metadata.UserID)
		assert.NotEqual(t, uuid.Nil, metadata.CausationID)
	})

	t.Run("generates correlation id when absent", func(t *testing.T) {
		metadata := NewEventMetadata(context.Background(), userID)
		assert.NotEqual(t, uuid.Nil, metadata.CorrelationID)
	})
}

func TestApplyEventMetadata(t *testing.T) {
	metadata := domain.EventMetadata{UserID: uuid.New(), CorrelationID: uuid.New()}
	first := &recordedEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "Habit", "habits.habit.created")}
	second := &recordedEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "Habit", "habits.habit.updated")}

	ApplyEventMetadata([]domain.DomainEvent{first, second}, metadata)

	assert.Equal(t, metadata, first.Metadata())
	assert.Equal(t, metadata, second.Metadata())
}
