package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleAggregate struct {
	domain.BaseAggregateRoot
}

type sampleEvent struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func TestBaseAggregateRoot_RecordsAndClearsEvents(t *testing.T) {
	agg := &sampleAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot()}
	assert.NotEqual(t, uuid.Nil, agg.ID())
	assert.Empty(t, agg.DomainEvents())

	agg.AddDomainEvent(&sampleEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "Sample", "test.sample.created")})
	agg.AddDomainEvent(&sampleEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "Sample", "test.sample.updated")})
	require.Len(t, agg.DomainEvents(), 2)
	assert.Equal(t, "test.sample.updated", agg.DomainEvents()[1].RoutingKey())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseEvent_JSONCarriesEnvelope(t *testing.T) {
	aggregateID := uuid.New()
	userID := uuid.New()
	event := &sampleEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Sample", "test.sample.created"),
		Name:      "reading",
	}
	event.SetMetadata(domain.EventMetadata{UserID: userID})

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, aggregateID.String(), decoded["aggregate_id"])
	assert.Equal(t, "test.sample.created", decoded["routing_key"])
	assert.Equal(t, "reading", decoded["name"])
	metadata, ok := decoded["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, userID.String(), metadata["user_id"])
}

func TestBaseEntity_Touch(t *testing.T) {
	entity := domain.NewBaseEntity()
	before := entity.UpdatedAt()
	entity.Touch()
	assert.False(t, entity.UpdatedAt().Before(before))
	assert.Equal(t, entity.CreatedAt(), domain.RehydrateBaseEntity(entity.ID(), entity.CreatedAt(), entity.UpdatedAt()).CreatedAt())
}
