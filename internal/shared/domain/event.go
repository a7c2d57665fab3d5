package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened in the domain.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
	Metadata() EventMetadata
}

// EventMetadata carries tracing context for events.
type EventMetadata struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
	CausationID   uuid.UUID `json:"causation_id"`
	UserID        uuid.UUID `json:"user_id"`
}

// BaseEvent implements the DomainEvent accessors. Its fields are exported in
// JSON so consumers can route on them without knowing the concrete event.
type BaseEvent struct {
	EventIDValue       uuid.UUID     `json:"event_id"`
	AggregateIDValue   uuid.UUID     `json:"aggregate_id"`
	AggregateTypeValue string        `json:"aggregate_type"`
	RoutingKeyValue    string        `json:"routing_key"`
	OccurredAtValue    time.Time     `json:"occurred_at"`
	MetadataValue      EventMetadata `json:"metadata"`
}

// NewBaseEvent creates a base event for the given aggregate.
func NewBaseEvent(aggregateID uuid.UUID, aggregateType, routingKey string) BaseEvent {
	return BaseEvent{
		EventIDValue:       uuid.New(),
		AggregateIDValue:   aggregateID,
		AggregateTypeValue: aggregateType,
		RoutingKeyValue:    routingKey,
		OccurredAtValue:    time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID      { return e.EventIDValue }
func (e BaseEvent) AggregateID() uuid.UUID  { return e.AggregateIDValue }
func (e BaseEvent) AggregateType() string   { return e.AggregateTypeValue }
func (e BaseEvent) RoutingKey() string      { return e.RoutingKeyValue }
func (e BaseEvent) OccurredAt() time.Time   { return e.OccurredAtValue }
func (e BaseEvent) Metadata() EventMetadata { return e.MetadataValue }

// SetMetadata attaches tracing metadata.
func (e *BaseEvent) SetMetadata(metadata EventMetadata) {
	e.MetadataValue = metadata
}
