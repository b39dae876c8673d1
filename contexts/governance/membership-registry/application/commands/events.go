package commands

import (
	"encoding/json"
	"time"

	"shield/contexts/governance/membership-registry/ports"
)

// newRegistryEnvelope builds canonical envelopes for token lifecycle events.
// Events are partitioned by account so per-holder consumers see stable order.
func newRegistryEnvelope(
	eventID string,
	eventType string,
	accountID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "membership-registry",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "account_id",
		PartitionKey:     accountID,
		Data:             payload,
	}, nil
}
