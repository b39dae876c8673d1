package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"shield/contexts/governance/voting-engine/ports"
)

// newProposalEnvelope builds canonical envelopes for proposal lifecycle
// events, partitioned by proposal id so per-proposal consumers see votes and
// resolution in order.
func newProposalEnvelope(
	eventID string,
	eventType string,
	proposalID uint64,
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
		SourceService:    "voting-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "proposal_id",
		PartitionKey:     strconv.FormatUint(proposalID, 10),
		Data:             payload,
	}, nil
}
