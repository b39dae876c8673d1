package ports

import (
	"context"
	"encoding/json"
	"time"

	"shield/contexts/governance/voting-engine/domain/entities"
)

// ProposalRepository is the proposal slice of the shared governance state
// container. Mutating methods are atomic.
type ProposalRepository interface {
	// CreateProposal allocates the next proposal id, starting at zero, and
	// stores the proposal in active status.
	CreateProposal(ctx context.Context, title string, description string, proposer string, now time.Time) (entities.Proposal, error)
	GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, bool, error)
	// MutateProposal applies fn to the stored proposal under exclusive access
	// and persists the result only when fn returns nil.
	MutateProposal(ctx context.Context, proposalID uint64, fn func(*entities.Proposal) error) (entities.Proposal, error)
	// ListProposals returns every proposal in ascending id order.
	ListProposals(ctx context.Context) ([]entities.Proposal, error)
}

// HolderDirectory exposes the membership registry facts the voting engine
// needs: whether an account currently holds a token and how many live
// holders exist. Both are read at vote time.
type HolderDirectory interface {
	IsHolder(ctx context.Context, accountID string) (bool, error)
	LiveHolderCount(ctx context.Context) (int, error)
}

// EventEnvelope is the canonical event shape appended to the outbox.
type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// OutboxMessage is a persisted outbox row awaiting relay.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
