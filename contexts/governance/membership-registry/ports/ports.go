package ports

import (
	"context"
	"encoding/json"
	"time"

	"shield/contexts/governance/membership-registry/domain/entities"
)

// TokenRepository is the registry's slice of the shared governance state
// container. Mutating methods are atomic: they either apply the whole change
// or leave the store untouched.
type TokenRepository interface {
	// MintToken checks the one-token-per-account invariant, allocates the
	// next issuance sequence and intra-round order, and stores the stamped
	// token. Fails with ErrDuplicateToken before any counter moves.
	MintToken(ctx context.Context, accountID string, metadata entities.TokenMetadata, now time.Time) (entities.MembershipToken, error)
	GetToken(ctx context.Context, accountID string) (entities.MembershipToken, bool, error)
	// RemoveToken deletes the token and drops the account from holder and
	// cohort tracking. The issuance sequence is never reclaimed.
	RemoveToken(ctx context.Context, accountID string) (entities.MembershipToken, error)
	// MutateToken applies fn to the stored token under exclusive access and
	// persists the result only when fn returns nil.
	MutateToken(ctx context.Context, accountID string, fn func(*entities.MembershipToken) error) (entities.MembershipToken, error)
	// AdvanceMintingRound bumps the round counter and resets the intra-round
	// order counter. Existing tokens are untouched.
	AdvanceMintingRound(ctx context.Context) (uint64, error)
	IsHolder(ctx context.Context, accountID string) (bool, error)
	HolderCount(ctx context.Context) (int, error)
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

// Signature is a detached attestation signature produced by the external
// signer collaborator.
type Signature struct {
	KeyID     string
	PublicKey []byte
	Signature []byte
}

// AttestationSigner signs ownership attestation digests. Key handling stays
// behind the port; the registry only sees the resulting signature.
type AttestationSigner interface {
	Sign(ctx context.Context, message []byte) (Signature, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
