package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"
)

func TestStoreTracksCohortMembership(t *testing.T) {
	store := NewStore("genesis")
	now := time.Now().UTC()

	if _, err := store.MintToken(context.Background(), "alice.near", entities.TokenMetadata{GovernanceRole: "member"}, now); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := store.MintToken(context.Background(), "bob.near", entities.TokenMetadata{GovernanceRole: "member"}, now); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if count := store.CohortMemberCount("genesis"); count != 2 {
		t.Fatalf("expected 2 cohort members, got %d", count)
	}

	if _, err := store.RemoveToken(context.Background(), "alice.near"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if count := store.CohortMemberCount("genesis"); count != 1 {
		t.Fatalf("expected 1 cohort member after removal, got %d", count)
	}
}

func TestMutateTokenRollsBackOnError(t *testing.T) {
	store := NewStore("genesis")
	if _, err := store.MintToken(context.Background(), "alice.near", entities.TokenMetadata{GovernanceRole: "member"}, time.Now().UTC()); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	boom := errors.New("mutation rejected")
	_, err := store.MutateToken(context.Background(), "alice.near", func(token *entities.MembershipToken) error {
		token.Metadata.Description = "should not persist"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}

	token, found, err := store.GetToken(context.Background(), "alice.near")
	if err != nil || !found {
		t.Fatalf("get failed: %v", err)
	}
	if token.Metadata.Description != "" {
		t.Fatalf("failed mutation persisted: %q", token.Metadata.Description)
	}
}

func TestOutboxAppendIsIdempotentPerEventID(t *testing.T) {
	store := NewStore("genesis")
	envelope := ports.EventEnvelope{
		EventID:      "evt-1",
		EventType:    "token.minted",
		PartitionKey: "alice.near",
	}

	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("replayed append failed: %v", err)
	}

	conflicting := envelope
	conflicting.PartitionKey = "bob.near"
	if err := store.AppendOutbox(context.Background(), conflicting); !errors.Is(err, domainerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending row, got %d", len(pending))
	}

	if err := store.MarkOutboxPublished(context.Background(), "evt-1", time.Now().UTC()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %d", len(pending))
	}
}
