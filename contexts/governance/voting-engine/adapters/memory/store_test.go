package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"shield/contexts/governance/voting-engine/domain/entities"
	domainerrors "shield/contexts/governance/voting-engine/domain/errors"
)

func TestMutateProposalRollsBackOnError(t *testing.T) {
	store := NewStore()
	proposal, err := store.CreateProposal(context.Background(), "title", "desc", "alice.near", time.Now().UTC())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	boom := errors.New("mutation rejected")
	_, err = store.MutateProposal(context.Background(), proposal.ProposalID, func(p *entities.Proposal) error {
		p.VotesFor = 99
		p.Voters = append(p.Voters, "alice.near")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}

	stored, found, err := store.GetProposal(context.Background(), proposal.ProposalID)
	if err != nil || !found {
		t.Fatalf("get failed: %v", err)
	}
	if stored.VotesFor != 0 || len(stored.Voters) != 0 {
		t.Fatalf("failed mutation persisted: %+v", stored)
	}
}

func TestMutateMissingProposal(t *testing.T) {
	store := NewStore()
	_, err := store.MutateProposal(context.Background(), 42, func(*entities.Proposal) error { return nil })
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected proposal not found, got %v", err)
	}
}

func TestGetProposalReturnsIsolatedCopy(t *testing.T) {
	store := NewStore()
	proposal, err := store.CreateProposal(context.Background(), "title", "desc", "alice.near", time.Now().UTC())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := store.MutateProposal(context.Background(), proposal.ProposalID, func(p *entities.Proposal) error {
		p.Voters = append(p.Voters, "alice.near")
		return nil
	}); err != nil {
		t.Fatalf("mutate failed: %v", err)
	}

	copy1, _, _ := store.GetProposal(context.Background(), proposal.ProposalID)
	copy1.Voters[0] = "tampered"

	copy2, _, _ := store.GetProposal(context.Background(), proposal.ProposalID)
	if copy2.Voters[0] != "alice.near" {
		t.Fatalf("stored state shares backing array with caller copy")
	}
}
