package commands

import (
	"context"
	"errors"
	"testing"

	"shield/contexts/governance/voting-engine/adapters/memory"
	"shield/contexts/governance/voting-engine/domain/entities"
	domainerrors "shield/contexts/governance/voting-engine/domain/errors"
)

type holderDirectory struct {
	holders map[string]bool
}

func newHolderDirectory(accounts ...string) *holderDirectory {
	dir := &holderDirectory{holders: make(map[string]bool)}
	for _, account := range accounts {
		dir.holders[account] = true
	}
	return dir
}

func (d *holderDirectory) IsHolder(_ context.Context, accountID string) (bool, error) {
	return d.holders[accountID], nil
}

func (d *holderDirectory) LiveHolderCount(_ context.Context) (int, error) {
	return len(d.holders), nil
}

func newEngine(store *memory.Store, holders *holderDirectory) (CreateProposalUseCase, CastVoteUseCase) {
	create := CreateProposalUseCase{
		Proposals:   store,
		Holders:     holders,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
	}
	vote := CastVoteUseCase{
		Proposals:   store,
		Holders:     holders,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
	}
	return create, vote
}

func mustCreate(t *testing.T, create CreateProposalUseCase, proposer string) entities.Proposal {
	t.Helper()
	proposal, err := create.Execute(context.Background(), CreateProposalCommand{
		ProposerID:  proposer,
		Title:       "expand the council",
		Description: "add two seats",
	})
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}
	return proposal
}

func TestCreateProposalAssignsSequentialIDs(t *testing.T) {
	store := memory.NewStore()
	holders := newHolderDirectory("alice.near")
	create, _ := newEngine(store, holders)

	first := mustCreate(t, create, "alice.near")
	second := mustCreate(t, create, "alice.near")
	if first.ProposalID != 0 || second.ProposalID != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", first.ProposalID, second.ProposalID)
	}
	if first.Status != entities.ProposalStatusActive {
		t.Fatalf("new proposal not active: %s", first.Status)
	}

	listed, err := store.ListProposals(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 || listed[0].ProposalID != 0 || listed[1].ProposalID != 1 {
		t.Fatalf("list out of order: %+v", listed)
	}
}

func TestCreateProposalRequiresHolder(t *testing.T) {
	store := memory.NewStore()
	create, _ := newEngine(store, newHolderDirectory("alice.near"))

	_, err := create.Execute(context.Background(), CreateProposalCommand{
		ProposerID: "outsider.near",
		Title:      "anything",
	})
	if !errors.Is(err, domainerrors.ErrNotTokenHolder) {
		t.Fatalf("expected not token holder, got %v", err)
	}
	listed, _ := store.ListProposals(context.Background())
	if len(listed) != 0 {
		t.Fatalf("rejected proposal was stored")
	}
}

func TestVoteRequiresHolderAndExistingProposal(t *testing.T) {
	store := memory.NewStore()
	holders := newHolderDirectory("alice.near")
	create, vote := newEngine(store, holders)
	proposal := mustCreate(t, create, "alice.near")

	_, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "outsider.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	})
	if !errors.Is(err, domainerrors.ErrNotTokenHolder) {
		t.Fatalf("expected not token holder, got %v", err)
	}

	_, err = vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "alice.near",
		ProposalID: 99,
		InFavor:    true,
	})
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected proposal not found, got %v", err)
	}
}

func TestSingleHolderResolvesImmediately(t *testing.T) {
	store := memory.NewStore()
	holders := newHolderDirectory("alice.near")
	create, vote := newEngine(store, holders)
	proposal := mustCreate(t, create, "alice.near")

	result, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "alice.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if !result.Resolved {
		t.Fatalf("single holder vote did not resolve")
	}
	if result.Proposal.Status != entities.ProposalStatusPassed {
		t.Fatalf("expected passed, got %s", result.Proposal.Status)
	}
	if result.Proposal.ResolvedAt == nil {
		t.Fatalf("resolved proposal missing resolution time")
	}
}

func TestTieRejectsProposal(t *testing.T) {
	store := memory.NewStore()
	holders := newHolderDirectory("alice.near", "bob.near")
	create, vote := newEngine(store, holders)
	proposal := mustCreate(t, create, "alice.near")

	first, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "alice.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	})
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if first.Resolved {
		t.Fatalf("resolved before quorum: %+v", first.Proposal)
	}

	second, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "bob.near",
		ProposalID: proposal.ProposalID,
		InFavor:    false,
	})
	if err != nil {
		t.Fatalf("second vote failed: %v", err)
	}
	if !second.Resolved || second.Proposal.Status != entities.ProposalStatusRejected {
		t.Fatalf("tie must reject, got %+v", second.Proposal)
	}
}

func TestMajorityPassesAndFurtherVotesFail(t *testing.T) {
	store := memory.NewStore()
	holders := newHolderDirectory("alice.near", "bob.near", "carol.near")
	create, vote := newEngine(store, holders)
	proposal := mustCreate(t, create, "alice.near")

	if _, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "alice.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	}); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	second, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "bob.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	})
	if err != nil {
		t.Fatalf("second vote failed: %v", err)
	}
	if !second.Resolved || second.Proposal.Status != entities.ProposalStatusPassed {
		t.Fatalf("expected pass at quorum, got %+v", second.Proposal)
	}

	_, err = vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "carol.near",
		ProposalID: proposal.ProposalID,
		InFavor:    false,
	})
	if !errors.Is(err, domainerrors.ErrProposalNotActive) {
		t.Fatalf("expected proposal not active, got %v", err)
	}

	stored, found, err := store.GetProposal(context.Background(), proposal.ProposalID)
	if err != nil || !found {
		t.Fatalf("get failed: %v", err)
	}
	if stored.VotesFor != 2 || stored.VotesAgainst != 0 {
		t.Fatalf("rejected vote mutated the tally: %d/%d", stored.VotesFor, stored.VotesAgainst)
	}
}

func TestDoubleVoteRejectedWithoutMutation(t *testing.T) {
	store := memory.NewStore()
	holders := newHolderDirectory("alice.near", "bob.near", "carol.near")
	create, vote := newEngine(store, holders)
	proposal := mustCreate(t, create, "alice.near")

	if _, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "alice.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	_, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "alice.near",
		ProposalID: proposal.ProposalID,
		InFavor:    false,
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}

	stored, _, err := store.GetProposal(context.Background(), proposal.ProposalID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.VotesFor != 1 || stored.VotesAgainst != 0 || len(stored.Voters) != 1 {
		t.Fatalf("double vote mutated the tally: %+v", stored)
	}
}

func TestQuorumTracksLiveHolderCount(t *testing.T) {
	store := memory.NewStore()
	holders := newHolderDirectory("alice.near", "bob.near", "carol.near", "dave.near", "erin.near")
	create, vote := newEngine(store, holders)
	proposal := mustCreate(t, create, "alice.near")

	// Quorum is 3 while five holders are live, so two votes resolve nothing.
	if _, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "alice.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	result, err := vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "bob.near",
		ProposalID: proposal.ProposalID,
		InFavor:    true,
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if result.Resolved {
		t.Fatalf("resolved below quorum")
	}

	// Two revocations shrink the denominator to three, quorum 2, so the next
	// vote is evaluated against the smaller bar and resolves the ballot.
	delete(holders.holders, "dave.near")
	delete(holders.holders, "erin.near")

	result, err = vote.Execute(context.Background(), CastVoteCommand{
		VoterID:    "carol.near",
		ProposalID: proposal.ProposalID,
		InFavor:    false,
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if !result.Resolved || result.Proposal.Status != entities.ProposalStatusPassed {
		t.Fatalf("expected pass on shrunken quorum, got %+v", result.Proposal)
	}
}

func TestQuorumHelper(t *testing.T) {
	cases := map[int]uint64{0: 1, 1: 1, 2: 2, 3: 2, 4: 3, 5: 3}
	for holders, want := range cases {
		if got := entities.Quorum(holders); got != want {
			t.Fatalf("quorum(%d) = %d, want %d", holders, got, want)
		}
	}
}
