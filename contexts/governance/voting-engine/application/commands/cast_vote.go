package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "shield/contexts/governance/voting-engine/application"
	"shield/contexts/governance/voting-engine/domain/entities"
	domainerrors "shield/contexts/governance/voting-engine/domain/errors"
	"shield/contexts/governance/voting-engine/ports"
)

// CastVoteCommand is the transport-agnostic input for one ballot.
type CastVoteCommand struct {
	VoterID    string
	ProposalID uint64
	InFavor    bool
}

// CastVoteResult carries the proposal after the vote plus whether this vote
// was the one that resolved it.
type CastVoteResult struct {
	Proposal entities.Proposal
	Resolved bool
}

// CastVoteUseCase records holder ballots. The quorum denominator is the live
// holder count at the moment of the vote, so revocations and new mints shift
// the bar for proposals still active.
type CastVoteUseCase struct {
	Proposals   ports.ProposalRepository
	Holders     ports.HolderDirectory
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(u.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	if voterID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	holder, err := u.Holders.IsHolder(ctx, voterID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !holder {
		logger.Warn("vote rejected for non-holder",
			"event", "voting_vote_rejected",
			"module", "governance/voting-engine",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"voter_id", voterID,
		)
		return CastVoteResult{}, domainerrors.ErrNotTokenHolder
	}

	holderCount, err := u.Holders.LiveHolderCount(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	quorum := entities.Quorum(holderCount)
	now := u.now()

	resolved := false
	proposal, err := u.Proposals.MutateProposal(ctx, cmd.ProposalID, func(p *entities.Proposal) error {
		var voteErr error
		resolved, voteErr = p.CastVote(voterID, cmd.InFavor, quorum, now)
		return voteErr
	})
	if err != nil {
		return CastVoteResult{}, err
	}

	if err := u.appendVoteEvent(ctx, "proposal.vote_cast", proposal, map[string]any{
		"voter_id": voterID,
		"in_favor": cmd.InFavor,
	}); err != nil {
		return CastVoteResult{}, err
	}
	if resolved {
		if err := u.appendVoteEvent(ctx, "proposal.resolved", proposal, map[string]any{
			"votes_for":     proposal.VotesFor,
			"votes_against": proposal.VotesAgainst,
			"quorum":        quorum,
		}); err != nil {
			return CastVoteResult{}, err
		}
	}

	logger.Info("vote recorded",
		"event", "voting_vote_recorded",
		"module", "governance/voting-engine",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"voter_id", voterID,
		"in_favor", cmd.InFavor,
		"status", string(proposal.Status),
		"quorum", quorum,
	)
	return CastVoteResult{Proposal: proposal, Resolved: resolved}, nil
}

func (u CastVoteUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (u CastVoteUseCase) appendVoteEvent(
	ctx context.Context,
	eventType string,
	proposal entities.Proposal,
	extra map[string]any,
) error {
	if u.Outbox == nil {
		return nil
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	now := u.now()
	data := map[string]any{
		"proposal_id": proposal.ProposalID,
		"status":      string(proposal.Status),
		"occurred_at": now.Format(time.RFC3339),
	}
	for key, value := range extra {
		data[key] = value
	}
	envelope, err := newProposalEnvelope(eventID, eventType, proposal.ProposalID, now, data)
	if err != nil {
		return err
	}
	return u.Outbox.AppendOutbox(ctx, envelope)
}
