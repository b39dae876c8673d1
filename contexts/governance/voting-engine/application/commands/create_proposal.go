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

// CreateProposalCommand is the transport-agnostic input for opening a ballot.
type CreateProposalCommand struct {
	ProposerID  string
	Title       string
	Description string
}

// CreateProposalUseCase opens governance ballots. Only current token holders
// may propose; the holder check happens before any state is touched.
type CreateProposalUseCase struct {
	Proposals   ports.ProposalRepository
	Holders     ports.HolderDirectory
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateProposalUseCase) Execute(ctx context.Context, cmd CreateProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(u.Logger)
	proposerID := strings.TrimSpace(cmd.ProposerID)
	title := strings.TrimSpace(cmd.Title)

	if proposerID == "" || title == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
	}

	holder, err := u.Holders.IsHolder(ctx, proposerID)
	if err != nil {
		return entities.Proposal{}, err
	}
	if !holder {
		logger.Warn("proposal rejected for non-holder",
			"event", "voting_proposal_rejected",
			"module", "governance/voting-engine",
			"layer", "application",
			"proposer_id", proposerID,
		)
		return entities.Proposal{}, domainerrors.ErrNotTokenHolder
	}

	proposal, err := u.Proposals.CreateProposal(ctx, title, strings.TrimSpace(cmd.Description), proposerID, u.now())
	if err != nil {
		return entities.Proposal{}, err
	}

	if err := u.appendProposalEvent(ctx, "proposal.created", proposal, map[string]any{
		"proposer_id": proposal.Proposer,
		"title":       proposal.Title,
	}); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal created",
		"event", "voting_proposal_created",
		"module", "governance/voting-engine",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"proposer_id", proposal.Proposer,
	)
	return proposal, nil
}

func (u CreateProposalUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (u CreateProposalUseCase) appendProposalEvent(
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
