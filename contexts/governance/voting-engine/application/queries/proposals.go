package queries

import (
	"context"
	"log/slog"
	"time"

	"shield/contexts/governance/voting-engine/domain/entities"
	domainerrors "shield/contexts/governance/voting-engine/domain/errors"
	"shield/contexts/governance/voting-engine/ports"
)

// ProposalView is the read-side projection of one ballot.
type ProposalView struct {
	ProposalID   uint64
	Title        string
	Description  string
	Proposer     string
	VotesFor     uint64
	VotesAgainst uint64
	VoterCount   int
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
}

// ProposalQueries answers proposal reads.
type ProposalQueries struct {
	Proposals ports.ProposalRepository
	Logger    *slog.Logger
}

func (q ProposalQueries) Get(ctx context.Context, proposalID uint64) (ProposalView, error) {
	proposal, found, err := q.Proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return ProposalView{}, err
	}
	if !found {
		return ProposalView{}, domainerrors.ErrProposalNotFound
	}
	return toView(proposal), nil
}

// List returns every proposal in creation order.
func (q ProposalQueries) List(ctx context.Context) ([]ProposalView, error) {
	proposals, err := q.Proposals.ListProposals(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProposalView, 0, len(proposals))
	for _, proposal := range proposals {
		views = append(views, toView(proposal))
	}
	return views, nil
}

func toView(proposal entities.Proposal) ProposalView {
	return ProposalView{
		ProposalID:   proposal.ProposalID,
		Title:        proposal.Title,
		Description:  proposal.Description,
		Proposer:     proposal.Proposer,
		VotesFor:     proposal.VotesFor,
		VotesAgainst: proposal.VotesAgainst,
		VoterCount:   len(proposal.Voters),
		Status:       string(proposal.Status),
		CreatedAt:    proposal.CreatedAt,
		UpdatedAt:    proposal.UpdatedAt,
		ResolvedAt:   proposal.ResolvedAt,
	}
}
