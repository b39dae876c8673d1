package httpadapter

import (
	"context"
	"log/slog"

	"shield/contexts/governance/voting-engine/application/commands"
	"shield/contexts/governance/voting-engine/application/queries"
	"shield/contexts/governance/voting-engine/domain/entities"
	httptransport "shield/contexts/governance/voting-engine/transport/http"
)

type Handler struct {
	CreateProposal commands.CreateProposalUseCase
	CastVote       commands.CastVoteUseCase
	Proposals      queries.ProposalQueries
	Logger         *slog.Logger
}

func (h Handler) CreateProposalHandler(
	ctx context.Context,
	callerID string,
	req httptransport.CreateProposalRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.CreateProposal.Execute(ctx, commands.CreateProposalCommand{
		ProposerID:  callerID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal), nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	callerID string,
	proposalID uint64,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.CastVote.Execute(ctx, commands.CastVoteCommand{
		VoterID:    callerID,
		ProposalID: proposalID,
		InFavor:    req.InFavor,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		Proposal: proposalResponse(result.Proposal),
		Resolved: result.Resolved,
	}, nil
}

func (h Handler) GetProposalHandler(ctx context.Context, proposalID uint64) (httptransport.ProposalResponse, error) {
	view, err := h.Proposals.Get(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return viewResponse(view), nil
}

func (h Handler) ListProposalsHandler(ctx context.Context) (httptransport.ProposalListResponse, error) {
	views, err := h.Proposals.List(ctx)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	items := make([]httptransport.ProposalResponse, 0, len(views))
	for _, view := range views {
		items = append(items, viewResponse(view))
	}
	return httptransport.ProposalListResponse{Items: items}, nil
}

func proposalResponse(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
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

func viewResponse(view queries.ProposalView) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:   view.ProposalID,
		Title:        view.Title,
		Description:  view.Description,
		Proposer:     view.Proposer,
		VotesFor:     view.VotesFor,
		VotesAgainst: view.VotesAgainst,
		VoterCount:   view.VoterCount,
		Status:       view.Status,
		CreatedAt:    view.CreatedAt,
		UpdatedAt:    view.UpdatedAt,
		ResolvedAt:   view.ResolvedAt,
	}
}
