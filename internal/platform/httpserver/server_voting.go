package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	votingerrors "shield/contexts/governance/voting-engine/domain/errors"
	votinghttp "shield/contexts/governance/voting-engine/transport/http"
)

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{Code: code, Message: message})
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrProposalNotFound):
		writeVotingError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrProposalNotActive):
		writeVotingError(w, http.StatusConflict, "proposal_not_active", err.Error())
	case errors.Is(err, votingerrors.ErrAlreadyVoted):
		writeVotingError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, votingerrors.ErrNotTokenHolder):
		writeVotingError(w, http.StatusForbidden, "not_token_holder", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidProposalInput),
		errors.Is(err, votingerrors.ErrInvalidVoteInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, votingerrors.ErrConflict):
		writeVotingError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireVotingCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	callerID := resolveCaller(r)
	if callerID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return "", false
	}
	return callerID, true
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireVotingCaller(w, r)
	if !ok {
		return
	}
	var req votinghttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CreateProposalHandler(r.Context(), callerID, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireVotingCaller(w, r)
	if !ok {
		return
	}
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	var req votinghttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), callerID, proposalID, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.GetProposalHandler(r.Context(), proposalID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.ListProposalsHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
