package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type CastVoteRequest struct {
	InFavor bool `json:"in_favor"`
}

type ProposalResponse struct {
	ProposalID   uint64     `json:"proposal_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Proposer     string     `json:"proposer"`
	VotesFor     uint64     `json:"votes_for"`
	VotesAgainst uint64     `json:"votes_against"`
	VoterCount   int        `json:"voter_count"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

type CastVoteResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Resolved bool             `json:"resolved"`
}

type ProposalListResponse struct {
	Items []ProposalResponse `json:"items"`
}
