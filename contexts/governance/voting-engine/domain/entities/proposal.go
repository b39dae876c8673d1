package entities

import (
	"strings"
	"time"

	domainerrors "shield/contexts/governance/voting-engine/domain/errors"
)

type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusPassed   ProposalStatus = "passed"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// Proposal is a governance ballot. Status moves one way: active to passed or
// rejected, decided the moment the vote tally reaches quorum.
type Proposal struct {
	ProposalID   uint64
	Title        string
	Description  string
	Proposer     string
	VotesFor     uint64
	VotesAgainst uint64
	Voters       []string
	Status       ProposalStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
}

func (p Proposal) HasVoted(accountID string) bool {
	accountID = strings.TrimSpace(accountID)
	for _, voter := range p.Voters {
		if voter == accountID {
			return true
		}
	}
	return false
}

// Quorum is the smallest strict majority of the live holder population.
func Quorum(holderCount int) uint64 {
	if holderCount < 0 {
		holderCount = 0
	}
	return uint64(holderCount)/2 + 1
}

// CastVote records one ballot and resolves the proposal when the tally
// reaches quorum. More votes in favor passes the proposal; anything else,
// ties included, rejects it. Returns true when this vote resolved it.
func (p *Proposal) CastVote(voterID string, inFavor bool, quorum uint64, now time.Time) (bool, error) {
	if p.Status != ProposalStatusActive {
		return false, domainerrors.ErrProposalNotActive
	}
	voterID = strings.TrimSpace(voterID)
	if p.HasVoted(voterID) {
		return false, domainerrors.ErrAlreadyVoted
	}

	if inFavor {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}
	p.Voters = append(p.Voters, voterID)
	p.UpdatedAt = now.UTC()

	if p.VotesFor+p.VotesAgainst < quorum {
		return false, nil
	}
	if p.VotesFor > p.VotesAgainst {
		p.Status = ProposalStatusPassed
	} else {
		p.Status = ProposalStatusRejected
	}
	resolvedAt := now.UTC()
	p.ResolvedAt = &resolvedAt
	return true, nil
}
