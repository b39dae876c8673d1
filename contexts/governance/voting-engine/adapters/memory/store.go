package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"shield/contexts/governance/voting-engine/domain/entities"
	domainerrors "shield/contexts/governance/voting-engine/domain/errors"
	"shield/contexts/governance/voting-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory proposal state container. One mutex serializes all
// access so each repository call is all-or-nothing.
type Store struct {
	mu sync.RWMutex

	proposals      map[uint64]entities.Proposal
	nextProposalID uint64
	outbox         map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		proposals: make(map[uint64]entities.Proposal),
		outbox:    make(map[string]outboxRecord),
	}
}

func (s *Store) CreateProposal(
	_ context.Context,
	title string,
	description string,
	proposer string,
	now time.Time,
) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposalID := s.nextProposalID
	s.nextProposalID++

	proposal := entities.Proposal{
		ProposalID:  proposalID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Proposer:    strings.TrimSpace(proposer),
		Status:      entities.ProposalStatusActive,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	s.proposals[proposalID] = proposal
	return proposal, nil
}

func (s *Store) GetProposal(_ context.Context, proposalID uint64) (entities.Proposal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[proposalID]
	return cloneProposal(proposal), ok, nil
}

func (s *Store) MutateProposal(
	_ context.Context,
	proposalID uint64,
	fn func(*entities.Proposal) error,
) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.proposals[proposalID]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	proposal := cloneProposal(stored)
	if err := fn(&proposal); err != nil {
		return entities.Proposal{}, err
	}
	s.proposals[proposalID] = proposal
	return cloneProposal(proposal), nil
}

func (s *Store) ListProposals(_ context.Context) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		items = append(items, cloneProposal(proposal))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProposalID < items[j].ProposalID
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// cloneProposal copies the voter slice so callers never share backing arrays
// with stored state.
func cloneProposal(proposal entities.Proposal) entities.Proposal {
	cloned := proposal
	cloned.Voters = append([]string(nil), proposal.Voters...)
	if proposal.ResolvedAt != nil {
		resolvedAt := *proposal.ResolvedAt
		cloned.ResolvedAt = &resolvedAt
	}
	return cloned
}
