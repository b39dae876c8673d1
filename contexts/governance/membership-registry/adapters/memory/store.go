package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory registry state container. One mutex serializes all
// access, which gives every repository call the all-or-nothing semantics the
// use cases rely on.
type Store struct {
	mu sync.RWMutex

	cohortID      string
	tokens        map[string]entities.MembershipToken
	cohortMembers map[string]map[string]struct{}
	nextSequence  uint64
	mintingRound  uint64
	roundOrder    uint64
	outbox        map[string]outboxRecord
}

func NewStore(cohortID string) *Store {
	return &Store{
		cohortID:      strings.TrimSpace(cohortID),
		tokens:        make(map[string]entities.MembershipToken),
		cohortMembers: make(map[string]map[string]struct{}),
		nextSequence:  1,
		mintingRound:  1,
		outbox:        make(map[string]outboxRecord),
	}
}

func (s *Store) MintToken(
	_ context.Context,
	accountID string,
	metadata entities.TokenMetadata,
	now time.Time,
) (entities.MembershipToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID = strings.TrimSpace(accountID)
	if _, exists := s.tokens[accountID]; exists {
		return entities.MembershipToken{}, domainerrors.ErrDuplicateToken
	}

	// Counters move only after the duplicate check, so a rejected mint leaves
	// the issuance sequence exactly where it was.
	sequence := s.nextSequence
	s.nextSequence++
	s.roundOrder++

	token := entities.MembershipToken{
		AccountID:        accountID,
		Metadata:         metadata,
		CohortID:         s.cohortID,
		IssuanceSequence: sequence,
		MintingRound:     s.mintingRound,
		RoundOrder:       s.roundOrder,
		UniqueHash:       entities.ComputeUniqueHash(s.cohortID, sequence),
		IssuedAt:         now.UTC(),
		UpdatedAt:        now.UTC(),
	}
	s.tokens[accountID] = token

	members, ok := s.cohortMembers[s.cohortID]
	if !ok {
		members = make(map[string]struct{})
		s.cohortMembers[s.cohortID] = members
	}
	members[accountID] = struct{}{}

	return token, nil
}

func (s *Store) GetToken(_ context.Context, accountID string) (entities.MembershipToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[strings.TrimSpace(accountID)]
	return token, ok, nil
}

func (s *Store) RemoveToken(_ context.Context, accountID string) (entities.MembershipToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID = strings.TrimSpace(accountID)
	token, ok := s.tokens[accountID]
	if !ok {
		return entities.MembershipToken{}, domainerrors.ErrTokenNotFound
	}
	delete(s.tokens, accountID)
	if members, ok := s.cohortMembers[token.CohortID]; ok {
		delete(members, accountID)
		if len(members) == 0 {
			delete(s.cohortMembers, token.CohortID)
		}
	}
	return token, nil
}

func (s *Store) MutateToken(
	_ context.Context,
	accountID string,
	fn func(*entities.MembershipToken) error,
) (entities.MembershipToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID = strings.TrimSpace(accountID)
	token, ok := s.tokens[accountID]
	if !ok {
		return entities.MembershipToken{}, domainerrors.ErrTokenNotFound
	}
	if err := fn(&token); err != nil {
		return entities.MembershipToken{}, err
	}
	s.tokens[accountID] = token
	return token, nil
}

func (s *Store) AdvanceMintingRound(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mintingRound++
	s.roundOrder = 0
	return s.mintingRound, nil
}

func (s *Store) IsHolder(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[strings.TrimSpace(accountID)]
	return ok, nil
}

func (s *Store) HolderCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens), nil
}

// CohortMemberCount reports per-cohort tracking state; used by tests and
// operational tooling rather than the command path.
func (s *Store) CohortMemberCount(cohortID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cohortMembers[strings.TrimSpace(cohortID)])
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
