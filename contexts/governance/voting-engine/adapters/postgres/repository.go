package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shield/contexts/governance/voting-engine/domain/entities"
	domainerrors "shield/contexts/governance/voting-engine/domain/errors"
	"shield/contexts/governance/voting-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	votingStateRowID = 1
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateProposal(
	ctx context.Context,
	title string,
	description string,
	proposer string,
	now time.Time,
) (entities.Proposal, error) {
	var created entities.Proposal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := lockVotingState(tx)
		if err != nil {
			return err
		}
		proposalID := state.NextProposalID
		state.NextProposalID++
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		created = entities.Proposal{
			ProposalID:  proposalID,
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(description),
			Proposer:    strings.TrimSpace(proposer),
			Status:      entities.ProposalStatusActive,
			CreatedAt:   now.UTC(),
			UpdatedAt:   now.UTC(),
		}
		row, err := proposalModelFromEntity(created)
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return entities.Proposal{}, r.logError("voting_repo_create_proposal_failed", err,
			"proposer", strings.TrimSpace(proposer),
		)
	}
	return created, nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, false, nil
		}
		return entities.Proposal{}, false, r.logError("voting_repo_get_proposal_failed", err, "proposal_id", proposalID)
	}
	proposal, err := row.toEntity()
	if err != nil {
		return entities.Proposal{}, false, r.logError("voting_repo_decode_proposal_failed", err, "proposal_id", proposalID)
	}
	return proposal, true, nil
}

func (r *Repository) MutateProposal(
	ctx context.Context,
	proposalID uint64,
	fn func(*entities.Proposal) error,
) (entities.Proposal, error) {
	var mutated entities.Proposal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row proposalModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", proposalID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProposalNotFound
			}
			return err
		}
		proposal, err := row.toEntity()
		if err != nil {
			return err
		}
		if err := fn(&proposal); err != nil {
			return err
		}
		updated, err := proposalModelFromEntity(proposal)
		if err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		mutated = proposal
		return nil
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	return mutated, nil
}

func (r *Repository) ListProposals(ctx context.Context) ([]entities.Proposal, error) {
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_proposals_failed", err)
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		proposal, err := row.toEntity()
		if err != nil {
			return nil, r.logError("voting_repo_decode_proposal_failed", err, "proposal_id", row.ID)
		}
		items = append(items, proposal)
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("voting_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("voting_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		return r.logError("voting_repo_append_outbox_load_existing_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("voting_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return err
}

func lockVotingState(tx *gorm.DB) (votingStateModel, error) {
	var state votingStateModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", votingStateRowID).
		First(&state).Error
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return votingStateModel{}, err
	}
	state = votingStateModel{
		ID:             votingStateRowID,
		NextProposalID: 0,
	}
	create := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&state)
	if create.Error != nil {
		return votingStateModel{}, create.Error
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", votingStateRowID).
		First(&state).Error
	return state, err
}

type votingStateModel struct {
	ID             int    `gorm:"column:id;primaryKey"`
	NextProposalID uint64 `gorm:"column:next_proposal_id"`
}

func (votingStateModel) TableName() string {
	return "voting_state"
}

type proposalModel struct {
	ID           uint64     `gorm:"column:id;primaryKey"`
	Title        string     `gorm:"column:title"`
	Description  string     `gorm:"column:description"`
	Proposer     string     `gorm:"column:proposer"`
	VotesFor     uint64     `gorm:"column:votes_for"`
	VotesAgainst uint64     `gorm:"column:votes_against"`
	Voters       []byte     `gorm:"column:voters"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at"`
}

func (proposalModel) TableName() string {
	return "proposals"
}

func proposalModelFromEntity(proposal entities.Proposal) (proposalModel, error) {
	voters, err := json.Marshal(proposal.Voters)
	if err != nil {
		return proposalModel{}, err
	}
	return proposalModel{
		ID:           proposal.ProposalID,
		Title:        proposal.Title,
		Description:  proposal.Description,
		Proposer:     proposal.Proposer,
		VotesFor:     proposal.VotesFor,
		VotesAgainst: proposal.VotesAgainst,
		Voters:       voters,
		Status:       string(proposal.Status),
		CreatedAt:    proposal.CreatedAt.UTC(),
		UpdatedAt:    proposal.UpdatedAt.UTC(),
		ResolvedAt:   normalizeOptionalTime(proposal.ResolvedAt),
	}, nil
}

func (m proposalModel) toEntity() (entities.Proposal, error) {
	var voters []string
	if len(m.Voters) > 0 {
		if err := json.Unmarshal(m.Voters, &voters); err != nil {
			return entities.Proposal{}, err
		}
	}
	return entities.Proposal{
		ProposalID:   m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Proposer:     m.Proposer,
		VotesFor:     m.VotesFor,
		VotesAgainst: m.VotesAgainst,
		Voters:       voters,
		Status:       entities.ProposalStatus(m.Status),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
		ResolvedAt:   normalizeOptionalTime(m.ResolvedAt),
	}, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "voting_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ProposalRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
