package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	// A single counters row backs the issuance sequence and minting round.
	registryStateRowID = 1
)

type Repository struct {
	db       *gorm.DB
	cohortID string
	logger   *slog.Logger
}

func NewRepository(db *gorm.DB, cohortID string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:       db,
		cohortID: strings.TrimSpace(cohortID),
		logger:   logger,
	}
}

func (r *Repository) MintToken(
	ctx context.Context,
	accountID string,
	metadata entities.TokenMetadata,
	now time.Time,
) (entities.MembershipToken, error) {
	accountID = strings.TrimSpace(accountID)
	var minted entities.MembershipToken

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing tokenModel
		err := tx.Where("account_id = ?", accountID).First(&existing).Error
		if err == nil {
			return domainerrors.ErrDuplicateToken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		state, err := lockRegistryState(tx)
		if err != nil {
			return err
		}
		sequence := state.NextSequence
		state.NextSequence++
		state.RoundOrder++
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		minted = entities.MembershipToken{
			AccountID:        accountID,
			Metadata:         metadata,
			CohortID:         r.cohortID,
			IssuanceSequence: sequence,
			MintingRound:     state.MintingRound,
			RoundOrder:       state.RoundOrder,
			UniqueHash:       entities.ComputeUniqueHash(r.cohortID, sequence),
			IssuedAt:         now.UTC(),
			UpdatedAt:        now.UTC(),
		}
		row, err := tokenModelFromEntity(minted)
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateToken
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateToken) {
			return entities.MembershipToken{}, err
		}
		return entities.MembershipToken{}, r.logError("registry_repo_mint_failed", err, "account_id", accountID)
	}
	return minted, nil
}

func (r *Repository) GetToken(ctx context.Context, accountID string) (entities.MembershipToken, bool, error) {
	var row tokenModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.MembershipToken{}, false, nil
		}
		return entities.MembershipToken{}, false, r.logError("registry_repo_get_token_failed", err,
			"account_id", strings.TrimSpace(accountID),
		)
	}
	token, err := row.toEntity()
	if err != nil {
		return entities.MembershipToken{}, false, r.logError("registry_repo_decode_token_failed", err,
			"account_id", strings.TrimSpace(accountID),
		)
	}
	return token, true, nil
}

func (r *Repository) RemoveToken(ctx context.Context, accountID string) (entities.MembershipToken, error) {
	accountID = strings.TrimSpace(accountID)
	var removed entities.MembershipToken

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row tokenModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ?", accountID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrTokenNotFound
			}
			return err
		}
		removed, err = row.toEntity()
		if err != nil {
			return err
		}
		return tx.Where("account_id = ?", accountID).Delete(&tokenModel{}).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrTokenNotFound) {
			return entities.MembershipToken{}, err
		}
		return entities.MembershipToken{}, r.logError("registry_repo_remove_token_failed", err, "account_id", accountID)
	}
	return removed, nil
}

func (r *Repository) MutateToken(
	ctx context.Context,
	accountID string,
	fn func(*entities.MembershipToken) error,
) (entities.MembershipToken, error) {
	accountID = strings.TrimSpace(accountID)
	var mutated entities.MembershipToken

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row tokenModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ?", accountID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrTokenNotFound
			}
			return err
		}
		token, err := row.toEntity()
		if err != nil {
			return err
		}
		if err := fn(&token); err != nil {
			return err
		}
		updated, err := tokenModelFromEntity(token)
		if err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		mutated = token
		return nil
	})
	if err != nil {
		return entities.MembershipToken{}, err
	}
	return mutated, nil
}

func (r *Repository) AdvanceMintingRound(ctx context.Context) (uint64, error) {
	var round uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := lockRegistryState(tx)
		if err != nil {
			return err
		}
		state.MintingRound++
		state.RoundOrder = 0
		if err := tx.Save(&state).Error; err != nil {
			return err
		}
		round = state.MintingRound
		return nil
	})
	if err != nil {
		return 0, r.logError("registry_repo_advance_round_failed", err)
	}
	return round, nil
}

func (r *Repository) IsHolder(ctx context.Context, accountID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&tokenModel{}).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		Count(&count).Error
	if err != nil {
		return false, r.logError("registry_repo_is_holder_failed", err,
			"account_id", strings.TrimSpace(accountID),
		)
	}
	return count > 0, nil
}

func (r *Repository) HolderCount(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&tokenModel{}).Count(&count).Error
	if err != nil {
		return 0, r.logError("registry_repo_holder_count_failed", err)
	}
	return int(count), nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("registry_repo_append_outbox_marshal_failed", err,
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
		return r.logError("registry_repo_append_outbox_insert_failed", create.Error,
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
		return r.logError("registry_repo_append_outbox_load_existing_failed", err,
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
		return nil, r.logError("registry_repo_list_pending_outbox_failed", err, "limit", limit)
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
		return r.logError("registry_repo_mark_outbox_published_failed", result.Error,
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
		"module", "governance/membership-registry",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("registry repository operation failed", fields...)
	return err
}

func lockRegistryState(tx *gorm.DB) (registryStateModel, error) {
	var state registryStateModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", registryStateRowID).
		First(&state).Error
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return registryStateModel{}, err
	}
	state = registryStateModel{
		ID:           registryStateRowID,
		NextSequence: 1,
		MintingRound: 1,
		RoundOrder:   0,
	}
	create := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&state)
	if create.Error != nil {
		return registryStateModel{}, create.Error
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", registryStateRowID).
		First(&state).Error
	return state, err
}

type registryStateModel struct {
	ID           int    `gorm:"column:id;primaryKey"`
	NextSequence uint64 `gorm:"column:next_sequence"`
	MintingRound uint64 `gorm:"column:minting_round"`
	RoundOrder   uint64 `gorm:"column:round_order"`
}

func (registryStateModel) TableName() string {
	return "registry_state"
}

type tokenModel struct {
	AccountID        string    `gorm:"column:account_id;primaryKey"`
	DisplayName      string    `gorm:"column:display_name"`
	Description      string    `gorm:"column:description"`
	AvatarURL        string    `gorm:"column:avatar_url"`
	ImageURL         string    `gorm:"column:image_url"`
	DID              string    `gorm:"column:did"`
	GovernanceRole   string    `gorm:"column:governance_role"`
	Titles           []byte    `gorm:"column:titles"`
	ExternalHandles  []byte    `gorm:"column:external_handles"`
	CohortID         string    `gorm:"column:cohort_id"`
	IssuanceSequence uint64    `gorm:"column:issuance_sequence;uniqueIndex"`
	MintingRound     uint64    `gorm:"column:minting_round"`
	RoundOrder       uint64    `gorm:"column:round_order"`
	UniqueHash       string    `gorm:"column:unique_hash;uniqueIndex"`
	IssuedAt         time.Time `gorm:"column:issued_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (tokenModel) TableName() string {
	return "membership_tokens"
}

func tokenModelFromEntity(token entities.MembershipToken) (tokenModel, error) {
	titles, err := json.Marshal(token.Metadata.Titles)
	if err != nil {
		return tokenModel{}, err
	}
	handles, err := json.Marshal(token.Metadata.ExternalHandles)
	if err != nil {
		return tokenModel{}, err
	}
	return tokenModel{
		AccountID:        strings.TrimSpace(token.AccountID),
		DisplayName:      token.Metadata.DisplayName,
		Description:      token.Metadata.Description,
		AvatarURL:        token.Metadata.AvatarURL,
		ImageURL:         token.Metadata.ImageURL,
		DID:              token.Metadata.DID,
		GovernanceRole:   token.Metadata.GovernanceRole,
		Titles:           titles,
		ExternalHandles:  handles,
		CohortID:         token.CohortID,
		IssuanceSequence: token.IssuanceSequence,
		MintingRound:     token.MintingRound,
		RoundOrder:       token.RoundOrder,
		UniqueHash:       token.UniqueHash,
		IssuedAt:         token.IssuedAt.UTC(),
		UpdatedAt:        token.UpdatedAt.UTC(),
	}, nil
}

func (m tokenModel) toEntity() (entities.MembershipToken, error) {
	var titles []string
	if len(m.Titles) > 0 {
		if err := json.Unmarshal(m.Titles, &titles); err != nil {
			return entities.MembershipToken{}, err
		}
	}
	var handles []string
	if len(m.ExternalHandles) > 0 {
		if err := json.Unmarshal(m.ExternalHandles, &handles); err != nil {
			return entities.MembershipToken{}, err
		}
	}
	return entities.MembershipToken{
		AccountID: m.AccountID,
		Metadata: entities.TokenMetadata{
			DisplayName:     m.DisplayName,
			Description:     m.Description,
			AvatarURL:       m.AvatarURL,
			ImageURL:        m.ImageURL,
			DID:             m.DID,
			GovernanceRole:  m.GovernanceRole,
			Titles:          titles,
			ExternalHandles: handles,
		},
		CohortID:         m.CohortID,
		IssuanceSequence: m.IssuanceSequence,
		MintingRound:     m.MintingRound,
		RoundOrder:       m.RoundOrder,
		UniqueHash:       m.UniqueHash,
		IssuedAt:         m.IssuedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
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
	return "registry_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.TokenRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
