package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "shield/contexts/governance/membership-registry/application"
	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"
)

// RevokeTokenCommand requests administrator-driven credential revocation.
type RevokeTokenCommand struct {
	CallerID  string
	AccountID string
}

// RevokeTokenUseCase removes a holder from the registry. Revocation shrinks
// the quorum denominator immediately; proposals already resolved against the
// old denominator are never re-evaluated.
type RevokeTokenUseCase struct {
	Tokens       ports.TokenRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	AdminAccount string
	Logger       *slog.Logger
}

func (u RevokeTokenUseCase) Execute(ctx context.Context, cmd RevokeTokenCommand) (entities.MembershipToken, error) {
	logger := application.ResolveLogger(u.Logger)
	accountID := strings.TrimSpace(cmd.AccountID)
	logger.Info("token revoke started",
		"event", "registry_revoke_started",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", accountID,
		"caller_id", strings.TrimSpace(cmd.CallerID),
	)

	if accountID == "" {
		return entities.MembershipToken{}, domainerrors.ErrInvalidUpdateInput
	}
	if !strings.EqualFold(strings.TrimSpace(cmd.CallerID), strings.TrimSpace(u.AdminAccount)) {
		logger.Warn("token revoke unauthorized",
			"event", "registry_revoke_unauthorized",
			"module", "governance/membership-registry",
			"layer", "application",
			"account_id", accountID,
			"caller_id", strings.TrimSpace(cmd.CallerID),
		)
		return entities.MembershipToken{}, domainerrors.ErrUnauthorized
	}

	token, err := u.Tokens.RemoveToken(ctx, accountID)
	if err != nil {
		return entities.MembershipToken{}, err
	}

	if err := u.appendRevokeEvent(ctx, token); err != nil {
		return entities.MembershipToken{}, err
	}

	logger.Info("token revoked",
		"event", "registry_revoke_completed",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", token.AccountID,
		"issuance_sequence", token.IssuanceSequence,
	)
	return token, nil
}

func (u RevokeTokenUseCase) appendRevokeEvent(ctx context.Context, token entities.MembershipToken) error {
	if u.Outbox == nil {
		return nil
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	now := u.now()
	envelope, err := newRegistryEnvelope(eventID, "token.revoked", token.AccountID, now, map[string]any{
		"account_id":        token.AccountID,
		"cohort_id":         token.CohortID,
		"issuance_sequence": token.IssuanceSequence,
		"unique_hash":       token.UniqueHash,
		"occurred_at":       now.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return u.Outbox.AppendOutbox(ctx, envelope)
}

func (u RevokeTokenUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
