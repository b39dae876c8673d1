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

// MintPolicy selects who may mint. Deployment configuration rather than a
// hard-coded rule; open self-service is the default.
type MintPolicy string

const (
	MintPolicyOpen  MintPolicy = "open"
	MintPolicyAdmin MintPolicy = "admin"
)

// MintTokenCommand is the transport-agnostic input for credential issuance.
type MintTokenCommand struct {
	CallerID       string
	AccountID      string
	DisplayName    string
	Description    string
	AvatarURL      string
	ImageURL       string
	DID            string
	GovernanceRole string
}

// MintTokenUseCase issues membership tokens. Minting is the only path that
// allocates identity (sequence, round order, uniqueness hash), so the
// allocation happens inside one atomic repository call.
type MintTokenUseCase struct {
	Tokens       ports.TokenRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	AdminAccount string
	Policy       MintPolicy
	Logger       *slog.Logger
}

func (u MintTokenUseCase) Execute(ctx context.Context, cmd MintTokenCommand) (entities.MembershipToken, error) {
	logger := application.ResolveLogger(u.Logger)
	accountID := strings.TrimSpace(cmd.AccountID)
	logger.Info("token mint started",
		"event", "registry_mint_started",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", accountID,
		"caller_id", strings.TrimSpace(cmd.CallerID),
	)

	if accountID == "" || strings.TrimSpace(cmd.GovernanceRole) == "" {
		logger.Warn("token mint validation failed",
			"event", "registry_mint_validation_failed",
			"module", "governance/membership-registry",
			"layer", "application",
			"account_id", accountID,
		)
		return entities.MembershipToken{}, domainerrors.ErrInvalidMintInput
	}
	if u.Policy == MintPolicyAdmin && !strings.EqualFold(strings.TrimSpace(cmd.CallerID), strings.TrimSpace(u.AdminAccount)) {
		return entities.MembershipToken{}, domainerrors.ErrUnauthorized
	}

	metadata := entities.TokenMetadata{
		DisplayName:    strings.TrimSpace(cmd.DisplayName),
		Description:    strings.TrimSpace(cmd.Description),
		AvatarURL:      strings.TrimSpace(cmd.AvatarURL),
		ImageURL:       strings.TrimSpace(cmd.ImageURL),
		DID:            strings.TrimSpace(cmd.DID),
		GovernanceRole: strings.TrimSpace(cmd.GovernanceRole),
	}

	token, err := u.Tokens.MintToken(ctx, accountID, metadata, u.now())
	if err != nil {
		logger.Warn("token mint rejected",
			"event", "registry_mint_rejected",
			"module", "governance/membership-registry",
			"layer", "application",
			"account_id", accountID,
			"error", err.Error(),
		)
		return entities.MembershipToken{}, err
	}

	if err := u.appendTokenEvent(ctx, "token.minted", token, map[string]any{
		"governance_role": token.Metadata.GovernanceRole,
	}); err != nil {
		return entities.MembershipToken{}, err
	}

	logger.Info("token minted",
		"event", "registry_mint_completed",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", token.AccountID,
		"issuance_sequence", token.IssuanceSequence,
		"minting_round", token.MintingRound,
		"round_order", token.RoundOrder,
		"unique_hash", token.UniqueHash,
	)
	return token, nil
}

func (u MintTokenUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (u MintTokenUseCase) appendTokenEvent(
	ctx context.Context,
	eventType string,
	token entities.MembershipToken,
	extra map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if u.Outbox == nil {
		return nil
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"account_id":        token.AccountID,
		"cohort_id":         token.CohortID,
		"issuance_sequence": token.IssuanceSequence,
		"minting_round":     token.MintingRound,
		"unique_hash":       token.UniqueHash,
		"occurred_at":       u.now().Format(time.RFC3339),
	}
	for key, value := range extra {
		data[key] = value
	}
	envelope, err := newRegistryEnvelope(eventID, eventType, token.AccountID, u.now(), data)
	if err != nil {
		return err
	}
	return u.Outbox.AppendOutbox(ctx, envelope)
}
