package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "shield/contexts/governance/membership-registry/application"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"
)

// AdvanceMintingRoundUseCase moves the registry into the next issuance epoch.
// The intra-round order counter restarts at zero; tokens minted in earlier
// rounds keep their original stamps.
type AdvanceMintingRoundUseCase struct {
	Tokens       ports.TokenRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	AdminAccount string
	Logger       *slog.Logger
}

func (u AdvanceMintingRoundUseCase) Execute(ctx context.Context, callerID string) (uint64, error) {
	logger := application.ResolveLogger(u.Logger)
	if !strings.EqualFold(strings.TrimSpace(callerID), strings.TrimSpace(u.AdminAccount)) {
		logger.Warn("minting round advance unauthorized",
			"event", "registry_round_advance_unauthorized",
			"module", "governance/membership-registry",
			"layer", "application",
			"caller_id", strings.TrimSpace(callerID),
		)
		return 0, domainerrors.ErrUnauthorized
	}

	round, err := u.Tokens.AdvanceMintingRound(ctx)
	if err != nil {
		return 0, err
	}

	if u.Outbox != nil {
		eventID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return 0, err
		}
		now := u.now()
		envelope, err := newRegistryEnvelope(eventID, "minting_round.advanced", "registry", now, map[string]any{
			"minting_round": round,
			"occurred_at":   now.Format(time.RFC3339),
		})
		if err != nil {
			return 0, err
		}
		if err := u.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return 0, err
		}
	}

	logger.Info("minting round advanced",
		"event", "registry_round_advanced",
		"module", "governance/membership-registry",
		"layer", "application",
		"minting_round", round,
	)
	return round, nil
}

func (u AdvanceMintingRoundUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
