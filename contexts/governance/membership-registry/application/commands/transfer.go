package commands

import (
	"context"
	"log/slog"
	"strings"

	application "shield/contexts/governance/membership-registry/application"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
)

// TransferUseCase exists only to fail loudly. Membership tokens are bound to
// one account for life; transfer is surfaced as an explicit always-failing
// operation so callers get a stable error instead of a missing route.
type TransferUseCase struct {
	Logger *slog.Logger
}

func (u TransferUseCase) Execute(ctx context.Context, fromAccountID string, toAccountID string) error {
	logger := application.ResolveLogger(u.Logger)
	logger.Warn("token transfer attempted",
		"event", "registry_transfer_rejected",
		"module", "governance/membership-registry",
		"layer", "application",
		"from_account_id", strings.TrimSpace(fromAccountID),
		"to_account_id", strings.TrimSpace(toAccountID),
	)
	return domainerrors.ErrNonTransferable
}
