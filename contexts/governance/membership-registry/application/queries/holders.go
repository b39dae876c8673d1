package queries

import (
	"context"
	"log/slog"
	"strings"

	"shield/contexts/governance/membership-registry/domain/entities"
	"shield/contexts/governance/membership-registry/ports"
)

// HolderQueries answers pure registry reads. Absence is reported through the
// boolean, never as an error.
type HolderQueries struct {
	Tokens ports.TokenRepository
	Logger *slog.Logger
}

func (q HolderQueries) IsHolder(ctx context.Context, accountID string) (bool, error) {
	return q.Tokens.IsHolder(ctx, strings.TrimSpace(accountID))
}

func (q HolderQueries) TokenMetadata(ctx context.Context, accountID string) (entities.MembershipToken, bool, error) {
	return q.Tokens.GetToken(ctx, strings.TrimSpace(accountID))
}

func (q HolderQueries) GovernanceRole(ctx context.Context, accountID string) (string, bool, error) {
	token, found, err := q.Tokens.GetToken(ctx, strings.TrimSpace(accountID))
	if err != nil || !found {
		return "", false, err
	}
	return token.Metadata.GovernanceRole, true, nil
}

func (q HolderQueries) HolderCount(ctx context.Context) (int, error) {
	return q.Tokens.HolderCount(ctx)
}
