package commands

import (
	"context"
	"log/slog"
	"strings"

	application "shield/contexts/governance/membership-registry/application"
	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"
)

// ProfileUseCase mutates token profile data in place. Each method is a single
// exclusive-access mutation entry point: the repository applies the change
// atomically or not at all.
type ProfileUseCase struct {
	Tokens ports.TokenRepository
	Logger *slog.Logger
}

// UpdateField sets one of the named free-form profile fields.
func (u ProfileUseCase) UpdateField(
	ctx context.Context,
	accountID string,
	field entities.ProfileField,
	value string,
) (entities.MembershipToken, error) {
	logger := application.ResolveLogger(u.Logger)
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return entities.MembershipToken{}, domainerrors.ErrInvalidUpdateInput
	}
	if !entities.IsValidProfileField(field) {
		return entities.MembershipToken{}, domainerrors.ErrInvalidProfileField
	}

	token, err := u.Tokens.MutateToken(ctx, accountID, func(t *entities.MembershipToken) error {
		t.SetProfileField(field, strings.TrimSpace(value))
		return nil
	})
	if err != nil {
		return entities.MembershipToken{}, err
	}

	logger.Info("token profile field updated",
		"event", "registry_profile_updated",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", accountID,
		"field", string(field),
	)
	return token, nil
}

// AddTitle awards a title string to the holder's token.
func (u ProfileUseCase) AddTitle(ctx context.Context, accountID string, title string) (entities.MembershipToken, error) {
	logger := application.ResolveLogger(u.Logger)
	accountID = strings.TrimSpace(accountID)
	title = strings.TrimSpace(title)
	if accountID == "" || title == "" {
		return entities.MembershipToken{}, domainerrors.ErrInvalidUpdateInput
	}

	token, err := u.Tokens.MutateToken(ctx, accountID, func(t *entities.MembershipToken) error {
		t.AwardTitle(title)
		return nil
	})
	if err != nil {
		return entities.MembershipToken{}, err
	}

	logger.Info("token title awarded",
		"event", "registry_title_awarded",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", accountID,
		"title", title,
	)
	return token, nil
}

// LinkHandle records an external handle on the holder's token.
func (u ProfileUseCase) LinkHandle(ctx context.Context, accountID string, handle string) (entities.MembershipToken, error) {
	logger := application.ResolveLogger(u.Logger)
	accountID = strings.TrimSpace(accountID)
	handle = strings.TrimSpace(handle)
	if accountID == "" || handle == "" {
		return entities.MembershipToken{}, domainerrors.ErrInvalidUpdateInput
	}

	token, err := u.Tokens.MutateToken(ctx, accountID, func(t *entities.MembershipToken) error {
		t.LinkExternalHandle(handle)
		return nil
	})
	if err != nil {
		return entities.MembershipToken{}, err
	}

	logger.Info("token external handle linked",
		"event", "registry_handle_linked",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", accountID,
		"handle", handle,
	)
	return token, nil
}
