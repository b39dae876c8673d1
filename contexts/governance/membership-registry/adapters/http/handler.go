package httpadapter

import (
	"context"
	"log/slog"

	"shield/contexts/governance/membership-registry/application/commands"
	"shield/contexts/governance/membership-registry/application/queries"
	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	httptransport "shield/contexts/governance/membership-registry/transport/http"
)

type Handler struct {
	Mint     commands.MintTokenUseCase
	Revoke   commands.RevokeTokenUseCase
	Rounds   commands.AdvanceMintingRoundUseCase
	Profile  commands.ProfileUseCase
	Transfer commands.TransferUseCase
	Holders  queries.HolderQueries
	Proofs   queries.OwnershipProofUseCase
	Logger   *slog.Logger
}

func (h Handler) MintTokenHandler(
	ctx context.Context,
	callerID string,
	req httptransport.MintTokenRequest,
) (httptransport.TokenResponse, error) {
	token, err := h.Mint.Execute(ctx, commands.MintTokenCommand{
		CallerID:       callerID,
		AccountID:      req.AccountID,
		DisplayName:    req.DisplayName,
		Description:    req.Description,
		AvatarURL:      req.AvatarURL,
		ImageURL:       req.ImageURL,
		DID:            req.DID,
		GovernanceRole: req.GovernanceRole,
	})
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return tokenResponse(token), nil
}

func (h Handler) RevokeTokenHandler(ctx context.Context, callerID string, accountID string) (httptransport.TokenResponse, error) {
	token, err := h.Revoke.Execute(ctx, commands.RevokeTokenCommand{
		CallerID:  callerID,
		AccountID: accountID,
	})
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return tokenResponse(token), nil
}

func (h Handler) AdvanceMintingRoundHandler(ctx context.Context, callerID string) (httptransport.MintingRoundResponse, error) {
	round, err := h.Rounds.Execute(ctx, callerID)
	if err != nil {
		return httptransport.MintingRoundResponse{}, err
	}
	return httptransport.MintingRoundResponse{MintingRound: round}, nil
}

func (h Handler) UpdateProfileHandler(
	ctx context.Context,
	accountID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.TokenResponse, error) {
	token, err := h.Profile.UpdateField(ctx, accountID, entities.ProfileField(req.Field), req.Value)
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return tokenResponse(token), nil
}

func (h Handler) AwardTitleHandler(
	ctx context.Context,
	accountID string,
	req httptransport.AwardTitleRequest,
) (httptransport.TokenResponse, error) {
	token, err := h.Profile.AddTitle(ctx, accountID, req.Title)
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return tokenResponse(token), nil
}

func (h Handler) LinkHandleHandler(
	ctx context.Context,
	accountID string,
	req httptransport.LinkHandleRequest,
) (httptransport.TokenResponse, error) {
	token, err := h.Profile.LinkHandle(ctx, accountID, req.Handle)
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return tokenResponse(token), nil
}

func (h Handler) TransferTokenHandler(ctx context.Context, callerID string, req httptransport.TransferTokenRequest) error {
	from := req.FromAccountID
	if from == "" {
		from = callerID
	}
	return h.Transfer.Execute(ctx, from, req.ToAccountID)
}

func (h Handler) GetTokenHandler(ctx context.Context, accountID string) (httptransport.TokenResponse, error) {
	token, found, err := h.Holders.TokenMetadata(ctx, accountID)
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	if !found {
		return httptransport.TokenResponse{}, domainerrors.ErrTokenNotFound
	}
	return tokenResponse(token), nil
}

func (h Handler) HolderStatusHandler(ctx context.Context, accountID string) (httptransport.HolderStatusResponse, error) {
	holder, err := h.Holders.IsHolder(ctx, accountID)
	if err != nil {
		return httptransport.HolderStatusResponse{}, err
	}
	return httptransport.HolderStatusResponse{
		AccountID: accountID,
		Holder:    holder,
	}, nil
}

func (h Handler) GovernanceRoleHandler(ctx context.Context, accountID string) (httptransport.GovernanceRoleResponse, error) {
	role, found, err := h.Holders.GovernanceRole(ctx, accountID)
	if err != nil {
		return httptransport.GovernanceRoleResponse{}, err
	}
	if !found {
		return httptransport.GovernanceRoleResponse{}, domainerrors.ErrTokenNotFound
	}
	return httptransport.GovernanceRoleResponse{
		AccountID:      accountID,
		GovernanceRole: role,
	}, nil
}

func (h Handler) OwnershipProofHandler(ctx context.Context, accountID string) (httptransport.OwnershipProofResponse, error) {
	proof, err := h.Proofs.Execute(ctx, accountID)
	if err != nil {
		return httptransport.OwnershipProofResponse{}, err
	}
	return httptransport.OwnershipProofResponse{
		AccountID:  proof.AccountID,
		UniqueHash: proof.UniqueHash,
		Digest:     proof.Digest,
		Signature:  proof.Signature,
		PublicKey:  proof.PublicKey,
		KeyID:      proof.KeyID,
	}, nil
}

func tokenResponse(token entities.MembershipToken) httptransport.TokenResponse {
	return httptransport.TokenResponse{
		AccountID:        token.AccountID,
		DisplayName:      token.Metadata.DisplayName,
		Description:      token.Metadata.Description,
		AvatarURL:        token.Metadata.AvatarURL,
		ImageURL:         token.Metadata.ImageURL,
		DID:              token.Metadata.DID,
		GovernanceRole:   token.Metadata.GovernanceRole,
		Titles:           token.Metadata.Titles,
		ExternalHandles:  token.Metadata.ExternalHandles,
		CohortID:         token.CohortID,
		IssuanceSequence: token.IssuanceSequence,
		MintingRound:     token.MintingRound,
		RoundOrder:       token.RoundOrder,
		UniqueHash:       token.UniqueHash,
		IssuedAt:         token.IssuedAt,
		UpdatedAt:        token.UpdatedAt,
	}
}
