package queries

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	application "shield/contexts/governance/membership-registry/application"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"
)

// OwnershipProof is a signed attestation binding an account to its token's
// uniqueness hash. Verifiers recompute the digest over account|unique_hash
// and check the detached signature against the published key.
type OwnershipProof struct {
	AccountID  string
	UniqueHash string
	Digest     string
	Signature  string
	PublicKey  string
	KeyID      string
}

// OwnershipProofUseCase produces ownership attestations through the external
// signer capability.
type OwnershipProofUseCase struct {
	Tokens ports.TokenRepository
	Signer ports.AttestationSigner
	Logger *slog.Logger
}

func (u OwnershipProofUseCase) Execute(ctx context.Context, accountID string) (OwnershipProof, error) {
	logger := application.ResolveLogger(u.Logger)
	accountID = strings.TrimSpace(accountID)

	token, found, err := u.Tokens.GetToken(ctx, accountID)
	if err != nil {
		return OwnershipProof{}, err
	}
	if !found {
		return OwnershipProof{}, domainerrors.ErrTokenNotFound
	}

	message := ProofMessage(token.AccountID, token.UniqueHash)
	digest := sha256.Sum256(message)
	signature, err := u.Signer.Sign(ctx, digest[:])
	if err != nil {
		logger.Error("ownership proof signing failed",
			"event", "registry_proof_sign_failed",
			"module", "governance/membership-registry",
			"layer", "application",
			"account_id", accountID,
			"error", err.Error(),
		)
		return OwnershipProof{}, err
	}

	logger.Info("ownership proof issued",
		"event", "registry_proof_issued",
		"module", "governance/membership-registry",
		"layer", "application",
		"account_id", accountID,
		"unique_hash", token.UniqueHash,
		"key_id", signature.KeyID,
	)
	return OwnershipProof{
		AccountID:  token.AccountID,
		UniqueHash: token.UniqueHash,
		Digest:     hex.EncodeToString(digest[:]),
		Signature:  hex.EncodeToString(signature.Signature),
		PublicKey:  hex.EncodeToString(signature.PublicKey),
		KeyID:      signature.KeyID,
	}, nil
}

// ProofMessage is the canonical byte message covered by an ownership proof.
func ProofMessage(accountID string, uniqueHash string) []byte {
	return []byte(accountID + "|" + uniqueHash)
}
