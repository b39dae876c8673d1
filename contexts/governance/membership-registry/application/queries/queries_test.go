package queries

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"shield/contexts/governance/membership-registry/adapters/memory"
	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
	"shield/contexts/governance/membership-registry/ports"
)

type testSigner struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

func newTestSigner(t *testing.T) testSigner {
	t.Helper()
	public, private, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	return testSigner{public: public, private: private}
}

func (s testSigner) Sign(_ context.Context, message []byte) (ports.Signature, error) {
	return ports.Signature{
		KeyID:     "test-key",
		PublicKey: s.public,
		Signature: ed25519.Sign(s.private, message),
	}, nil
}

func mintTestToken(t *testing.T, store *memory.Store, accountID string) entities.MembershipToken {
	t.Helper()
	token, err := store.MintToken(context.Background(), accountID, entities.TokenMetadata{
		GovernanceRole: "member",
	}, store.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	return token
}

func TestHolderQueriesReportAbsenceWithoutError(t *testing.T) {
	store := memory.NewStore("genesis")
	holders := HolderQueries{Tokens: store}

	holder, err := holders.IsHolder(context.Background(), "ghost.near")
	if err != nil {
		t.Fatalf("is holder failed: %v", err)
	}
	if holder {
		t.Fatalf("expected non-holder")
	}

	_, found, err := holders.TokenMetadata(context.Background(), "ghost.near")
	if err != nil {
		t.Fatalf("token metadata failed: %v", err)
	}
	if found {
		t.Fatalf("expected no token")
	}

	_, found, err = holders.GovernanceRole(context.Background(), "ghost.near")
	if err != nil {
		t.Fatalf("governance role failed: %v", err)
	}
	if found {
		t.Fatalf("expected no role")
	}
}

func TestHolderQueriesReturnMintedState(t *testing.T) {
	store := memory.NewStore("genesis")
	holders := HolderQueries{Tokens: store}
	mintTestToken(t, store, "alice.near")

	holder, err := holders.IsHolder(context.Background(), "alice.near")
	if err != nil || !holder {
		t.Fatalf("expected holder, got %v %v", holder, err)
	}
	role, found, err := holders.GovernanceRole(context.Background(), "alice.near")
	if err != nil || !found {
		t.Fatalf("role lookup failed: %v", err)
	}
	if role != "member" {
		t.Fatalf("unexpected role %q", role)
	}
	count, err := holders.HolderCount(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("expected holder count 1, got %d %v", count, err)
	}
}

func TestOwnershipProofSignsAndVerifies(t *testing.T) {
	store := memory.NewStore("genesis")
	signer := newTestSigner(t)
	proofs := OwnershipProofUseCase{Tokens: store, Signer: signer}
	token := mintTestToken(t, store, "alice.near")

	proof, err := proofs.Execute(context.Background(), "alice.near")
	if err != nil {
		t.Fatalf("proof failed: %v", err)
	}
	if proof.UniqueHash != token.UniqueHash {
		t.Fatalf("proof covers wrong hash %s", proof.UniqueHash)
	}

	digest := sha256.Sum256(ProofMessage(token.AccountID, token.UniqueHash))
	if proof.Digest != hex.EncodeToString(digest[:]) {
		t.Fatalf("digest mismatch")
	}
	signature, err := hex.DecodeString(proof.Signature)
	if err != nil {
		t.Fatalf("signature decode failed: %v", err)
	}
	if !ed25519.Verify(signer.public, digest[:], signature) {
		t.Fatalf("signature does not verify")
	}
}

func TestOwnershipProofMissingToken(t *testing.T) {
	store := memory.NewStore("genesis")
	proofs := OwnershipProofUseCase{Tokens: store, Signer: newTestSigner(t)}

	_, err := proofs.Execute(context.Background(), "ghost.near")
	if !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
