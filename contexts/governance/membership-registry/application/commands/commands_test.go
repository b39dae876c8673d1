package commands

import (
	"context"
	"errors"
	"testing"

	"shield/contexts/governance/membership-registry/adapters/memory"
	"shield/contexts/governance/membership-registry/domain/entities"
	domainerrors "shield/contexts/governance/membership-registry/domain/errors"
)

const adminAccount = "registry.admin"

func newMintUseCase(store *memory.Store, policy MintPolicy) MintTokenUseCase {
	return MintTokenUseCase{
		Tokens:       store,
		Outbox:       store,
		Clock:        store,
		IDGenerator:  store,
		AdminAccount: adminAccount,
		Policy:       policy,
	}
}

func TestMintAssignsSequenceRoundAndHash(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyOpen)

	first, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	})
	if err != nil {
		t.Fatalf("first mint failed: %v", err)
	}
	if first.IssuanceSequence != 1 {
		t.Fatalf("expected sequence 1, got %d", first.IssuanceSequence)
	}
	if first.MintingRound != 1 || first.RoundOrder != 1 {
		t.Fatalf("unexpected round stamps %d/%d", first.MintingRound, first.RoundOrder)
	}
	if first.UniqueHash != "genesis-1" {
		t.Fatalf("unexpected unique hash %s", first.UniqueHash)
	}

	second, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "bob.near",
		AccountID:      "bob.near",
		GovernanceRole: "member",
	})
	if err != nil {
		t.Fatalf("second mint failed: %v", err)
	}
	if second.IssuanceSequence != 2 || second.RoundOrder != 2 {
		t.Fatalf("expected sequence 2 order 2, got %d/%d", second.IssuanceSequence, second.RoundOrder)
	}
}

func TestMintDuplicateLeavesCountersUntouched(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyOpen)

	if _, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	}); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	_, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateToken) {
		t.Fatalf("expected duplicate token error, got %v", err)
	}

	next, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "bob.near",
		AccountID:      "bob.near",
		GovernanceRole: "member",
	})
	if err != nil {
		t.Fatalf("mint after duplicate failed: %v", err)
	}
	if next.IssuanceSequence != 2 {
		t.Fatalf("duplicate attempt consumed a sequence, got %d", next.IssuanceSequence)
	}
}

func TestMintAdminPolicyRejectsNonAdminCaller(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyAdmin)

	_, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if _, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       adminAccount,
		AccountID:      "alice.near",
		GovernanceRole: "member",
	}); err != nil {
		t.Fatalf("admin mint failed: %v", err)
	}
}

func TestSequenceNeverReusedAfterRevoke(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyOpen)
	revoke := RevokeTokenUseCase{
		Tokens:       store,
		Outbox:       store,
		Clock:        store,
		IDGenerator:  store,
		AdminAccount: adminAccount,
	}

	if _, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	}); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := revoke.Execute(context.Background(), RevokeTokenCommand{
		CallerID:  adminAccount,
		AccountID: "alice.near",
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	reminted, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	})
	if err != nil {
		t.Fatalf("remint failed: %v", err)
	}
	if reminted.IssuanceSequence != 2 {
		t.Fatalf("expected fresh sequence 2, got %d", reminted.IssuanceSequence)
	}
	if reminted.UniqueHash != "genesis-2" {
		t.Fatalf("expected fresh hash genesis-2, got %s", reminted.UniqueHash)
	}
}

func TestRevokeRequiresAdminAndExistingToken(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyOpen)
	revoke := RevokeTokenUseCase{
		Tokens:       store,
		Outbox:       store,
		Clock:        store,
		IDGenerator:  store,
		AdminAccount: adminAccount,
	}

	if _, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	}); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	_, err := revoke.Execute(context.Background(), RevokeTokenCommand{
		CallerID:  "alice.near",
		AccountID: "alice.near",
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if holder, _ := store.IsHolder(context.Background(), "alice.near"); !holder {
		t.Fatalf("unauthorized revoke mutated the registry")
	}

	_, err = revoke.Execute(context.Background(), RevokeTokenCommand{
		CallerID:  adminAccount,
		AccountID: "ghost.near",
	})
	if !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvanceMintingRoundResetsOrder(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyOpen)
	advance := AdvanceMintingRoundUseCase{
		Tokens:       store,
		Outbox:       store,
		Clock:        store,
		IDGenerator:  store,
		AdminAccount: adminAccount,
	}

	if _, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	}); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	round, err := advance.Execute(context.Background(), adminAccount)
	if err != nil {
		t.Fatalf("round advance failed: %v", err)
	}
	if round != 2 {
		t.Fatalf("expected round 2, got %d", round)
	}

	token, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "bob.near",
		AccountID:      "bob.near",
		GovernanceRole: "member",
	})
	if err != nil {
		t.Fatalf("mint after advance failed: %v", err)
	}
	if token.MintingRound != 2 || token.RoundOrder != 1 {
		t.Fatalf("expected round 2 order 1, got %d/%d", token.MintingRound, token.RoundOrder)
	}
	if token.IssuanceSequence != 2 {
		t.Fatalf("round advance must not reset the issuance sequence, got %d", token.IssuanceSequence)
	}

	if _, err := advance.Execute(context.Background(), "bob.near"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized round advance, got %v", err)
	}
}

func TestProfileMutations(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyOpen)
	profile := ProfileUseCase{Tokens: store}

	if _, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:       "alice.near",
		AccountID:      "alice.near",
		GovernanceRole: "member",
	}); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	token, err := profile.UpdateField(context.Background(), "alice.near", entities.ProfileFieldDescription, "governance participant")
	if err != nil {
		t.Fatalf("update field failed: %v", err)
	}
	if token.Metadata.Description != "governance participant" {
		t.Fatalf("description not applied: %q", token.Metadata.Description)
	}

	if _, err := profile.UpdateField(context.Background(), "alice.near", entities.ProfileField("nickname"), "x"); !errors.Is(err, domainerrors.ErrInvalidProfileField) {
		t.Fatalf("expected invalid profile field, got %v", err)
	}

	token, err = profile.AddTitle(context.Background(), "alice.near", "founding member")
	if err != nil {
		t.Fatalf("add title failed: %v", err)
	}
	if len(token.Metadata.Titles) != 1 || token.Metadata.Titles[0] != "founding member" {
		t.Fatalf("title not recorded: %v", token.Metadata.Titles)
	}

	token, err = profile.LinkHandle(context.Background(), "alice.near", "github:alice")
	if err != nil {
		t.Fatalf("link handle failed: %v", err)
	}
	if len(token.Metadata.ExternalHandles) != 1 || token.Metadata.ExternalHandles[0] != "github:alice" {
		t.Fatalf("handle not recorded: %v", token.Metadata.ExternalHandles)
	}

	if _, err := profile.AddTitle(context.Background(), "ghost.near", "title"); !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTransferAlwaysFails(t *testing.T) {
	transfer := TransferUseCase{}
	err := transfer.Execute(context.Background(), "alice.near", "bob.near")
	if !errors.Is(err, domainerrors.ErrNonTransferable) {
		t.Fatalf("expected non-transferable, got %v", err)
	}
}

func TestMintValidationRejectsEmptyInput(t *testing.T) {
	store := memory.NewStore("genesis")
	mint := newMintUseCase(store, MintPolicyOpen)

	if _, err := mint.Execute(context.Background(), MintTokenCommand{
		CallerID:  "alice.near",
		AccountID: "alice.near",
	}); !errors.Is(err, domainerrors.ErrInvalidMintInput) {
		t.Fatalf("expected invalid mint input, got %v", err)
	}
	if count, _ := store.HolderCount(context.Background()); count != 0 {
		t.Fatalf("rejected mint mutated the registry, holder count %d", count)
	}
}
