package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	membershipregistry "shield/contexts/governance/membership-registry"
	registrycommands "shield/contexts/governance/membership-registry/application/commands"
	registryports "shield/contexts/governance/membership-registry/ports"
	votingengine "shield/contexts/governance/voting-engine"
	"shield/internal/platform/signing"
)

type registryHolderDirectory struct {
	tokens registryports.TokenRepository
}

func (d registryHolderDirectory) IsHolder(ctx context.Context, accountID string) (bool, error) {
	return d.tokens.IsHolder(ctx, accountID)
}

func (d registryHolderDirectory) LiveHolderCount(ctx context.Context) (int, error) {
	return d.tokens.HolderCount(ctx)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	signer, err := signing.New("")
	if err != nil {
		t.Fatalf("signer build failed: %v", err)
	}
	registry := membershipregistry.NewInMemoryModule("genesis", "registry.admin", registrycommands.MintPolicyOpen, signer, nil)
	voting := votingengine.NewInMemoryModule(registryHolderDirectory{tokens: registry.Store}, nil)
	return New(registry, voting, nil, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, accountID string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if accountID != "" {
		req.Header.Set("X-Account-Id", accountID)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestMintRequiresAccountHeader(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/governance/tokens", "", map[string]any{
		"governance_role": "member",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMintThenDuplicateConflict(t *testing.T) {
	server := newTestServer(t)

	rr := doJSON(t, server, http.MethodPost, "/governance/tokens", "alice.near", map[string]any{
		"governance_role": "member",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var minted struct {
		UniqueHash string `json:"unique_hash"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &minted); err != nil {
		t.Fatalf("decode mint response failed: %v", err)
	}
	if minted.UniqueHash != "genesis-1" {
		t.Fatalf("unexpected unique hash %s", minted.UniqueHash)
	}

	rr = doJSON(t, server, http.MethodPost, "/governance/tokens", "alice.near", map[string]any{
		"governance_role": "member",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestTransferAlwaysUnprocessable(t *testing.T) {
	server := newTestServer(t)
	doJSON(t, server, http.MethodPost, "/governance/tokens", "alice.near", map[string]any{
		"governance_role": "member",
	})

	rr := doJSON(t, server, http.MethodPost, "/governance/tokens/transfer", "alice.near", map[string]any{
		"to_account_id": "bob.near",
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProposalLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	for _, account := range []string{"alice.near", "bob.near", "carol.near"} {
		rr := doJSON(t, server, http.MethodPost, "/governance/tokens", account, map[string]any{
			"governance_role": "member",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("mint %s failed: %d %s", account, rr.Code, rr.Body.String())
		}
	}

	rr := doJSON(t, server, http.MethodPost, "/governance/proposals", "alice.near", map[string]any{
		"title":       "expand the council",
		"description": "add two seats",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create proposal failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/governance/proposals/0/votes", "outsider.near", map[string]any{
		"in_favor": true,
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-holder, got %d", rr.Code)
	}

	for _, account := range []string{"alice.near", "bob.near"} {
		rr = doJSON(t, server, http.MethodPost, "/governance/proposals/0/votes", account, map[string]any{
			"in_favor": true,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("vote by %s failed: %d %s", account, rr.Code, rr.Body.String())
		}
	}

	rr = doJSON(t, server, http.MethodGet, "/governance/proposals/0", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get proposal failed: %d", rr.Code)
	}
	var proposal struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &proposal); err != nil {
		t.Fatalf("decode proposal failed: %v", err)
	}
	if proposal.Status != "passed" {
		t.Fatalf("expected passed, got %s", proposal.Status)
	}

	rr = doJSON(t, server, http.MethodPost, "/governance/proposals/0/votes", "carol.near", map[string]any{
		"in_favor": false,
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for resolved proposal, got %d", rr.Code)
	}
}

func TestOwnershipProofEndpoint(t *testing.T) {
	server := newTestServer(t)
	doJSON(t, server, http.MethodPost, "/governance/tokens", "alice.near", map[string]any{
		"governance_role": "member",
	})

	rr := doJSON(t, server, http.MethodGet, "/governance/tokens/alice.near/proof", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("proof failed: %d %s", rr.Code, rr.Body.String())
	}
	var proof struct {
		UniqueHash string `json:"unique_hash"`
		Signature  string `json:"signature"`
		PublicKey  string `json:"public_key"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &proof); err != nil {
		t.Fatalf("decode proof failed: %v", err)
	}
	if proof.UniqueHash != "genesis-1" || proof.Signature == "" || proof.PublicKey == "" {
		t.Fatalf("incomplete proof: %+v", proof)
	}

	rr = doJSON(t, server, http.MethodGet, "/governance/tokens/ghost.near/proof", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing holder, got %d", rr.Code)
	}
}
