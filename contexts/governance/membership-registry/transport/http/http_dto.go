package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MintTokenRequest struct {
	AccountID      string `json:"account_id"`
	DisplayName    string `json:"display_name,omitempty"`
	Description    string `json:"description,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	DID            string `json:"did,omitempty"`
	GovernanceRole string `json:"governance_role"`
}

type TokenResponse struct {
	AccountID        string    `json:"account_id"`
	DisplayName      string    `json:"display_name,omitempty"`
	Description      string    `json:"description,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	DID              string    `json:"did,omitempty"`
	GovernanceRole   string    `json:"governance_role"`
	Titles           []string  `json:"titles,omitempty"`
	ExternalHandles  []string  `json:"external_handles,omitempty"`
	CohortID         string    `json:"cohort_id"`
	IssuanceSequence uint64    `json:"issuance_sequence"`
	MintingRound     uint64    `json:"minting_round"`
	RoundOrder       uint64    `json:"round_order"`
	UniqueHash       string    `json:"unique_hash"`
	IssuedAt         time.Time `json:"issued_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type AwardTitleRequest struct {
	Title string `json:"title"`
}

type LinkHandleRequest struct {
	Handle string `json:"handle"`
}

type TransferTokenRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
}

type HolderStatusResponse struct {
	AccountID string `json:"account_id"`
	Holder    bool   `json:"holder"`
}

type GovernanceRoleResponse struct {
	AccountID      string `json:"account_id"`
	GovernanceRole string `json:"governance_role"`
}

type MintingRoundResponse struct {
	MintingRound uint64 `json:"minting_round"`
}

type OwnershipProofResponse struct {
	AccountID  string `json:"account_id"`
	UniqueHash string `json:"unique_hash"`
	Digest     string `json:"digest"`
	Signature  string `json:"signature"`
	PublicKey  string `json:"public_key"`
	KeyID      string `json:"key_id"`
}
