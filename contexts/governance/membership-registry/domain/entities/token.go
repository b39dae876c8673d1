package entities

import (
	"strconv"
	"time"
)

// ProfileField names the mutable free-form metadata fields on a token.
type ProfileField string

const (
	ProfileFieldAvatar      ProfileField = "avatar"
	ProfileFieldDescription ProfileField = "description"
	ProfileFieldImage       ProfileField = "image"
	ProfileFieldDID         ProfileField = "did"
)

func IsValidProfileField(field ProfileField) bool {
	switch field {
	case ProfileFieldAvatar, ProfileFieldDescription, ProfileFieldImage, ProfileFieldDID:
		return true
	default:
		return false
	}
}

// TokenMetadata is the structured profile record carried by a membership
// token. GovernanceRole is required at mint time; the rest is optional.
type TokenMetadata struct {
	DisplayName     string
	Description     string
	AvatarURL       string
	ImageURL        string
	DID             string
	GovernanceRole  string
	Titles          []string
	ExternalHandles []string
}

// MembershipToken is one account's governance credential. At most one live
// token exists per account; the issuance sequence is globally unique and is
// never reused, even after revocation.
type MembershipToken struct {
	AccountID        string
	Metadata         TokenMetadata
	CohortID         string
	IssuanceSequence uint64
	MintingRound     uint64
	RoundOrder       uint64
	UniqueHash       string
	IssuedAt         time.Time
	UpdatedAt        time.Time
}

// ComputeUniqueHash derives the per-cohort uniqueness hash for an issuance.
// The format is stable: cohort id and sequence joined by a dash.
func ComputeUniqueHash(cohortID string, sequence uint64) string {
	return cohortID + "-" + strconv.FormatUint(sequence, 10)
}

// SetProfileField mutates the named free-form field in place.
func (t *MembershipToken) SetProfileField(field ProfileField, value string) {
	switch field {
	case ProfileFieldAvatar:
		t.Metadata.AvatarURL = value
	case ProfileFieldDescription:
		t.Metadata.Description = value
	case ProfileFieldImage:
		t.Metadata.ImageURL = value
	case ProfileFieldDID:
		t.Metadata.DID = value
	}
}

// AwardTitle appends a title to the token. Titles accumulate; duplicates are
// allowed because awards are distinct occurrences.
func (t *MembershipToken) AwardTitle(title string) {
	t.Metadata.Titles = append(t.Metadata.Titles, title)
}

// LinkExternalHandle appends an external handle to the token.
func (t *MembershipToken) LinkExternalHandle(handle string) {
	t.Metadata.ExternalHandles = append(t.Metadata.ExternalHandles, handle)
}
