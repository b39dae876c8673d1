package signing

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"shield/contexts/governance/membership-registry/ports"
)

// Signer is the external signer collaborator behind the registry's
// attestation port. Keys live here; modules only ever see signatures.
type Signer struct {
	keyID   string
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

// New builds a signer from a hex-encoded 32-byte seed. An empty seed yields
// an ephemeral key, which is fine for local runs but means proofs do not
// verify across restarts.
func New(seedHex string) (*Signer, error) {
	var private ed25519.PrivateKey
	if seedHex == "" {
		var err error
		_, private, err = ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	} else {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return nil, fmt.Errorf("decode signing seed: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, errors.New("signing seed must be 32 bytes of hex")
		}
		private = ed25519.NewKeyFromSeed(seed)
	}

	public := private.Public().(ed25519.PublicKey)
	fingerprint := sha256.Sum256(public)
	return &Signer{
		keyID:   hex.EncodeToString(fingerprint[:8]),
		public:  public,
		private: private,
	}, nil
}

func (s *Signer) Sign(_ context.Context, message []byte) (ports.Signature, error) {
	return ports.Signature{
		KeyID:     s.keyID,
		PublicKey: append([]byte(nil), s.public...),
		Signature: ed25519.Sign(s.private, message),
	}, nil
}

func (s *Signer) KeyID() string {
	return s.keyID
}

func (s *Signer) PublicKey() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), s.public...)
}

var _ ports.AttestationSigner = (*Signer)(nil)
