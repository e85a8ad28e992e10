package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"iirelay/internal/delegation"
)

// NewPublicKey generates an Ed25519 public key and its hex encoded DER form,
// the shape callers pass as the pubkey parameter.
func NewPublicKey(t *testing.T) (ed25519.PublicKey, string) {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err, "failed to generate key")
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err, "failed to marshal key")
	return pub, hex.EncodeToString(der)
}

// SampleChain returns a small, fully populated delegation chain.
func SampleChain() *delegation.Chain {
	return &delegation.Chain{
		PublicKey: []byte{0x30, 0x3c, 0x30, 0x0c},
		Delegations: []delegation.Signed{
			{
				Delegation: delegation.Delegation{
					PubKey:     []byte{0x30, 0x2a, 0x30, 0x05},
					Expiration: 0x18a2b1c3d4e5f600,
				},
				Signature: []byte{0xd9, 0xd9, 0xf7},
			},
		},
	}
}
