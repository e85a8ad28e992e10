// Package identity provides the relay's stand-in for a signing identity.
//
// The relay asserts the caller's public key to the identity provider but never
// holds the matching private key. NonSigning satisfies the signing identity
// contract the login flow requires, and every request for a signature fails.
package identity

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/x509"
	"errors"
	"io"
)

var (
	// ErrSigningUnsupported is returned by every signing method.
	ErrSigningUnsupported = errors.New("identity: cannot sign with public key only identity")

	// ErrInvalidPublicKey indicates a missing or wrongly sized key.
	ErrInvalidPublicKey = errors.New("identity: invalid public key")
)

// SignIdentity is the capability the provider login flow is written against.
type SignIdentity interface {
	// PublicKey returns the key the identity acts for.
	PublicKey() ed25519.PublicKey

	// DER returns the SubjectPublicKeyInfo encoding of PublicKey.
	DER() []byte

	// Sign produces a signature over blob.
	Sign(ctx context.Context, blob []byte) ([]byte, error)
}

// NonSigning holds exactly one public key and refuses to sign.
type NonSigning struct {
	pub ed25519.PublicKey
	der []byte
}

var _ SignIdentity = (*NonSigning)(nil)

// New wraps pub. The key is copied so later changes to the caller's slice do
// not leak into the identity.
func New(pub ed25519.PublicKey) (*NonSigning, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	key := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(key, pub)

	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, err
	}
	return &NonSigning{pub: key, der: der}, nil
}

// PublicKey returns the stored key unchanged.
func (n *NonSigning) PublicKey() ed25519.PublicKey {
	return n.pub
}

// DER returns the SubjectPublicKeyInfo encoding of the stored key.
func (n *NonSigning) DER() []byte {
	out := make([]byte, len(n.der))
	copy(out, n.der)
	return out
}

// Sign always fails with ErrSigningUnsupported.
func (n *NonSigning) Sign(_ context.Context, _ []byte) ([]byte, error) {
	return nil, ErrSigningUnsupported
}

// Signer returns a crypto.Signer view of the identity for code written
// against the standard interface. Its Sign method fails the same way.
func (n *NonSigning) Signer() crypto.Signer {
	return stdSigner{n: n}
}

type stdSigner struct {
	n *NonSigning
}

func (s stdSigner) Public() crypto.PublicKey {
	return s.n.pub
}

func (s stdSigner) Sign(_ io.Reader, _ []byte, _ crypto.SignerOpts) ([]byte, error) {
	return nil, ErrSigningUnsupported
}
