package identity

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NonSigningSuite struct {
	suite.Suite
	pub ed25519.PublicKey
	id  *NonSigning
}

func TestNonSigningSuite(t *testing.T) {
	suite.Run(t, new(NonSigningSuite))
}

func (s *NonSigningSuite) SetupTest() {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)
	s.pub = pub
	s.id, err = New(pub)
	s.Require().NoError(err)
}

func (s *NonSigningSuite) TestPublicKeyRoundTrip() {
	s.Run("returns the exact key it was built with", func() {
		s.Equal(s.pub, s.id.PublicKey())
		s.True(s.pub.Equal(s.id.Signer().Public()))
	})

	s.Run("is not affected by later changes to the input slice", func() {
		input := make(ed25519.PublicKey, len(s.pub))
		copy(input, s.pub)
		id, err := New(input)
		s.Require().NoError(err)

		input[0] ^= 0xff
		s.Equal(s.pub, id.PublicKey())
	})
}

func (s *NonSigningSuite) TestDER() {
	parsed, err := x509.ParsePKIXPublicKey(s.id.DER())
	s.Require().NoError(err)
	s.Equal(s.pub, parsed)
}

func (s *NonSigningSuite) TestSignAlwaysFails() {
	blobs := map[string][]byte{
		"empty blob": {},
		"nil blob":   nil,
		"short blob": []byte("hello"),
		"long blob":  make([]byte, 4096),
	}
	for name, blob := range blobs {
		s.Run(name, func() {
			sig, err := s.id.Sign(context.Background(), blob)
			s.ErrorIs(err, ErrSigningUnsupported)
			s.Nil(sig)
		})
	}

	s.Run("crypto.Signer view refuses too", func() {
		sig, err := s.id.Signer().Sign(rand.Reader, []byte("digest"), crypto.Hash(0))
		s.ErrorIs(err, ErrSigningUnsupported)
		s.Nil(sig)
	})
}

func TestNew_RejectsInvalidKeys(t *testing.T) {
	for name, key := range map[string]ed25519.PublicKey{
		"nil":   nil,
		"short": make(ed25519.PublicKey, 31),
		"long":  make(ed25519.PublicKey, 33),
	} {
		t.Run(name, func(t *testing.T) {
			id, err := New(key)
			require.ErrorIs(t, err, ErrInvalidPublicKey)
			assert.Nil(t, id)
		})
	}
}
