// Package params extracts and validates the relay's inbound request
// parameters from the page address.
package params

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/hex"
	"net/url"
	"strings"

	dErrors "iirelay/pkg/domain-errors"
)

// Query parameter names accepted by the relay.
const (
	KeyReturnAddress   = "redirect_uri"
	KeyCallerPublicKey = "pubkey"
	KeyProvider        = "ii_uri"
)

// MissingMessage is shown when any required parameter is absent.
const MissingMessage = "Missing redirect_uri, pubkey, or ii_uri in query string"

// Request holds the validated parameters of one relay page load.
//
// Invariants:
//   - ReturnAddress and ProviderAddress are absolute URLs
//   - CallerPublicKey is a well formed Ed25519 public key
type Request struct {
	ReturnAddress   string
	CallerPublicKey ed25519.PublicKey
	ProviderAddress string
}

// Reporter receives the missing-parameter message before Parse fails.
type Reporter interface {
	Report(message string)
}

// Extract reads and validates the parameters from address.
//
// Errors: CodeMissingParameter when any parameter is absent or empty,
// CodeInvalidParameter when an address is not absolute, CodeKeyParseFailure
// when pubkey is not hex encoded DER of an Ed25519 key.
func Extract(address string) (*Request, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidParameter, "invalid page address")
	}
	q := u.Query()
	returnAddress := q.Get(KeyReturnAddress)
	pubKey := q.Get(KeyCallerPublicKey)
	provider := q.Get(KeyProvider)

	if returnAddress == "" || pubKey == "" || provider == "" {
		return nil, dErrors.New(dErrors.CodeMissingParameter, MissingMessage)
	}
	if err := requireAbsolute(KeyReturnAddress, returnAddress); err != nil {
		return nil, err
	}
	if err := requireAbsolute(KeyProvider, provider); err != nil {
		return nil, err
	}

	key, err := ParsePublicKeyHex(pubKey)
	if err != nil {
		return nil, err
	}

	return &Request{
		ReturnAddress:   returnAddress,
		CallerPublicKey: key,
		ProviderAddress: provider,
	}, nil
}

// Parse is Extract for the page: a missing parameter is also rendered
// through reporter before the error is returned.
func Parse(reporter Reporter, address string) (*Request, error) {
	req, err := Extract(address)
	if dErrors.HasCode(err, dErrors.CodeMissingParameter) {
		reporter.Report(MissingMessage)
	}
	return req, err
}

// ParsePublicKeyHex decodes a hex encoded DER SubjectPublicKeyInfo holding an
// Ed25519 key.
func ParsePublicKeyHex(s string) (ed25519.PublicKey, error) {
	der, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeKeyParseFailure, "pubkey is not valid hex")
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeKeyParseFailure, "pubkey is not a DER encoded public key")
	}
	key, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeKeyParseFailure, "pubkey has unsupported key type %T", parsed)
	}
	return key, nil
}

func requireAbsolute(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidParameter, name+" is not a valid URL")
	}
	if !u.IsAbs() {
		return dErrors.Newf(dErrors.CodeInvalidParameter, "%s must be an absolute URL", name)
	}
	return nil
}
