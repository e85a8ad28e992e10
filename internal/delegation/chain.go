// Package delegation models the delegation chain an identity provider issues
// for a session key, and its canonical JSON form.
//
// The JSON form is the one relying parties parse back into a chain:
//
//	{"delegations":[{"delegation":{"expiration":"<hex>","pubkey":"<hex>","targets":["<hex>"]},"signature":"<hex>"}],"publicKey":"<hex>"}
//
// Byte fields are lowercase hex; expiration is nanoseconds since the Unix
// epoch in lowercase hex without a prefix; targets is omitted when empty.
package delegation

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrEmptyChain is returned when a chain carries no delegations.
	ErrEmptyChain = errors.New("delegation: chain has no delegations")

	// ErrMissingPublicKey is returned when a chain has no root public key.
	ErrMissingPublicKey = errors.New("delegation: chain has no public key")
)

// Delegation authorizes PubKey until Expiration, optionally scoped to Targets.
type Delegation struct {
	PubKey     []byte
	Expiration uint64
	Targets    [][]byte
}

// Expires returns the expiration as a time.
func (d Delegation) Expires() time.Time {
	return time.Unix(0, int64(d.Expiration))
}

// Signed is a delegation together with the signature issued over it.
type Signed struct {
	Delegation Delegation
	Signature  []byte
}

// Chain binds a session key to PublicKey through one or more delegations.
type Chain struct {
	Delegations []Signed
	PublicKey   []byte
}

// Validate checks the structural invariants of a chain.
func (c *Chain) Validate() error {
	if len(c.PublicKey) == 0 {
		return ErrMissingPublicKey
	}
	if len(c.Delegations) == 0 {
		return ErrEmptyChain
	}
	for i, d := range c.Delegations {
		if len(d.Delegation.PubKey) == 0 {
			return fmt.Errorf("delegation: entry %d has no pubkey", i)
		}
		if len(d.Signature) == 0 {
			return fmt.Errorf("delegation: entry %d has no signature", i)
		}
	}
	return nil
}

// SessionKey returns the key the last delegation authorizes.
func (c *Chain) SessionKey() []byte {
	if len(c.Delegations) == 0 {
		return nil
	}
	return c.Delegations[len(c.Delegations)-1].Delegation.PubKey
}

type jsonDelegation struct {
	Expiration string   `json:"expiration"`
	PubKey     string   `json:"pubkey"`
	Targets    []string `json:"targets,omitempty"`
}

type jsonSigned struct {
	Delegation jsonDelegation `json:"delegation"`
	Signature  string         `json:"signature"`
}

type jsonChain struct {
	Delegations []jsonSigned `json:"delegations"`
	PublicKey   string       `json:"publicKey"`
}

// MarshalJSON renders the canonical JSON form.
func (c Chain) MarshalJSON() ([]byte, error) {
	out := jsonChain{
		Delegations: make([]jsonSigned, 0, len(c.Delegations)),
		PublicKey:   hex.EncodeToString(c.PublicKey),
	}
	for _, d := range c.Delegations {
		jd := jsonDelegation{
			Expiration: strconv.FormatUint(d.Delegation.Expiration, 16),
			PubKey:     hex.EncodeToString(d.Delegation.PubKey),
		}
		for _, t := range d.Delegation.Targets {
			jd.Targets = append(jd.Targets, hex.EncodeToString(t))
		}
		out.Delegations = append(out.Delegations, jsonSigned{
			Delegation: jd,
			Signature:  hex.EncodeToString(d.Signature),
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the canonical JSON form.
func (c *Chain) UnmarshalJSON(data []byte) error {
	var in jsonChain
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	pub, err := hex.DecodeString(in.PublicKey)
	if err != nil {
		return fmt.Errorf("delegation: publicKey: %w", err)
	}
	chain := Chain{PublicKey: pub, Delegations: make([]Signed, 0, len(in.Delegations))}
	for i, sd := range in.Delegations {
		exp, err := strconv.ParseUint(sd.Delegation.Expiration, 16, 64)
		if err != nil {
			return fmt.Errorf("delegation: entry %d expiration: %w", i, err)
		}
		key, err := hex.DecodeString(sd.Delegation.PubKey)
		if err != nil {
			return fmt.Errorf("delegation: entry %d pubkey: %w", i, err)
		}
		sig, err := hex.DecodeString(sd.Signature)
		if err != nil {
			return fmt.Errorf("delegation: entry %d signature: %w", i, err)
		}
		d := Delegation{PubKey: key, Expiration: exp}
		for _, t := range sd.Delegation.Targets {
			target, err := hex.DecodeString(t)
			if err != nil {
				return fmt.Errorf("delegation: entry %d target: %w", i, err)
			}
			d.Targets = append(d.Targets, target)
		}
		chain.Delegations = append(chain.Delegations, Signed{Delegation: d, Signature: sig})
	}
	*c = chain
	return nil
}

// CanonicalJSON returns the canonical JSON string of the chain.
func (c *Chain) CanonicalJSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseJSON parses and validates a chain in canonical JSON form.
func ParseJSON(s string) (*Chain, error) {
	var c Chain
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
