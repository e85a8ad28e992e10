package provider

import (
	"iirelay/internal/delegation"
)

// Message kinds of the authorize protocol.
const (
	KindAuthorizeReady   = "authorize-ready"
	KindAuthorizeClient  = "authorize-client"
	KindAuthorizeSuccess = "authorize-client-success"
	KindAuthorizeFailure = "authorize-client-failure"
)

// AuthorizePath is the fragment the provider serves its authorize flow on.
const AuthorizePath = "#authorize"

// ErrorUserInterrupt is the failure text when the user closes the provider
// window before the flow completes.
const ErrorUserInterrupt = "UserInterrupt"

// Inbound is a message the provider window posted to the relay page.
type Inbound struct {
	// Origin is the origin the message was sent from.
	Origin string
	Kind   string
	// Text is set on authorize-client-failure.
	Text string
	// Delegations and UserPublicKey are set on authorize-client-success.
	Delegations   []delegation.Signed
	UserPublicKey []byte
}

// AuthorizeClient asks the provider to issue a delegation to SessionPublicKey.
type AuthorizeClient struct {
	Kind             string
	SessionPublicKey []byte
	// MaxTimeToLive is in nanoseconds.
	MaxTimeToLive    uint64
	DerivationOrigin string
}
