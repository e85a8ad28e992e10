// Package provider drives the identity provider's authorize flow for a
// session key the relay does not control, and collects the delegation chain
// the provider issues for it.
package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"iirelay/internal/delegation"
	"iirelay/internal/relay/identity"
	"iirelay/pkg/weborigin"
)

// DefaultMaxTimeToLive bounds the lifetime of issued delegations.
const DefaultMaxTimeToLive = 8 * time.Hour

var (
	// ErrNotAuthenticated is returned by Delegation before a successful login
	// or after the chain was already taken.
	ErrNotAuthenticated = errors.New("provider: no delegation available")

	// ErrSessionKeyMismatch is returned when the issued chain does not
	// delegate to the identity's key.
	ErrSessionKeyMismatch = errors.New("provider: delegation does not target the session key")

	// ErrInvalidProvider is returned for a provider address that cannot be opened.
	ErrInvalidProvider = errors.New("provider: invalid identity provider address")
)

// Status discriminates a login outcome.
type Status int

const (
	StatusSuccess Status = iota + 1
	StatusFailure
)

// Outcome is the result of exactly one login attempt. Message is set on failure.
type Outcome struct {
	Status  Status
	Message string
}

// Succeeded reports whether the provider issued a delegation.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// Options tune the authorize request.
type Options struct {
	MaxTimeToLive    time.Duration
	DerivationOrigin string
	WindowFeatures   string
	TracerProvider   trace.TracerProvider
}

// Option configures a Client.
type Option func(*Options)

// WithMaxTimeToLive bounds the lifetime of the issued delegation.
func WithMaxTimeToLive(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.MaxTimeToLive = d
		}
	}
}

// WithDerivationOrigin asks the provider to derive the principal for origin.
func WithDerivationOrigin(origin string) Option {
	return func(o *Options) {
		o.DerivationOrigin = origin
	}
}

// WithWindowFeatures sets the features string used to open the provider window.
func WithWindowFeatures(features string) Option {
	return func(o *Options) {
		o.WindowFeatures = features
	}
}

// WithTracerProvider records login spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		o.TracerProvider = tp
	}
}

// Client logs in against one identity provider on behalf of a SignIdentity.
// It holds the issued chain until Delegation takes it.
type Client struct {
	window   Window
	identity identity.SignIdentity
	opts     Options
	logger   *slog.Logger
	tracer   trace.Tracer

	mu     sync.Mutex
	chain  *delegation.Chain
	active Channel
}

// NewClient builds a login client whose session key is id's public key.
func NewClient(window Window, id identity.SignIdentity, logger *slog.Logger, opts ...Option) *Client {
	o := Options{MaxTimeToLive: DefaultMaxTimeToLive}
	for _, opt := range opts {
		opt(&o)
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	return &Client{
		window:   window,
		identity: id,
		opts:     o,
		logger:   logger,
		tracer:   o.TracerProvider.Tracer("iirelay/provider"),
	}
}

// Identity returns the identity the client logs in for.
func (c *Client) Identity() identity.SignIdentity {
	return c.identity
}

// Login opens the provider at providerAddress and runs the authorize flow to
// completion. The returned error means the flow could not be started; a
// provider-side failure is reported through the Outcome.
func (c *Client) Login(ctx context.Context, providerAddress string) (outcome Outcome, err error) {
	ctx, span := c.tracer.Start(ctx, "provider.login")
	defer func() {
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case !outcome.Succeeded():
			span.SetStatus(codes.Error, outcome.Message)
		}
		span.End()
	}()

	authorizeURL, providerOrigin, err := authorizeAddress(providerAddress)
	if err != nil {
		return Outcome{}, err
	}
	span.SetAttributes(attribute.String("provider.origin", providerOrigin))

	c.mu.Lock()
	if c.active != nil {
		c.active.Close()
		c.active = nil
	}
	c.mu.Unlock()

	ch, err := c.window.Open(authorizeURL, c.opts.WindowFeatures)
	if err != nil {
		return Outcome{}, fmt.Errorf("open identity provider window: %w", err)
	}
	c.mu.Lock()
	c.active = ch
	c.mu.Unlock()
	defer c.release(ch)

	c.logger.InfoContext(ctx, "identity provider window opened", "provider_origin", providerOrigin)

	for {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-ch.Closed():
			// The final message may be queued behind the close.
			if outcome, done := c.drain(ctx, ch, providerOrigin); done {
				return outcome, nil
			}
			return Outcome{Status: StatusFailure, Message: ErrorUserInterrupt}, nil
		case msg, ok := <-ch.Messages():
			if !ok {
				return Outcome{Status: StatusFailure, Message: ErrorUserInterrupt}, nil
			}
			if !weborigin.Same(msg.Origin, providerOrigin) {
				c.logger.WarnContext(ctx, "ignoring message from unexpected origin",
					"origin", msg.Origin,
					"expected", providerOrigin,
				)
				continue
			}
			outcome, done, err := c.handle(ctx, ch, msg, providerOrigin)
			if err != nil {
				return Outcome{}, err
			}
			if done {
				return outcome, nil
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, ch Channel, msg Inbound, providerOrigin string) (Outcome, bool, error) {
	switch msg.Kind {
	case KindAuthorizeReady:
		req := AuthorizeClient{
			Kind:             KindAuthorizeClient,
			SessionPublicKey: c.identity.DER(),
			MaxTimeToLive:    uint64(c.opts.MaxTimeToLive.Nanoseconds()),
			DerivationOrigin: c.opts.DerivationOrigin,
		}
		if err := ch.Post(req, providerOrigin); err != nil {
			return Outcome{}, false, fmt.Errorf("send authorize request: %w", err)
		}
		return Outcome{}, false, nil
	case KindAuthorizeSuccess:
		c.mu.Lock()
		c.chain = &delegation.Chain{
			Delegations: msg.Delegations,
			PublicKey:   msg.UserPublicKey,
		}
		c.mu.Unlock()
		c.logger.InfoContext(ctx, "identity provider issued delegation", "delegations", len(msg.Delegations))
		return Outcome{Status: StatusSuccess}, true, nil
	case KindAuthorizeFailure:
		return Outcome{Status: StatusFailure, Message: msg.Text}, true, nil
	default:
		c.logger.DebugContext(ctx, "ignoring provider message", "kind", msg.Kind)
		return Outcome{}, false, nil
	}
}

// drain handles a completion message already queued on a closed window.
func (c *Client) drain(ctx context.Context, ch Channel, providerOrigin string) (Outcome, bool) {
	for {
		select {
		case msg, ok := <-ch.Messages():
			if !ok {
				return Outcome{}, false
			}
			if !weborigin.Same(msg.Origin, providerOrigin) {
				continue
			}
			if msg.Kind != KindAuthorizeSuccess && msg.Kind != KindAuthorizeFailure {
				continue
			}
			outcome, done, err := c.handle(ctx, ch, msg, providerOrigin)
			if err == nil && done {
				return outcome, true
			}
		default:
			return Outcome{}, false
		}
	}
}

func (c *Client) release(ch Channel) {
	ch.Close()
	c.mu.Lock()
	if c.active == ch {
		c.active = nil
	}
	c.mu.Unlock()
}

// Delegation takes the chain issued by the last successful login. The client
// keeps no copy: a second call fails with ErrNotAuthenticated.
func (c *Client) Delegation() (*delegation.Chain, error) {
	c.mu.Lock()
	chain := c.chain
	c.chain = nil
	c.mu.Unlock()

	if chain == nil {
		return nil, ErrNotAuthenticated
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}
	if !bytes.Equal(chain.SessionKey(), c.identity.DER()) {
		return nil, ErrSessionKeyMismatch
	}
	return chain, nil
}

// authorizeAddress returns the authorize URL and origin of providerAddress.
func authorizeAddress(providerAddress string) (string, string, error) {
	origin, err := weborigin.Of(providerAddress)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidProvider, err)
	}
	u, err := url.Parse(providerAddress)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidProvider, err)
	}
	u.Fragment = AuthorizePath[1:]
	return u.String(), origin, nil
}
