// Package dispatch hands a delegation chain back to the embedder through the
// channel its embedding context calls for.
package dispatch

import (
	"context"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"iirelay/internal/delegation"
	dErrors "iirelay/pkg/domain-errors"
	"iirelay/pkg/weborigin"
)

// DelegationParam is the query parameter that carries the chain on redirect.
const DelegationParam = "delegation"

// KindSuccess is the kind of the message posted to an embedding frame.
const KindSuccess = "success"

// ParentRelation describes the page's relationship to a hosting frame.
type ParentRelation int

const (
	// ParentNone: the page has no parent reference at all.
	ParentNone ParentRelation = iota
	// ParentSelf: the parent reference is the page's own window.
	ParentSelf
	// ParentOther: the page is framed by another window.
	ParentOther
)

// EmbeddingContext is the hand-off channel classification.
type EmbeddingContext string

const (
	Embedded EmbeddingContext = "embedded"
	TopLevel EmbeddingContext = "top_level"
)

// Message is posted to the parent frame of an embedded relay.
type Message struct {
	Kind       string `json:"kind"`
	Delegation string `json:"delegation"`
}

//go:generate mockgen -source=dispatch.go -destination=mocks/host_mock.go -package=mocks

// Host exposes the page operations the dispatcher needs.
type Host interface {
	Parent() ParentRelation
	PostToParent(msg Message, targetOrigin string) error
	Navigate(address string) error
	Replace(address string) error
}

// Dispatcher transmits a chain exactly once per call.
type Dispatcher struct {
	host   Host
	logger *slog.Logger
	tracer trace.Tracer
}

// New builds a Dispatcher. A nil tp records spans on the global provider.
func New(host Host, logger *slog.Logger, tp trace.TracerProvider) *Dispatcher {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Dispatcher{
		host:   host,
		logger: logger,
		tracer: tp.Tracer("iirelay/dispatch"),
	}
}

// Classify maps the host's parent relation to an embedding context.
func (d *Dispatcher) Classify() (EmbeddingContext, error) {
	switch d.host.Parent() {
	case ParentOther:
		return Embedded, nil
	case ParentSelf:
		return TopLevel, nil
	default:
		return "", dErrors.New(dErrors.CodeUnknownEmbeddingContext, "No parent window found")
	}
}

// Dispatch sends chain to the embedder of returnAddress. An embedded page
// posts a message scoped to the return address origin; a top-level page
// navigates to the return address with the chain appended.
func (d *Dispatcher) Dispatch(ctx context.Context, chain *delegation.Chain, returnAddress string) (EmbeddingContext, error) {
	ctx, span := d.tracer.Start(ctx, "dispatch.delegation")
	defer span.End()

	embedding, err := d.Classify()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		d.logger.WarnContext(ctx, "no parent window found")
		return "", err
	}
	span.SetAttributes(attribute.String("relay.embedding", string(embedding)))

	payload, err := chain.CanonicalJSON()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return embedding, dErrors.Wrap(err, dErrors.CodeDelegationRetrievalFailure, "serialize delegation")
	}

	switch embedding {
	case Embedded:
		err = d.post(ctx, payload, returnAddress)
	default:
		err = d.redirect(ctx, payload, returnAddress)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return embedding, err
}

func (d *Dispatcher) post(ctx context.Context, payload, returnAddress string) error {
	origin, err := Origin(returnAddress)
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "web browser detected, posting delegation to parent", "origin", origin)
	return d.host.PostToParent(Message{Kind: KindSuccess, Delegation: payload}, origin)
}

func (d *Dispatcher) redirect(ctx context.Context, payload, returnAddress string) error {
	target, err := RedirectAddress(returnAddress, payload)
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "native app detected, redirecting with delegation")

	navErr := d.host.Navigate(target)
	if navErr == nil {
		return nil
	}
	d.logger.ErrorContext(ctx, "redirect failed, replacing location", "error", navErr)
	if err := d.host.Replace(target); err != nil {
		return dErrors.Wrap(err, dErrors.CodeDelegationRetrievalFailure, "redirect failed")
	}
	return nil
}

// Origin returns the serialized origin of an http or https address, the
// only kind of target a delegation is ever posted to.
func Origin(address string) (string, error) {
	origin, err := weborigin.Of(address)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidParameter, "redirect_uri has no web origin")
	}
	return origin, nil
}

// RedirectAddress appends the escaped payload to returnAddress as the
// delegation query parameter, keeping any existing query and fragment.
func RedirectAddress(returnAddress, payload string) (string, error) {
	u, err := url.Parse(returnAddress)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidParameter, "invalid redirect_uri")
	}
	param := DelegationParam + "=" + url.QueryEscape(payload)
	if u.RawQuery == "" {
		u.RawQuery = param
	} else {
		u.RawQuery += "&" + param
	}
	u.ForceQuery = false
	return u.String(), nil
}
