// Package orchestrator owns the relay's interactive flow: it initializes the
// relay from the page address, waits for the user to trigger the login, runs
// the provider flow and routes its outcome to the dispatcher or the reporter.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"iirelay/internal/relay/identity"
	"iirelay/internal/relay/params"
	dErrors "iirelay/pkg/domain-errors"
)

// State is a step of the login state machine.
type State int

const (
	StateIdle State = iota
	StateAwaitingUserAction
	StateLoggingIn
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingUserAction:
		return "awaiting_user_action"
	case StateLoggingIn:
		return "logging_in"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ClientFactory builds the login client for the relay's identity.
type ClientFactory func(id identity.SignIdentity) (LoginClient, error)

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Page       Page
	Controls   Controls
	NewClient  ClientFactory
	Dispatcher Dispatcher
	Reporter   Reporter
	Logger     *slog.Logger

	// TracerProvider records the relay spans; nil means the global provider.
	TracerProvider trace.TracerProvider
}

// Orchestrator runs one relay page. The request, identity and client are
// fixed by Init; state changes are serialized by mu.
type Orchestrator struct {
	deps   Deps
	tracer trace.Tracer

	mu     sync.Mutex
	state  State
	req    *params.Request
	client LoginClient

	inflight sync.WaitGroup
}

func New(deps Deps) *Orchestrator {
	tp := deps.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Orchestrator{
		deps:   deps,
		tracer: tp.Tracer("iirelay/orchestrator"),
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Init extracts the request, builds the identity and login client, and
// attaches the login trigger. Any failure is rendered as an initialization
// failure and leaves the relay idle with no trigger attached.
func (o *Orchestrator) Init(ctx context.Context) error {
	ctx, span := o.tracer.Start(ctx, "relay.init")
	defer span.End()

	if err := o.init(ctx); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInitializationFailure) {
			err = dErrors.Wrap(err, dErrors.CodeInitializationFailure, "")
		}
		span.SetStatus(codes.Error, err.Error())
		o.deps.Reporter.Fail(ctx, err)
		return err
	}
	o.deps.Logger.InfoContext(ctx, "relay initialized, awaiting user action")
	return nil
}

func (o *Orchestrator) init(ctx context.Context) error {
	req, err := params.Parse(o.deps.Reporter, o.deps.Page.Address())
	if err != nil {
		return err
	}
	id, err := identity.New(req.CallerPublicKey)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInitializationFailure, "build identity")
	}
	client, err := o.deps.NewClient(id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInitializationFailure, "create login client")
	}
	trigger, ok := o.deps.Controls.Trigger(LoginButtonID)
	if !ok {
		return dErrors.Newf(dErrors.CodeInitializationFailure, "element #%s not found", LoginButtonID)
	}

	o.mu.Lock()
	o.req = req
	o.client = client
	o.mu.Unlock()

	if err := trigger.OnActivate(func() { o.Activate(ctx) }); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInitializationFailure, "attach login trigger")
	}

	o.mu.Lock()
	o.state = StateAwaitingUserAction
	o.mu.Unlock()
	return nil
}

// Activate starts a login attempt and returns without waiting for it. It is
// a no-op, returning false, before Init succeeded or while an attempt is in
// flight.
func (o *Orchestrator) Activate(ctx context.Context) bool {
	o.mu.Lock()
	switch o.state {
	case StateAwaitingUserAction, StateSucceeded, StateFailed:
	default:
		state := o.state
		o.mu.Unlock()
		o.deps.Logger.DebugContext(ctx, "ignoring login trigger", "state", state.String())
		return false
	}
	o.state = StateLoggingIn
	o.inflight.Add(1)
	o.mu.Unlock()

	o.deps.Reporter.Clear()
	go func() {
		defer o.inflight.Done()
		o.attempt(ctx)
	}()
	return true
}

// Wait blocks until the attempt in flight, if any, has finished.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

func (o *Orchestrator) attempt(ctx context.Context) {
	ctx, span := o.tracer.Start(ctx, "relay.login")
	defer span.End()

	o.mu.Lock()
	req, client := o.req, o.client
	o.mu.Unlock()

	outcome, err := client.Login(ctx, req.ProviderAddress)
	if err != nil {
		o.finish(ctx, span, StateFailed,
			dErrors.Wrap(err, dErrors.CodeLoginProcessFailure, ""))
		return
	}
	if !outcome.Succeeded() {
		message := outcome.Message
		if message == "" {
			message = "Unknown error"
		}
		o.finish(ctx, span, StateFailed, dErrors.New(dErrors.CodeAuthenticationRejected, message))
		return
	}

	chain, err := client.Delegation()
	if err != nil {
		o.finish(ctx, span, StateFailed,
			dErrors.Wrap(err, dErrors.CodeDelegationRetrievalFailure, ""))
		return
	}
	embedding, err := o.deps.Dispatcher.Dispatch(ctx, chain, req.ReturnAddress)
	if err != nil {
		o.finish(ctx, span, StateFailed,
			dErrors.Wrap(err, dErrors.CodeDelegationRetrievalFailure, ""))
		return
	}
	span.SetAttributes(attribute.String("relay.embedding", string(embedding)))
	o.deps.Logger.InfoContext(ctx, "delegation handed off", "embedding", string(embedding))
	o.finish(ctx, span, StateSucceeded, nil)
}

func (o *Orchestrator) finish(ctx context.Context, span trace.Span, next State, err error) {
	o.mu.Lock()
	o.state = next
	o.mu.Unlock()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		o.deps.Reporter.Fail(ctx, err)
	}
}
