package orchestrator

import (
	"context"

	"iirelay/internal/delegation"
	"iirelay/internal/provider"
	"iirelay/internal/relay/dispatch"
)

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

// LoginClient runs the provider flow and hands out the issued chain.
type LoginClient interface {
	Login(ctx context.Context, providerAddress string) (provider.Outcome, error)
	Delegation() (*delegation.Chain, error)
}

// Dispatcher transmits a chain to the embedder.
type Dispatcher interface {
	Dispatch(ctx context.Context, chain *delegation.Chain, returnAddress string) (dispatch.EmbeddingContext, error)
}
