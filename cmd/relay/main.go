//go:build js && wasm

// Command relay is the page program of the Internet Identity relay. It is
// built with GOOS=js GOARCH=wasm and served as /assets/relay.wasm.
package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"iirelay/internal/platform/browser"
	"iirelay/internal/platform/logger"
	"iirelay/internal/provider"
	"iirelay/internal/relay/dispatch"
	"iirelay/internal/relay/identity"
	"iirelay/internal/relay/orchestrator"
	"iirelay/internal/relay/report"
	dErrors "iirelay/pkg/domain-errors"
)

// rootElementID carries the login options as data attributes.
const rootElementID = "relay"

// logLevelAttr is the dataset name of the data-log-level attribute.
const logLevelAttr = "logLevel"

func main() {
	page := browser.NewPage()
	attrs, _ := page.Dataset(rootElementID)
	log := browser.NewLogger(logger.ParseLevel(attrs[logLevelAttr]))
	ctx := context.Background()
	tp := otel.GetTracerProvider()

	opts, optsErr := provider.OptionsFromAttributes(attrs)
	relay := orchestrator.New(orchestrator.Deps{
		Page:     page,
		Controls: page,
		NewClient: func(id identity.SignIdentity) (orchestrator.LoginClient, error) {
			if optsErr != nil {
				return nil, dErrors.Wrap(optsErr, dErrors.CodeInitializationFailure, "read login options")
			}
			return provider.NewClient(browser.NewProviderWindow(log), id, log,
				append(opts, provider.WithTracerProvider(tp))...), nil
		},
		Dispatcher:     dispatch.New(page, log, tp),
		Reporter:       report.New(page, log),
		Logger:         log,
		TracerProvider: tp,
	})
	if err := relay.Init(ctx); err != nil {
		log.ErrorContext(ctx, "relay initialization failed", "error", err)
	}

	// Callbacks registered with the page need the runtime alive.
	select {}
}
