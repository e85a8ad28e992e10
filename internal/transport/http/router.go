package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"iirelay/internal/platform/metrics"
	"iirelay/internal/platform/middleware"
	dErrors "iirelay/pkg/domain-errors"
	"iirelay/pkg/platform/httputil"
	"iirelay/pkg/platform/middleware/metadata"
	"iirelay/pkg/platform/middleware/requesttime"
)

// RouterConfig carries the router's static settings.
type RouterConfig struct {
	// AssetsDir is served under /assets/.
	AssetsDir string
	// FrameAncestors is the complete CSP frame-ancestors directive.
	FrameAncestors string
	Gatherer       prometheus.Gatherer
}

// NewRouter wires all public endpoints.
func NewRouter(page *PageHandler, cfg RouterConfig, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(logger, m))
	r.Use(middleware.SecurityHeaders(cfg.FrameAncestors))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	page.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if cfg.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))
	}
	return r
}
