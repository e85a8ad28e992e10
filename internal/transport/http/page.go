package httptransport

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"iirelay/internal/platform/metrics"
	"iirelay/internal/relay/params"
	"iirelay/internal/relay/report"
	dErrors "iirelay/pkg/domain-errors"
	"iirelay/pkg/platform/httputil"
	"iirelay/pkg/requestcontext"
)

//go:embed templates/relay.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/relay.html"))

// PageOptions are the login options and log level handed to the page script.
type PageOptions struct {
	MaxTimeToLive    time.Duration
	DerivationOrigin string
	WindowFeatures   string
	AssetsPath       string
	LogLevel         string
}

type pageView struct {
	Trigger          bool
	Error            string
	MaxTimeToLive    string
	DerivationOrigin string
	WindowFeatures   string
	AssetsPath       string
	LogLevel         string
}

// PageHandler serves the relay page.
type PageHandler struct {
	opts    PageOptions
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewPageHandler constructs a page handler with its dependencies. A nil tp
// records spans on the global provider.
func NewPageHandler(opts PageOptions, logger *slog.Logger, metrics *metrics.Metrics, tp trace.TracerProvider) *PageHandler {
	if opts.AssetsPath == "" {
		opts.AssetsPath = "/assets"
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &PageHandler{
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		tracer:  tp.Tracer("iirelay/transport/http"),
	}
}

// Register mounts the page and health endpoints on the router.
func (h *PageHandler) Register(r chi.Router) {
	r.Get("/", h.HandlePage)
	r.Get("/health", h.HandleHealth)
}

// HandlePage handles GET / requests. Parameters are validated before any
// script runs; an invalid request gets the page with the error shown and no
// login trigger.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "relay.page", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	requestID := requestcontext.RequestID(ctx)
	start := requestcontext.Now(ctx)
	defer func() {
		h.metrics.ObserveRenderDuration(time.Since(start))
	}()

	view := pageView{
		MaxTimeToLive:    strconv.FormatInt(h.opts.MaxTimeToLive.Nanoseconds(), 10),
		DerivationOrigin: h.opts.DerivationOrigin,
		WindowFeatures:   h.opts.WindowFeatures,
		AssetsPath:       h.opts.AssetsPath,
		LogLevel:         h.opts.LogLevel,
	}
	status := http.StatusOK

	if _, err := params.Extract(r.URL.String()); err != nil {
		code := dErrors.CodeOf(err)
		h.logger.InfoContext(ctx, "relay page rejected",
			"request_id", requestID,
			"code", string(code),
			"error", err,
		)
		h.metrics.IncrementPagesRejected(string(code))
		span.SetStatus(codes.Error, err.Error())
		view.Error = report.Format(report.StageLabel(code), err)
		status = http.StatusBadRequest
	} else {
		h.metrics.IncrementPagesRendered()
		view.Trigger = true
	}

	span.SetAttributes(
		attribute.String("relay.request_id", requestID),
		attribute.Int("http.response.status_code", status),
	)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		h.logger.ErrorContext(ctx, "failed to render relay page",
			"request_id", requestID,
			"error", err,
		)
		span.SetStatus(codes.Error, err.Error())
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(ctx, "failed to write relay page",
			"request_id", requestID,
			"error", err,
		)
	}
}

// HandleHealth handles GET /health requests.
func (h *PageHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
