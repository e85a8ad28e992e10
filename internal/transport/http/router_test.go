package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"iirelay/internal/platform/metrics"
	"iirelay/pkg/testutil"
)

func TestRouterScenarios(t *testing.T) {
	testutil.Given(t, "the relay router", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		page := NewPageHandler(PageOptions{MaxTimeToLive: 8 * time.Hour}, logger, m, nil)
		router := NewRouter(page, RouterConfig{FrameAncestors: "frame-ancestors *", Gatherer: reg}, logger, m)
		_, pubHex := testutil.NewPublicKey(t)

		testutil.When(t, "opening the page with all parameters", func(t *testing.T) {
			q := url.Values{}
			q.Set("redirect_uri", "https://app.example/cb")
			q.Set("pubkey", pubHex)
			q.Set("ii_uri", "https://identity.example")
			rr := testutil.Get(router, "/?"+q.Encode())

			testutil.Then(t, "it renders one login trigger and no error", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				testutil.AssertHeader(t, rr, "Content-Security-Policy", "frame-ancestors *")
				body := string(testutil.ReadBody(t, rr))
				assert.Equal(t, 1, strings.Count(body, `id="ii-login-button"`))
				assert.Contains(t, body, `data-max-time-to-live="28800000000000"`)
				assert.NotContains(t, body, "data-log-level")
			})
		})

		testutil.When(t, "opening the page without parameters", func(t *testing.T) {
			rr := testutil.Get(router, "/")

			testutil.Then(t, "it shows the Missing message and no trigger", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusBadRequest)
				body := string(testutil.ReadBody(t, rr))
				assert.Contains(t, body, "Missing redirect_uri, pubkey, or ii_uri in query string")
				assert.NotContains(t, body, `id="ii-login-button"`)
			})
		})

		testutil.When(t, "probing health", func(t *testing.T) {
			rr := testutil.Get(router, "/health")

			testutil.Then(t, "it reports ok", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				body := testutil.UnmarshalResponse[map[string]string](t, rr)
				assert.Equal(t, "ok", (*body)["status"])
			})
		})

		testutil.When(t, "calling an unknown route", func(t *testing.T) {
			rr := testutil.Get(router, "/auth/authorize")

			testutil.Then(t, "it responds with a coded not found error", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusNotFound)
				testutil.AssertErrorCode(t, rr, "not_found")
			})
		})
	})
}
