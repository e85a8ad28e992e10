package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"iirelay/internal/delegation"
	"iirelay/internal/relay/dispatch"
	"iirelay/internal/relay/dispatch/mocks"
	dErrors "iirelay/pkg/domain-errors"
	"iirelay/pkg/testutil"
)

type DispatcherSuite struct {
	suite.Suite
	ctx   context.Context
	chain *delegation.Chain
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.ctx = context.Background()
	s.chain = testutil.SampleChain()
}

func (s *DispatcherSuite) newDispatcher(t *testing.T) (*dispatch.Dispatcher, *mocks.MockHost) {
	t.Helper()
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return dispatch.New(host, logger, nil), host
}

func (s *DispatcherSuite) newTracedDispatcher(t *testing.T) (*dispatch.Dispatcher, *mocks.MockHost, *tracetest.SpanRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	return dispatch.New(host, logger, tp), host, spans
}

func (s *DispatcherSuite) canonical() string {
	out, err := s.chain.CanonicalJSON()
	s.Require().NoError(err)
	return out
}

func (s *DispatcherSuite) TestEmbedded() {
	s.T().Run("posts exactly one message scoped to the redirect origin", func(t *testing.T) {
		d, host := s.newDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentOther)
		var posted dispatch.Message
		host.EXPECT().PostToParent(gomock.Any(), "https://app.example").
			DoAndReturn(func(msg dispatch.Message, _ string) error {
				posted = msg
				return nil
			}).Times(1)

		embedding, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")

		require.NoError(t, err)
		assert.Equal(t, dispatch.Embedded, embedding)
		assert.Equal(t, dispatch.KindSuccess, posted.Kind)
		assert.JSONEq(t, s.canonical(), posted.Delegation)

		parsed, err := delegation.ParseJSON(posted.Delegation)
		require.NoError(t, err)
		assert.Equal(t, s.chain, parsed)
	})

	s.T().Run("message envelope serializes with kind and delegation", func(t *testing.T) {
		raw, err := json.Marshal(dispatch.Message{Kind: dispatch.KindSuccess, Delegation: `{"chain":[]}`})
		require.NoError(t, err)
		assert.Equal(t, `{"kind":"success","delegation":"{\"chain\":[]}"}`, string(raw))
	})

	s.T().Run("redirect without a web origin is never posted", func(t *testing.T) {
		d, host := s.newDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentOther)
		host.EXPECT().PostToParent(gomock.Any(), gomock.Any()).Times(0)

		_, err := d.Dispatch(s.ctx, s.chain, "myapp://callback")

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidParameter))
	})

	s.T().Run("post failure is returned", func(t *testing.T) {
		d, host := s.newDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentOther)
		host.EXPECT().PostToParent(gomock.Any(), gomock.Any()).Return(errors.New("detached"))

		_, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")

		require.EqualError(t, err, "detached")
	})
}

func (s *DispatcherSuite) TestTopLevel() {
	s.T().Run("navigates to redirect_uri with the delegation parameter", func(t *testing.T) {
		d, host := s.newDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentSelf)
		var target string
		host.EXPECT().Navigate(gomock.Any()).DoAndReturn(func(address string) error {
			target = address
			return nil
		})
		host.EXPECT().Replace(gomock.Any()).Times(0)

		embedding, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")

		require.NoError(t, err)
		assert.Equal(t, dispatch.TopLevel, embedding)
		require.True(t, strings.HasPrefix(target, "https://app.example/cb?delegation="))

		u, err := url.Parse(target)
		require.NoError(t, err)
		assert.JSONEq(t, s.canonical(), u.Query().Get(dispatch.DelegationParam))
	})

	s.T().Run("falls back to replace once when navigation fails", func(t *testing.T) {
		d, host := s.newDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentSelf)
		gomock.InOrder(
			host.EXPECT().Navigate(gomock.Any()).Return(errors.New("blocked")),
			host.EXPECT().Replace(gomock.Any()).Return(nil),
		)

		_, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")

		require.NoError(t, err)
	})

	s.T().Run("reports when the fallback fails too", func(t *testing.T) {
		d, host := s.newDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentSelf)
		host.EXPECT().Navigate(gomock.Any()).Return(errors.New("blocked")).Times(1)
		host.EXPECT().Replace(gomock.Any()).Return(errors.New("still blocked")).Times(1)

		_, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDelegationRetrievalFailure))
	})
}

func (s *DispatcherSuite) TestNoParent() {
	d, host := s.newDispatcher(s.T())
	host.EXPECT().Parent().Return(dispatch.ParentNone)
	host.EXPECT().PostToParent(gomock.Any(), gomock.Any()).Times(0)
	host.EXPECT().Navigate(gomock.Any()).Times(0)
	host.EXPECT().Replace(gomock.Any()).Times(0)

	_, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownEmbeddingContext))
}

func (s *DispatcherSuite) TestSpans() {
	s.T().Run("records the embedding context of a hand-off", func(t *testing.T) {
		d, host, spans := s.newTracedDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentOther)
		host.EXPECT().PostToParent(gomock.Any(), "https://app.example").Return(nil)

		_, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")
		require.NoError(t, err)

		ended := spans.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, "dispatch.delegation", ended[0].Name())
		assert.Contains(t, ended[0].Attributes(), attribute.String("relay.embedding", string(dispatch.Embedded)))
		assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	})

	s.T().Run("marks a missing parent as an error", func(t *testing.T) {
		d, host, spans := s.newTracedDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentNone)

		_, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")
		require.Error(t, err)

		ended := spans.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, codes.Error, ended[0].Status().Code)
		assert.Equal(t, "No parent window found", ended[0].Status().Description)
	})

	s.T().Run("marks a failed redirect as an error", func(t *testing.T) {
		d, host, spans := s.newTracedDispatcher(t)
		host.EXPECT().Parent().Return(dispatch.ParentSelf)
		host.EXPECT().Navigate(gomock.Any()).Return(errors.New("blocked"))
		host.EXPECT().Replace(gomock.Any()).Return(errors.New("still blocked"))

		_, err := d.Dispatch(s.ctx, s.chain, "https://app.example/cb")
		require.Error(t, err)

		ended := spans.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, codes.Error, ended[0].Status().Code)
	})
}

func TestOrigin(t *testing.T) {
	got, err := dispatch.Origin("https://App.Example:443/cb?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example", got)

	_, err = dispatch.Origin("myapp://callback")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidParameter))
}

func TestRedirectAddress(t *testing.T) {
	payload := `{"chain":[1]}`
	cases := map[string]string{
		"https://app.example/cb":          "https://app.example/cb?delegation=%7B%22chain%22%3A%5B1%5D%7D",
		"https://app.example/cb?state=ab": "https://app.example/cb?state=ab&delegation=%7B%22chain%22%3A%5B1%5D%7D",
		"https://app.example/cb#frag":     "https://app.example/cb?delegation=%7B%22chain%22%3A%5B1%5D%7D#frag",
		"myapp://auth/callback":           "myapp://auth/callback?delegation=%7B%22chain%22%3A%5B1%5D%7D",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := dispatch.RedirectAddress(in, payload)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
