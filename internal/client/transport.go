package client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"inspecthub/internal/auth/models"
	"inspecthub/internal/auth/store/tokens"
	"inspecthub/internal/platform/metrics"
)

// authEndpoints pass through the pipeline untouched: no bearer header, no
// refresh on 401. Attaching or refreshing here would recurse.
var authEndpoints = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh",
	"/auth/forgot-password",
}

// Refresher is the single-flight refresh entry point shared with the session
// monitor. All pipeline 401s funnel into it so at most one refresh call is
// ever outstanding regardless of trigger source.
type Refresher interface {
	Refresh(ctx context.Context) (models.TokenPair, error)
}

// Transport is an http.RoundTripper that attaches bearer credentials and, on
// an authorization failure, performs one coordinated refresh-and-retry.
type Transport struct {
	base    http.RoundTripper
	store   tokens.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu        sync.RWMutex
	refresher Refresher
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

func WithTransportLogger(logger *slog.Logger) TransportOption {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithTransportMetrics(mx *metrics.Metrics) TransportOption {
	return func(t *Transport) {
		t.metrics = mx
	}
}

// WithBase overrides the underlying RoundTripper (http.DefaultTransport
// otherwise).
func WithBase(base http.RoundTripper) TransportOption {
	return func(t *Transport) {
		if base != nil {
			t.base = base
		}
	}
}

// NewTransport constructs the authorization pipeline over the given token
// store. The Refresher is wired separately via SetRefresher because the
// session manager that provides it is itself built on top of this transport.
func NewTransport(store tokens.Store, opts ...TransportOption) *Transport {
	t := &Transport{
		base:   http.DefaultTransport,
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("inspecthub/client"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetRefresher wires the shared refresh entry point. Until it is set, a 401
// propagates without a retry.
func (t *Transport) SetRefresher(r Refresher) {
	t.mu.Lock()
	t.refresher = r
	t.mu.Unlock()
}

func (t *Transport) currentRefresher() Refresher {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.refresher
}

func isAuthEndpoint(path string) bool {
	for _, endpoint := range authEndpoints {
		if strings.Contains(path, endpoint) {
			return true
		}
	}
	return false
}

// RoundTrip implements http.RoundTripper.
//
// Ordering guarantee: the bearer header is re-read from the store per
// attempt, never captured ahead of time, so a request retried after a
// refresh always carries the refreshed token and a request arriving after
// refresh completion observes it immediately.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAuthEndpoint(req.URL.Path) {
		return t.base.RoundTrip(req)
	}

	ctx, span := t.tracer.Start(req.Context(), "authorized_request",
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.path", req.URL.Path),
		),
	)
	defer span.End()

	resp, err := t.send(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	refresher := t.currentRefresher()
	if refresher == nil || !replayable(req) {
		return resp, nil
	}

	span.AddEvent("authorization_failure")
	pair, refreshErr := refresher.Refresh(ctx)
	if refreshErr != nil {
		// Refresh failed (or a coalesced in-flight refresh failed for all
		// waiters). Propagate the original 401, never retry again.
		t.logger.WarnContext(ctx, "token refresh after 401 failed", "error", refreshErr)
		span.SetStatus(codes.Error, "session expired")
		return resp, nil
	}
	_ = resp.Body.Close()
	_ = pair // the retry re-reads the stored token on purpose

	if t.metrics != nil {
		t.metrics.IncrementRetriedRequests()
	}
	span.AddEvent("retry_with_refreshed_token")

	retry, err := cloneForRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	return t.send(ctx, retry)
}

// send performs one attempt with the currently stored access token attached.
func (t *Transport) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	attempt := req.Clone(ctx)
	if token := t.store.AccessToken(); token != "" {
		attempt.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(attempt)
}

// replayable reports whether the request body can be safely re-sent.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.GetBody != nil
}

func cloneForRetry(ctx context.Context, req *http.Request) (*http.Request, error) {
	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return retry, nil
}
