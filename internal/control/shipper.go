package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/delivery"
	"github.com/vietddude/logship/internal/dispatch"
	"github.com/vietddude/logship/internal/infra/awsclient"
	"github.com/vietddude/logship/internal/infra/ingest"
	"github.com/vietddude/logship/internal/payload"
)

// Shipper is the application: it turns invocations into deliveries.
type Shipper struct {
	cfg        Config
	ingest     *ingest.Client
	dispatcher *dispatch.Dispatcher
}

// Config holds the application configuration.
type Config struct {
	Ingest config.IngestConfig
	Retry  config.RetryConfig
}

// ConfigFrom extracts the shipper settings from the loaded app config.
func ConfigFrom(cfg *config.AppConfig) Config {
	return Config{Ingest: cfg.Ingest, Retry: cfg.Retry}
}

type options struct {
	sleep    delivery.SleepFunc
	endpoint string
}

// Option customises a Shipper.
type Option func(*options)

// WithSleep replaces the backoff wait, mostly for tests.
func WithSleep(fn delivery.SleepFunc) Option {
	return func(o *options) { o.sleep = fn }
}

// WithEndpoint overrides the ingest URL resolved from the region.
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// NewShipper creates a Shipper backed by real S3 and KMS clients.
func NewShipper(ctx context.Context, cfg Config, opts ...Option) (*Shipper, error) {
	clients, err := awsclient.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init aws clients: %w", err)
	}
	return New(cfg, clients.Objects, clients.Decrypter, opts...), nil
}

// New creates a Shipper with the given collaborators.
func New(
	cfg Config,
	fetcher dispatch.ObjectFetcher,
	decrypter payload.Decrypter,
	opts ...Option,
) *Shipper {
	o := options{endpoint: ingest.ResolveEndpoint(cfg.Ingest.Region)}
	for _, opt := range opts {
		opt(&o)
	}

	client := ingest.NewClient(o.endpoint, cfg.Ingest.Timeout)

	policy := delivery.NewPolicy(delivery.RetryConfig{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		InitialDelay:      cfg.Retry.InitialBackoff,
		BackoffMultiple:   cfg.Retry.Multiplier,
		RateLimitMultiple: cfg.Retry.RateLimitMultiplier,
	})
	if o.sleep != nil {
		policy.Sleep = o.sleep
	}

	engine := delivery.NewEngine(client, policy)
	resolver := payload.NewCredentialResolver(decrypter, cfg.Ingest.LicenseKey)

	slog.Debug("Shipper initialized",
		"endpoint", o.endpoint,
		"max_attempts", cfg.Retry.MaxAttempts,
		"initial_backoff", cfg.Retry.InitialBackoff,
	)

	return &Shipper{
		cfg:        cfg,
		ingest:     client,
		dispatcher: dispatch.NewDispatcher(fetcher, resolver, engine),
	}
}

// Invoke processes one event. The error is non-nil when the invocation could
// not be processed or when per-entry failures should fail it.
func (s *Shipper) Invoke(ctx context.Context, event []byte, inv domain.InvocationContext) (dispatch.Report, error) {
	report, err := s.dispatcher.Dispatch(ctx, event, inv)
	if err != nil {
		slog.Error("Invocation failed", "request_id", inv.RequestID, "error", err)
		return report, err
	}
	if err := report.Err(s.cfg.Ingest.FailOnRejected); err != nil {
		return report, err
	}
	return report, nil
}

// HandleLambda is the Lambda entrypoint.
func (s *Shipper) HandleLambda(ctx context.Context, event json.RawMessage) error {
	_, err := s.Invoke(ctx, event, InvocationFromContext(ctx))
	return err
}

// Endpoint returns the ingest URL in use.
func (s *Shipper) Endpoint() string {
	return s.ingest.Endpoint()
}

// Close releases network resources.
func (s *Shipper) Close() error {
	return s.ingest.Close()
}

// InvocationFromContext builds the invocation context from the Lambda runtime.
func InvocationFromContext(ctx context.Context) domain.InvocationContext {
	inv := domain.InvocationContext{
		FunctionName:  lambdacontext.FunctionName,
		LogGroupName:  lambdacontext.LogGroupName,
		LogStreamName: lambdacontext.LogStreamName,
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		inv.InvokedFunctionARN = lc.InvokedFunctionArn
		inv.RequestID = lc.AwsRequestID
	}
	return inv
}
