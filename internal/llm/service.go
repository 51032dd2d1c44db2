package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const instrumentationName = "github.com/RichardoC/careerbot/internal/llm"

const (
	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 8

	sourceRules = "rules"
)

// Outcome is the result of one provider invocation. Reason is empty on success.
type Outcome struct {
	Text   string
	Reason string
	Err    error
}

func (o Outcome) OK() bool { return o.Reason == "" }

// Service produces replies: the active provider first, canned rules after.
type Service struct {
	provider Provider
	stats    *Stats
	slots    *semaphore.Weighted
	timeout  time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
	replies  metric.Int64Counter
	failures metric.Int64Counter
}

type Option func(*Service)

// WithTimeout bounds a single provider call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithConcurrency bounds the number of provider calls in flight.
func WithConcurrency(n int64) Option {
	return func(s *Service) { s.slots = semaphore.NewWeighted(n) }
}

func WithStats(stats *Stats) Option {
	return func(s *Service) { s.stats = stats }
}

// NewService builds a reply generator. provider may be nil, in which case
// every reply comes from the rules.
func NewService(provider Provider, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		stats:    &Stats{},
		slots:    semaphore.NewWeighted(defaultConcurrency),
		timeout:  defaultTimeout,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if s.replies, err = meter.Int64Counter("chat.replies",
		metric.WithDescription("Replies produced, by source")); err != nil {
		s.replies = noop.Int64Counter{}
	}
	if s.failures, err = meter.Int64Counter("chat.provider.failures",
		metric.WithDescription("Provider calls that fell through to the rules")); err != nil {
		s.failures = noop.Int64Counter{}
	}
	return s
}

// ProviderName is the active provider's name, or "" without one.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

func (s *Service) Stats() *Stats { return s.stats }

// GenerateReply always returns a non-empty reply. Provider failures are
// counted and logged, then answered by the rules.
func (s *Service) GenerateReply(ctx context.Context, message string) string {
	s.stats.beginCall()

	if s.provider != nil {
		name := s.provider.Name()
		out := s.invoke(ctx, message)
		if out.OK() {
			s.replies.Add(ctx, 1, metric.WithAttributes(attribute.String("source", name)))
			return out.Text
		}
		s.stats.recordFailure(out.Reason)
		s.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", out.Reason)))
		s.logger.Warn("provider failed, falling back to rule-based reply",
			zap.String("provider", name),
			zap.String("reason", out.Reason),
			zap.Error(out.Err))
	}

	s.replies.Add(ctx, 1, metric.WithAttributes(attribute.String("source", sourceRules)))
	return RuleReply(message)
}

// invoke runs the provider on its own goroutine, holding one concurrency
// slot, and waits at most s.timeout for it.
func (s *Service) invoke(ctx context.Context, message string) Outcome {
	name := s.provider.Name()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "llm.provider", trace.WithAttributes(attribute.String("provider", name)))
	defer span.End()

	out := s.await(ctx, name, message)
	if !out.OK() {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Reason)
	}
	return out
}

func (s *Service) await(ctx context.Context, name, message string) Outcome {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Outcome{Reason: name + "_canceled", Err: err}
		}
		return Outcome{Reason: name + "_busy", Err: err}
	}

	results := make(chan Outcome, 1)
	go func() {
		defer s.slots.Release(1)
		defer func() {
			if r := recover(); r != nil {
				results <- Outcome{Reason: name + "_panic", Err: fmt.Errorf("provider panic: %v", r)}
			}
		}()

		text, err := s.provider.Generate(ctx, message)
		switch {
		case err != nil:
			results <- Outcome{Reason: name + "_exception", Err: err}
		case strings.TrimSpace(text) == "":
			results <- Outcome{Reason: name + "_empty_response", Err: errEmptyResponse}
		default:
			results <- Outcome{Text: text}
		}
	}()

	select {
	case out := <-results:
		if !out.OK() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Reason = name + "_timeout"
		}
		return out
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome{Reason: name + "_timeout", Err: ctx.Err()}
		}
		return Outcome{Reason: name + "_canceled", Err: ctx.Err()}
	}
}
