package engagement

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/idhash"
	"engagement-dashboard/internal/observability"
	"engagement-dashboard/internal/period"
)

// DefaultFetchTimeout bounds each provider call of a comparison.
const DefaultFetchTimeout = 5 * time.Second

// Comparison is the result of comparing a period with the one before it.
type Comparison struct {
	Subject      domain.Subject          `json:"subject"`
	Selector     string                  `json:"selector"`
	Ready        bool                    `json:"ready"`
	Current      period.Window           `json:"current"`
	Previous     period.Window           `json:"previous"`
	Metrics      []string                `json:"metrics"`
	Deltas       map[string]period.Delta `json:"deltas"`
	Unavailable  []string                `json:"unavailable,omitempty"` // "current" and/or "previous"
	RequestToken string                  `json:"request_token"`
}

// Service compares engagement between a selected period and its predecessor.
type Service struct {
	provider Provider
	logger   *zap.Logger
	metrics  *observability.Metrics
	timeout  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a new comparison Service.
func NewService(provider Provider, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		provider: provider,
		logger:   logger.Named("engagement"),
		metrics:  observability.DefaultMetrics,
		timeout:  DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compare resolves sel relative to today, derives the comparison window and
// fetches both aggregates concurrently.
//
// A selector that does not resolve to a ready window yields Ready=false without
// fetching. calendar.ErrInvalidDate and calendar.ErrInvalidRange propagate. A
// failed fetch leaves its snapshot absent and is listed in Unavailable.
// Empty metrics select the default set for the subject kind.
func (s *Service) Compare(ctx context.Context, subject domain.Subject, sel period.Selector, today calendar.DateKey, metrics []string) (*Comparison, error) {
	if len(metrics) == 0 {
		metrics = DefaultMetrics(subject.Kind)
	}

	current, err := period.ResolveWindow(sel, today)
	if err != nil {
		s.metrics.RecordComparison(observability.OutcomeInvalid)
		return nil, err
	}

	cmp := &Comparison{
		Subject:  subject,
		Selector: sel.String(),
		Current:  current,
		Previous: period.NotReady,
		Metrics:  metrics,
	}

	if !current.Ready {
		cmp.Deltas = period.FormatDeltas(nil, nil, metrics)
		cmp.RequestToken = idhash.ComputeRequestToken(subject, sel, current, period.NotReady)
		s.metrics.RecordComparison(observability.OutcomeNotReady)
		return cmp, nil
	}

	previous, err := period.DeriveComparisonWindow(current)
	if err != nil {
		s.metrics.RecordComparison(observability.OutcomeInvalid)
		return nil, fmt.Errorf("derive comparison window: %w", err)
	}
	cmp.Ready = true
	cmp.Previous = previous
	cmp.RequestToken = idhash.ComputeRequestToken(subject, sel, current, previous)

	var curSnap, prevSnap period.Snapshot
	var curErr, prevErr error

	// Both fetches report through curErr and prevErr and return nil to the
	// group, so a failing side never cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		curSnap, curErr = s.fetch(ctx, subject, current, "current")
		return nil
	})
	g.Go(func() error {
		prevSnap, prevErr = s.fetch(ctx, subject, previous, "previous")
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compare %s: %w", subject, err)
	}

	if curErr != nil {
		cmp.Unavailable = append(cmp.Unavailable, "current")
	}
	if prevErr != nil {
		cmp.Unavailable = append(cmp.Unavailable, "previous")
	}
	cmp.Deltas = period.FormatDeltas(curSnap, prevSnap, metrics)

	switch len(cmp.Unavailable) {
	case 0:
		s.metrics.RecordComparison(observability.OutcomeComplete)
	case 1:
		s.metrics.RecordComparison(observability.OutcomePartial)
	default:
		s.metrics.RecordComparison(observability.OutcomeEmpty)
	}

	return cmp, nil
}

// fetch runs one provider call under the per-fetch timeout. Failures are
// logged, counted and wrapped in ErrProviderUnavailable.
func (s *Service) fetch(ctx context.Context, subject domain.Subject, w period.Window, side string) (period.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	snap, err := s.provider.FetchAggregate(ctx, subject, w.Start, w.End)
	elapsed := time.Since(started)
	s.metrics.RecordProviderFetch(subject.Kind.String(), side, elapsed, err)

	if err != nil {
		s.logger.Warn("aggregate fetch failed",
			zap.String("subject", subject.String()),
			zap.String("side", side),
			zap.String("start", w.Start.String()),
			zap.String("end", w.End.String()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s window: %v", ErrProviderUnavailable, side, err)
	}
	if snap == nil {
		snap = period.Snapshot{}
	}
	return snap, nil
}

// DefaultMetrics returns the counters shown for a subject kind.
func DefaultMetrics(kind domain.SubjectKind) []string {
	if kind == domain.SubjectTeam {
		return append([]string(nil), domain.TeamMetrics...)
	}
	return append([]string(nil), domain.SolicitorMetrics...)
}
