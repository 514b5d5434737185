// Package readings owns the lifecycle of metric readings: validation,
// classification on every write, event publication and search indexing.
package readings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/events"
	"campus-kpi-tracker/internal/kpi"
	"campus-kpi-tracker/internal/metrics"
	"campus-kpi-tracker/internal/models"

	"go.uber.org/zap"
)

// Store is the persistence the service needs
type Store interface {
	CreateReading(ctx context.Context, r *models.MetricReading) error
	GetReading(ctx context.Context, id uint) (*models.MetricReading, error)
	UpdateReading(ctx context.Context, r *models.MetricReading) error
	DeleteReading(ctx context.Context, id uint) error
	ListReadings(ctx context.Context, f database.ReadingFilter) ([]models.MetricReading, error)
}

// Indexer mirrors readings into a search engine
type Indexer interface {
	IndexReadings(ctx context.Context, rs ...models.MetricReading) error
	RemoveReading(ctx context.Context, id uint) error
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, evt events.Event)
}

// Input is a create or patch request. Nil fields are absent.
// Status is accepted for wire compatibility and ignored.
type Input struct {
	Metric   *string  `json:"metricKind"`
	Month    *string  `json:"month"`
	Year     *int     `json:"year"`
	Actual   *float64 `json:"actual"`
	Target   *float64 `json:"target"`
	Unit     *string  `json:"unit"`
	Source   *string  `json:"source"`
	Location *string  `json:"location"`
	Status   *string  `json:"status,omitempty"`
}

type Service struct {
	store   Store
	bus     Publisher
	indexer Indexer
	clock   clock.Clock
	log     *zap.Logger
}

// Option customises a Service
type Option func(*Service)

// WithIndexer enables best-effort search indexing
func WithIndexer(ix Indexer) Option {
	return func(s *Service) { s.indexer = ix }
}

// WithClock overrides the creation timestamp source
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(store Store, bus Publisher, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store: store,
		bus:   bus,
		clock: clock.System{},
		log:   log.Named("readings"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in, classifies it and persists a new reading.
// Side effects after the insert never fail the call.
func (s *Service) Create(ctx context.Context, in Input) (*models.MetricReading, error) {
	r, err := build(in)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.store.CreateReading(ctx, r); err != nil {
		return nil, err
	}
	metrics.ReadingsCreated.WithLabelValues(string(r.Metric), string(r.Status)).Inc()
	s.log.Info("Readings: created",
		zap.Uint("id", r.ID),
		zap.String("metric", string(r.Metric)),
		zap.String("period", fmt.Sprintf("%s %d", r.Month, r.Year)),
		zap.String("status", string(r.Status)))

	if s.bus != nil {
		s.bus.Publish(ctx, events.ReadingCreated{Reading: *r, OccurredAt: now})
	}
	s.index(ctx, *r)
	return r, nil
}

// Update applies the present fields of in and recomputes the status
func (s *Service) Update(ctx context.Context, id uint, in Input) (*models.MetricReading, error) {
	r, err := s.store.GetReading(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(r, in); err != nil {
		return nil, err
	}
	r.Status = kpi.Classify(r.Actual, r.Target, r.Metric)
	r.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.UpdateReading(ctx, r); err != nil {
		return nil, err
	}
	s.index(ctx, *r)
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.MetricReading, error) {
	return s.store.GetReading(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.DeleteReading(ctx, id); err != nil {
		return err
	}
	if s.indexer != nil {
		if err := s.indexer.RemoveReading(ctx, id); err != nil {
			metrics.SearchIndexFailures.WithLabelValues("delete").Inc()
			s.log.Warn("Readings: failed to remove from search index", zap.Uint("id", id), zap.Error(err))
		}
	}
	return nil
}

// List returns readings matching f, newest first
func (s *Service) List(ctx context.Context, f database.ReadingFilter) ([]models.MetricReading, error) {
	out, err := s.store.ListReadings(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.MetricReading{}
	}
	return out, nil
}

func (s *Service) index(ctx context.Context, r models.MetricReading) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexReadings(ctx, r); err != nil {
		metrics.SearchIndexFailures.WithLabelValues("index").Inc()
		s.log.Warn("Readings: failed to index", zap.Uint("id", r.ID), zap.Error(err))
	}
}

func build(in Input) (*models.MetricReading, error) {
	if in.Metric == nil {
		return nil, models.Invalid("metricKind", "is required")
	}
	if in.Month == nil {
		return nil, models.Invalid("month", "is required")
	}
	if in.Year == nil {
		return nil, models.Invalid("year", "is required")
	}
	if in.Actual == nil {
		return nil, models.Invalid("actual", "is required")
	}
	if in.Target == nil {
		return nil, models.Invalid("target", "is required")
	}

	r := &models.MetricReading{}
	if err := apply(r, in); err != nil {
		return nil, err
	}
	r.Status = kpi.Classify(r.Actual, r.Target, r.Metric)
	return r, nil
}

func apply(r *models.MetricReading, in Input) error {
	if in.Metric != nil {
		kind, ok := models.ParseMetricKind(*in.Metric)
		if !ok {
			return models.Invalid("metricKind", "unknown metric %q", *in.Metric)
		}
		r.Metric = kind
	}
	if in.Month != nil {
		month, ok := models.NormalizeMonth(*in.Month)
		if !ok {
			return models.Invalid("month", "unknown month %q", *in.Month)
		}
		r.Month = month
	}
	if in.Year != nil {
		if err := ValidateYear(*in.Year); err != nil {
			return err
		}
		r.Year = *in.Year
	}
	if in.Actual != nil {
		if *in.Actual < 0 {
			return models.Invalid("actual", "must be >= 0")
		}
		r.Actual = *in.Actual
	}
	if in.Target != nil {
		if *in.Target < 0 {
			return models.Invalid("target", "must be >= 0")
		}
		r.Target = *in.Target
	}
	if in.Unit != nil {
		r.Unit = strings.TrimSpace(*in.Unit)
	}
	if r.Unit == "" {
		r.Unit = kpi.PolicyFor(r.Metric).DefaultUnit
	}
	if in.Source != nil {
		r.Source = strings.TrimSpace(*in.Source)
	}
	if in.Location != nil {
		r.Location = strings.TrimSpace(*in.Location)
	}
	return nil
}

// ValidateYear bounds years to a plausible reporting range
func ValidateYear(year int) error {
	if year < 1900 || year > time.Now().Year()+50 {
		return models.Invalid("year", "out of range: %d", year)
	}
	return nil
}
