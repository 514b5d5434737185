// Package targets manages yearly KPI goals and resolves the goal that applies
// to a location, falling back to the campus-wide value.
package targets

import (
	"context"
	"errors"
	"strings"

	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/models"

	"go.uber.org/zap"
)

type Store interface {
	CreateTarget(ctx context.Context, t *models.Target) error
	GetTarget(ctx context.Context, id uint) (*models.Target, error)
	UpdateTarget(ctx context.Context, t *models.Target) error
	DeleteTarget(ctx context.Context, id uint) error
	ListTargets(ctx context.Context, f database.TargetFilter) ([]models.Target, error)
	FindTarget(ctx context.Context, metric models.MetricKind, year int, location string) (*models.Target, error)
}

// Input is a create or patch request. Nil fields are absent.
type Input struct {
	Metric      *string  `json:"metricKind"`
	Year        *int     `json:"year"`
	TargetValue *float64 `json:"targetValue"`
	Unit        *string  `json:"unit"`
	Location    *string  `json:"location"`
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("targets")}
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Target, error) {
	if in.Metric == nil {
		return nil, models.Invalid("metricKind", "is required")
	}
	if in.Year == nil {
		return nil, models.Invalid("year", "is required")
	}
	if in.TargetValue == nil {
		return nil, models.Invalid("targetValue", "is required")
	}
	if in.Unit == nil || strings.TrimSpace(*in.Unit) == "" {
		return nil, models.Invalid("unit", "is required")
	}

	t := &models.Target{}
	if err := apply(t, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateTarget(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("Targets: created",
		zap.Uint("id", t.ID), zap.String("metric", string(t.Metric)),
		zap.Int("year", t.Year), zap.String("location", t.Location))
	return t, nil
}

func (s *Service) Update(ctx context.Context, id uint, in Input) (*models.Target, error) {
	t, err := s.store.GetTarget(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) == "" {
		return nil, models.Invalid("unit", "must not be empty")
	}
	if err := apply(t, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTarget(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteTarget(ctx, id)
}

func (s *Service) List(ctx context.Context, f database.TargetFilter) ([]models.Target, error) {
	out, err := s.store.ListTargets(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Target{}
	}
	return out, nil
}

// Resolve returns the location's own target when one exists, else the global target
func (s *Service) Resolve(ctx context.Context, metric models.MetricKind, year int, location string) (*models.Target, error) {
	location = strings.TrimSpace(location)
	if location != "" {
		t, err := s.store.FindTarget(ctx, metric, year, location)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}
	return s.store.FindTarget(ctx, metric, year, "")
}

func apply(t *models.Target, in Input) error {
	if in.Metric != nil {
		kind, ok := models.ParseMetricKind(*in.Metric)
		if !ok {
			return models.Invalid("metricKind", "unknown metric %q", *in.Metric)
		}
		t.Metric = kind
	}
	if in.Year != nil {
		if *in.Year < 1900 {
			return models.Invalid("year", "out of range: %d", *in.Year)
		}
		t.Year = *in.Year
	}
	if in.TargetValue != nil {
		if *in.TargetValue < 0 {
			return models.Invalid("targetValue", "must be >= 0")
		}
		t.TargetValue = *in.TargetValue
	}
	if in.Unit != nil {
		t.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Location != nil {
		t.Location = strings.TrimSpace(*in.Location)
	}
	return nil
}
