package events

import (
	"time"

	"campus-kpi-tracker/internal/models"
)

const ReadingCreatedName = "reading.created"

// ReadingCreated is published after a reading has been persisted
type ReadingCreated struct {
	Reading    models.MetricReading
	OccurredAt time.Time
}

func (ReadingCreated) EventName() string { return ReadingCreatedName }
