package telemetry

import (
	"context"
	"time"

	"codeberg.org/mutker/thermalogd/internal/thermal"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, sample *Sample) error
	Close() error
}

// Repository defines the interface for sample storage
type Repository interface {
	Store(ctx context.Context, sample *Sample) error
	Close() error
}

// Sample is one recorded temperature observation with its provenance.
type Sample struct {
	Timestamp time.Time
	Reading   thermal.Reading
	Source    string
}
