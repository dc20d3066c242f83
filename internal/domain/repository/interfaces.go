package repository

import (
	"context"
	"time"

	"TimeWise/internal/domain/models"
)

// ObservationStream is a live feed of series points (WebSocket or similar).
type ObservationStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Point, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher publishes points and trend reports to a message backend.
type Publisher interface {
	Publish(ctx context.Context, p *models.Point) error
	PublishBatch(ctx context.Context, points []*models.Point) error
	PublishReport(ctx context.Context, r *models.TrendReport) error
	Close() error
}

// Storage persists series points and trend reports.
type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, p *models.Point) error
	StoreBatch(ctx context.Context, points []*models.Point) error
	LatestN(ctx context.Context, series string, n int) ([]float64, error)
	StoreReport(ctx context.Context, r *models.TrendReport) error
	Reports(ctx context.Context, series string, from, to time.Time, limit int) ([]*models.TrendReport, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records operational counters and gauges.
type Metrics interface {
	RecordPointStored(backend, series string)
	RecordFit(series string)
	RecordError(kind string)
	RecordSlope(series string, slope float64)
	RecordLatency(op string, seconds float64)
}
