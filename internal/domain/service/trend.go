package service

import (
	"context"

	"TimeWise/internal/domain/models"
)

// TrendAnalyzer fits trends over stored or ad-hoc series and produces reports.
type TrendAnalyzer interface {
	// AnalyzeSeries fits the latest n stored points of a series and
	// forecasts periods future values.
	AnalyzeSeries(ctx context.Context, series string, n, periods int) (models.TrendReport, error)

	// AnalyzeValues fits the given values directly, without touching storage.
	AnalyzeValues(ctx context.Context, series string, values []float64, periods int) (models.TrendReport, error)
}
