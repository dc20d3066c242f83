package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TimeWise/internal/domain/models"
	domrepo "TimeWise/internal/domain/repository"
	domsvc "TimeWise/internal/domain/service"
	icache "TimeWise/internal/service/cache"
	"TimeWise/internal/services/regression"
	applogger "TimeWise/pkg/logger"
)

// ReportSink receives every computed report (e.g., a WebSocket hub).
type ReportSink interface {
	Broadcast(r *models.TrendReport)
}

// TrendAnalyzer fits trends over stored or ad-hoc series, persists and
// fans out the resulting reports.
type TrendAnalyzer struct {
	store    domrepo.Storage
	pub      domrepo.Publisher
	metrics  domrepo.Metrics
	cache    icache.BytesCache
	sink     ReportSink
	cacheTTL time.Duration
	l        *applogger.Logger
}

func NewTrendAnalyzer(store domrepo.Storage, pub domrepo.Publisher, metrics domrepo.Metrics) *TrendAnalyzer {
	return &TrendAnalyzer{store: store, pub: pub, metrics: metrics, cacheTTL: 30 * time.Second}
}

// SetCache injects a report cache with TTL.
func (a *TrendAnalyzer) SetCache(c icache.BytesCache, ttl time.Duration) {
	a.cache = c
	if ttl > 0 {
		a.cacheTTL = ttl
	}
}

// SetSink injects a live report sink.
func (a *TrendAnalyzer) SetSink(s ReportSink) { a.sink = s }

// SetLogger injects a structured logger.
func (a *TrendAnalyzer) SetLogger(l *applogger.Logger) { a.l = l }

// AnalyzeSeries fits the latest n stored points of a series and forecasts
// periods future values. The report is persisted, published, cached, and
// broadcast; failures past the fit are logged but do not fail the call.
func (a *TrendAnalyzer) AnalyzeSeries(ctx context.Context, series string, n, periods int) (models.TrendReport, error) {
	values, err := a.store.LatestN(ctx, series, n)
	if err != nil {
		a.metrics.RecordError("store_latest_n")
		return models.TrendReport{}, fmt.Errorf("load series %s: %w", series, err)
	}

	report, err := a.fit(series, values, periods)
	if err != nil {
		return models.TrendReport{}, err
	}

	a.fanout(ctx, &report)
	return report, nil
}

// AnalyzeValues fits the given values directly, without touching storage.
// Ad-hoc fits are not persisted or published.
func (a *TrendAnalyzer) AnalyzeValues(ctx context.Context, series string, values []float64, periods int) (models.TrendReport, error) {
	return a.fit(series, values, periods)
}

func (a *TrendAnalyzer) fit(series string, values []float64, periods int) (models.TrendReport, error) {
	start := time.Now()
	res, err := regression.Fit(values)
	if err != nil {
		a.metrics.RecordError("fit")
		return models.TrendReport{}, err
	}

	report := models.TrendReport{
		Series:    series,
		Timestamp: time.Now().UTC(),
		N:         res.N,
		Slope:     res.Coefficients.Slope,
		Intercept: res.Coefficients.Intercept,
		RSquared:  res.RSquared,
		MSE:       res.MSE,
		Forecast:  res.Forecast(periods),
	}

	a.metrics.RecordFit(series)
	a.metrics.RecordSlope(series, report.Slope)
	a.metrics.RecordLatency("fit", time.Since(start).Seconds())
	return report, nil
}

func (a *TrendAnalyzer) fanout(ctx context.Context, r *models.TrendReport) {
	if err := a.store.StoreReport(ctx, r); err != nil {
		a.metrics.RecordError("report_store")
		if a.l != nil {
			a.l.Warn("report store failed", applogger.String("series", r.Series), applogger.Error(err))
		}
	}
	if a.pub != nil {
		if err := a.pub.PublishReport(ctx, r); err != nil {
			a.metrics.RecordError("report_publish")
			if a.l != nil {
				a.l.Warn("report publish failed", applogger.String("series", r.Series), applogger.Error(err))
			}
		}
	}
	if a.cache != nil {
		if b, err := json.Marshal(r); err == nil {
			if err := a.cache.SetBytes("trend:"+r.Series, b, a.cacheTTL); err != nil && a.l != nil {
				a.l.Warn("report cache set failed", applogger.Error(err))
			}
		}
	}
	if a.sink != nil {
		a.sink.Broadcast(r)
	}
}

// CachedReport returns the latest cached report for a series, if present.
func (a *TrendAnalyzer) CachedReport(series string) (models.TrendReport, bool) {
	if a.cache == nil {
		return models.TrendReport{}, false
	}
	b, ok, err := a.cache.GetBytes("trend:" + series)
	if err != nil || !ok {
		return models.TrendReport{}, false
	}
	var r models.TrendReport
	if err := json.Unmarshal(b, &r); err != nil {
		return models.TrendReport{}, false
	}
	return r, true
}

// Reports returns stored report history for a series.
func (a *TrendAnalyzer) Reports(ctx context.Context, series string, from, to time.Time, limit int) ([]*models.TrendReport, error) {
	return a.store.Reports(ctx, series, from, to, limit)
}

var _ domsvc.TrendAnalyzer = (*TrendAnalyzer)(nil)
