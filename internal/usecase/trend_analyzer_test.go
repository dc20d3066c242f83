package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"TimeWise/internal/domain/models"
	icache "TimeWise/internal/service/cache"
	"TimeWise/internal/services/regression"
)

type fakeStorage struct {
	values    []float64
	latestErr error
	reports   []*models.TrendReport
	storeErr  error
	points    []*models.Point
	pointErr  error
}

func (s *fakeStorage) Init(ctx context.Context) error { return nil }
func (s *fakeStorage) Store(ctx context.Context, p *models.Point) error {
	if s.pointErr != nil {
		return s.pointErr
	}
	s.points = append(s.points, p)
	return nil
}
func (s *fakeStorage) StoreBatch(ctx context.Context, p []*models.Point) error { return nil }
func (s *fakeStorage) LatestN(ctx context.Context, series string, n int) ([]float64, error) {
	if s.latestErr != nil {
		return nil, s.latestErr
	}
	if n > len(s.values) {
		n = len(s.values)
	}
	return s.values[len(s.values)-n:], nil
}
func (s *fakeStorage) StoreReport(ctx context.Context, r *models.TrendReport) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.reports = append(s.reports, r)
	return nil
}
func (s *fakeStorage) Reports(ctx context.Context, series string, from, to time.Time, limit int) ([]*models.TrendReport, error) {
	return s.reports, nil
}
func (s *fakeStorage) Health(ctx context.Context) error { return nil }
func (s *fakeStorage) Close() error                     { return nil }

type fakePublisher struct {
	published []*models.TrendReport
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, pt *models.Point) error        { return nil }
func (p *fakePublisher) PublishBatch(ctx context.Context, pts []*models.Point) error { return nil }
func (p *fakePublisher) PublishReport(ctx context.Context, r *models.TrendReport) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, r)
	return nil
}
func (p *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	fits   int
	errors map[string]int
}

func (m *fakeMetrics) RecordPointStored(backend, series string) {}
func (m *fakeMetrics) RecordFit(series string)                  { m.fits++ }
func (m *fakeMetrics) RecordError(kind string) {
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}
func (m *fakeMetrics) RecordSlope(series string, slope float64) {}
func (m *fakeMetrics) RecordLatency(op string, seconds float64) {}

type fakeSink struct {
	got []*models.TrendReport
}

func (s *fakeSink) Broadcast(r *models.TrendReport) { s.got = append(s.got, r) }

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestAnalyzeSeriesFanout(t *testing.T) {
	store := &fakeStorage{values: []float64{1, 3, 5, 7, 9}}
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	sink := &fakeSink{}

	an := NewTrendAnalyzer(store, pub, m)
	an.SetCache(icache.NewTTLCache(), time.Minute)
	an.SetSink(sink)

	report, err := an.AnalyzeSeries(context.Background(), "demo", 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(report.Slope, 2, 1e-9) || !approx(report.Intercept, 1, 1e-9) {
		t.Fatalf("unexpected coefficients: slope=%v intercept=%v", report.Slope, report.Intercept)
	}
	if report.N != 5 {
		t.Fatalf("expected n=5, got %d", report.N)
	}
	if len(report.Forecast) != 2 || !approx(report.Forecast[0], 11, 1e-9) || !approx(report.Forecast[1], 13, 1e-9) {
		t.Fatalf("unexpected forecast: %v", report.Forecast)
	}

	if len(store.reports) != 1 {
		t.Fatalf("expected 1 stored report, got %d", len(store.reports))
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published report, got %d", len(pub.published))
	}
	if len(sink.got) != 1 {
		t.Fatalf("expected 1 broadcast report, got %d", len(sink.got))
	}
	if m.fits != 1 {
		t.Fatalf("expected 1 recorded fit, got %d", m.fits)
	}

	cached, ok := an.CachedReport("demo")
	if !ok {
		t.Fatalf("expected cached report")
	}
	if !approx(cached.Slope, report.Slope, 1e-9) {
		t.Fatalf("cached slope mismatch: %v vs %v", cached.Slope, report.Slope)
	}
}

func TestAnalyzeSeriesStoreError(t *testing.T) {
	store := &fakeStorage{latestErr: errors.New("boom")}
	m := &fakeMetrics{}

	an := NewTrendAnalyzer(store, nil, m)
	if _, err := an.AnalyzeSeries(context.Background(), "demo", 5, 2); err == nil {
		t.Fatalf("expected error")
	}
	if m.errors["store_latest_n"] != 1 {
		t.Fatalf("expected store_latest_n error recorded, got %v", m.errors)
	}
}

func TestAnalyzeSeriesFanoutFailuresDoNotFail(t *testing.T) {
	store := &fakeStorage{values: []float64{1, 2, 3}, storeErr: errors.New("ch down")}
	pub := &fakePublisher{err: errors.New("kafka down")}
	m := &fakeMetrics{}

	an := NewTrendAnalyzer(store, pub, m)
	report, err := an.AnalyzeSeries(context.Background(), "demo", 3, 1)
	if err != nil {
		t.Fatalf("fanout failures must not fail the call: %v", err)
	}
	if !approx(report.Slope, 1, 1e-9) {
		t.Fatalf("unexpected slope %v", report.Slope)
	}
	if m.errors["report_store"] != 1 || m.errors["report_publish"] != 1 {
		t.Fatalf("expected fanout errors recorded, got %v", m.errors)
	}
}

func TestAnalyzeValuesEngineErrors(t *testing.T) {
	m := &fakeMetrics{}
	an := NewTrendAnalyzer(&fakeStorage{}, nil, m)

	if _, err := an.AnalyzeValues(context.Background(), "demo", nil, 0); !errors.Is(err, regression.ErrEmptyData) {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
	if _, err := an.AnalyzeValues(context.Background(), "demo", []float64{42}, 0); !errors.Is(err, regression.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := an.AnalyzeValues(context.Background(), "demo", []float64{1, math.NaN()}, 0); !errors.Is(err, regression.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if m.errors["fit"] != 3 {
		t.Fatalf("expected 3 fit errors recorded, got %v", m.errors)
	}
}

func TestAnalyzeValuesDoesNotPersist(t *testing.T) {
	store := &fakeStorage{}
	pub := &fakePublisher{}
	an := NewTrendAnalyzer(store, pub, &fakeMetrics{})

	if _, err := an.AnalyzeValues(context.Background(), "adhoc", []float64{2, 4, 6}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.reports) != 0 || len(pub.published) != 0 {
		t.Fatalf("ad-hoc fits must not be persisted or published")
	}
}
