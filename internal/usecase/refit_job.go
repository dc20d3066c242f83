package usecase

import (
	"context"
	"fmt"
	"time"

	pkgcache "TimeWise/pkg/cache"
	"TimeWise/pkg/queue"
)

// RefitPayload asks the background workers to re-run the fit for a series.
type RefitPayload struct {
	Series  string `json:"series"`
	N       int    `json:"n"`
	Periods int    `json:"periods"`
}

// RefitJob is a queue job that refreshes the trend report for a series.
type RefitJob struct {
	analyzer *TrendAnalyzer
	locks    pkgcache.Service
	window   int
	horizon  int
}

func NewRefitJob(analyzer *TrendAnalyzer, window, horizon int) *RefitJob {
	return &RefitJob{analyzer: analyzer, window: window, horizon: horizon}
}

// SetLocker installs a shared lock service so two workers never refit the
// same series at once.
func (j *RefitJob) SetLocker(c pkgcache.Service) { j.locks = c }

func (j *RefitJob) Name() string { return "trend-refit" }

func (j *RefitJob) Type() string { return "refit" }

func (j *RefitJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefitPayload](payload)
	if err != nil {
		return fmt.Errorf("refit payload: %w", err)
	}
	if p.Series == "" {
		return fmt.Errorf("refit payload: series required")
	}
	if j.locks != nil {
		key := pkgcache.GenerateKey("refit", p.Series)
		if ok, err := j.locks.TryLock(ctx, key, 30*time.Second); err == nil {
			if !ok {
				return nil // another worker holds this series
			}
			defer func() { _ = j.locks.Unlock(ctx, key) }()
		}
	}
	n := p.N
	if n < 2 {
		n = j.window
	}
	periods := p.Periods
	if periods <= 0 {
		periods = j.horizon
	}
	if _, err := j.analyzer.AnalyzeSeries(ctx, p.Series, n, periods); err != nil {
		return fmt.Errorf("refit %s: %w", p.Series, err)
	}
	return nil
}

var _ queue.Job = (*RefitJob)(nil)
