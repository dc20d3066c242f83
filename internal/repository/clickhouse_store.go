package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TimeWise/internal/domain/models"
	"TimeWise/internal/domain/repository"
	applogger "TimeWise/pkg/logger"
)

// ClickHouseStore implements Storage for ClickHouse: raw series points plus
// computed trend reports.
type ClickHouseStore struct {
	db           *sql.DB
	pointsTable  string
	reportsTable string
	l            *applogger.Logger
}

// NewClickHouseStore creates ClickHouse storage.
func NewClickHouseStore(db *sql.DB, pointsTable, reportsTable string) repository.Storage {
	return &ClickHouseStore{db: db, pointsTable: pointsTable, reportsTable: reportsTable}
}

// SetLogger injects a structured logger.
func (s *ClickHouseStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseStore) Store(ctx context.Context, p *models.Point) error {
	q := fmt.Sprintf("INSERT INTO %s (series, seq, ts, value) VALUES (?, ?, ?, ?)", s.pointsTable)
	_, err := s.db.ExecContext(ctx, q,
		p.Series,
		p.Seq,
		time.Unix(p.Timestamp, 0),
		p.Value,
	)
	return err
}

func (s *ClickHouseStore) StoreBatch(ctx context.Context, points []*models.Point) error {
	if len(points) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	// Chunk size tuned to 2000 rows per batch.
	const chunkSize = 2000
	for start := 0; start < len(points); start += chunkSize {
		end := start + chunkSize
		if end > len(points) {
			end = len(points)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for _, p := range points[start:end] {
			if p == nil || p.Series == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?)")
			args = append(args,
				p.Series,
				p.Seq,
				time.Unix(p.Timestamp, 0),
				p.Value,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (series, seq, ts, value) VALUES %s", s.pointsTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// LatestN returns the values of the most recent n points of a series in
// ascending sequence order, ready to feed the fitter.
func (s *ClickHouseStore) LatestN(ctx context.Context, series string, n int) ([]float64, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT value FROM (
            SELECT seq, value FROM %s
            WHERE series = ?
            ORDER BY seq DESC
            LIMIT ?
        ) ORDER BY seq ASC
    `, s.pointsTable)
	rows, err := s.db.QueryContext(ctx, q, series, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_n query error",
				applogger.String("series", series),
				applogger.Int("n", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest n: %w", err)
	}
	defer rows.Close()

	out := make([]float64, 0, n)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_n ok",
			applogger.String("series", series),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *ClickHouseStore) StoreReport(ctx context.Context, r *models.TrendReport) error {
	q := fmt.Sprintf("INSERT INTO %s (series, ts, n, slope, intercept, r_squared, mse, forecast) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.reportsTable)
	_, err := s.db.ExecContext(ctx, q,
		r.Series,
		r.Timestamp,
		r.N,
		r.Slope,
		r.Intercept,
		r.RSquared,
		r.MSE,
		r.Forecast,
	)
	return err
}

func (s *ClickHouseStore) Reports(ctx context.Context, series string, from, to time.Time, limit int) ([]*models.TrendReport, error) {
	q := fmt.Sprintf(`
        SELECT series, ts, n, slope, intercept, r_squared, mse, forecast
        FROM %s
        WHERE series = ? AND ts >= ? AND ts <= ?
        ORDER BY ts DESC
        LIMIT ?
    `, s.reportsTable)
	rows, err := s.db.QueryContext(ctx, q, series, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}
	defer rows.Close()

	var out []*models.TrendReport
	for rows.Next() {
		var r models.TrendReport
		if err := rows.Scan(&r.Series, &r.Timestamp, &r.N, &r.Slope, &r.Intercept, &r.RSquared, &r.MSE, &r.Forecast); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *ClickHouseStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStore) Close() error {
	return nil // Managed by pkg
}
