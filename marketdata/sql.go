package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/meenmo/dpm"
)

// Schema creates the tables SQLStore reads. Values are nullable so a feed
// can record a tenor it failed to publish; such a curve is rejected on load.
const Schema = `
CREATE TABLE IF NOT EXISTS curve_points (
	curve_name TEXT    NOT NULL,
	tenor_days INTEGER NOT NULL,
	value      DOUBLE PRECISION,
	PRIMARY KEY (curve_name, tenor_days)
);
CREATE TABLE IF NOT EXISTS fixings (
	index_name  TEXT NOT NULL,
	fixing_date DATE NOT NULL,
	rate        DOUBLE PRECISION,
	PRIMARY KEY (index_name, fixing_date)
);`

const (
	curveQuery = `SELECT curve_name, tenor_days, value FROM curve_points
WHERE curve_name = ANY($1) ORDER BY curve_name, tenor_days`
	fixingsQuery = `SELECT fixing_date, rate FROM fixings
WHERE index_name = $1 ORDER BY fixing_date`
	upsertPoint = `INSERT INTO curve_points (curve_name, tenor_days, value) VALUES ($1, $2, $3)
ON CONFLICT (curve_name, tenor_days) DO UPDATE SET value = EXCLUDED.value`
	upsertFixing = `INSERT INTO fixings (index_name, fixing_date, rate) VALUES ($1, $2, $3)
ON CONFLICT (index_name, fixing_date) DO UPDATE SET rate = EXCLUDED.rate`
)

// SQLStore reads curves and fixings from PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLStore connects with the postgres driver and verifies the connection.
func OpenSQLStore(ctx context.Context, dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("marketdata: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("marketdata: ping: %w", err)
	}
	return NewSQLStore(db, logger), nil
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, logger *zap.Logger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStore{db: db, logger: logger}
}

// Close releases the database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

// Migrate creates the tables if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("marketdata: migrate: %w", err)
	}
	return nil
}

// Curve implements Loader.
func (s *SQLStore) Curve(ctx context.Context, name string) (map[int]float64, error) {
	curves, err := s.LoadCurves(ctx, name)
	if err != nil {
		return nil, err
	}
	return curves[name], nil
}

// LoadCurves fetches several curves in one query. Every name must be present.
func (s *SQLStore) LoadCurves(ctx context.Context, names ...string) (map[string]map[int]float64, error) {
	rows, err := s.db.QueryContext(ctx, curveQuery, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("marketdata: query curves: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[int]float64, len(names))
	for rows.Next() {
		var (
			name  string
			tenor int
			value sql.NullFloat64
		)
		if err := rows.Scan(&name, &tenor, &value); err != nil {
			return nil, fmt.Errorf("marketdata: scan curve: %w", err)
		}
		var ptr *float64
		if value.Valid {
			ptr = &value.Float64
		}
		v, err := checkValue("curve "+name+" tenor", fmt.Sprint(tenor), ptr)
		if err != nil {
			return nil, err
		}
		if out[name] == nil {
			out[name] = make(map[int]float64)
		}
		out[name][tenor] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("marketdata: iterate curves: %w", err)
	}
	for _, name := range names {
		if len(out[name]) == 0 {
			return nil, fmt.Errorf("marketdata: %w: curve %q", dpm.ErrMissingMarketData, name)
		}
	}
	s.logger.Debug("curves loaded", zap.Strings("curves", names))
	return out, nil
}

// Fixings implements Loader.
func (s *SQLStore) Fixings(ctx context.Context, name string) (map[time.Time]float64, error) {
	rows, err := s.db.QueryContext(ctx, fixingsQuery, name)
	if err != nil {
		return nil, fmt.Errorf("marketdata: query fixings: %w", err)
	}
	defer rows.Close()

	out := make(map[time.Time]float64)
	for rows.Next() {
		var (
			date time.Time
			rate sql.NullFloat64
		)
		if err := rows.Scan(&date, &rate); err != nil {
			return nil, fmt.Errorf("marketdata: scan fixing: %w", err)
		}
		var ptr *float64
		if rate.Valid {
			ptr = &rate.Float64
		}
		v, err := checkValue("fixing "+name, date.Format("2006-01-02"), ptr)
		if err != nil {
			return nil, err
		}
		y, m, d := date.Date()
		out[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("marketdata: iterate fixings: %w", err)
	}
	return out, nil
}

// SaveCurve upserts every point of a curve in one transaction.
func (s *SQLStore) SaveCurve(ctx context.Context, name string, points map[int]float64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for tenor, v := range points {
			if _, err := tx.ExecContext(ctx, upsertPoint, name, tenor, v); err != nil {
				return fmt.Errorf("marketdata: save %s/%d: %w", name, tenor, err)
			}
		}
		return nil
	})
}

// SaveFixings upserts fixings in one transaction.
func (s *SQLStore) SaveFixings(ctx context.Context, name string, fixings map[time.Time]float64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for date, v := range fixings {
			if _, err := tx.ExecContext(ctx, upsertFixing, name, date, v); err != nil {
				return fmt.Errorf("marketdata: save fixing %s: %w", name, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("marketdata: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("marketdata: commit: %w", err)
	}
	return nil
}
