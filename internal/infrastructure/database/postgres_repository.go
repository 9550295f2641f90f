package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/k-shtanenko/temperature-archive/config"
	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
)

const selectRecords = `SELECT id, station, date, avg, fd_avg FROM temperatures`

type PostgresTemperatureRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresTemperatureRepository opens a lazily connecting pool; callers check
// reachability with HealthCheck.
func NewPostgresTemperatureRepository(cfg config.PostgresConfig, log logger.Logger) (*PostgresTemperatureRepository, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	repo := NewPostgresTemperatureRepositoryFromDB(db, log)
	repo.logger.Infof("Configured postgres pool for %s:%d (max %d connections)", cfg.Host, cfg.Port, cfg.MaxConnections)
	return repo, nil
}

// NewPostgresTemperatureRepositoryFromDB wraps an already opened handle.
func NewPostgresTemperatureRepositoryFromDB(db *sql.DB, log logger.Logger) *PostgresTemperatureRepository {
	return &PostgresTemperatureRepository{
		db:     db,
		logger: log.WithField("component", "postgres_temperature_repository"),
	}
}

func (r *PostgresTemperatureRepository) FindRecords(ctx context.Context, filter entities.RecordFilter) ([]entities.TemperatureRecord, error) {
	query, args := buildSelect(filter)

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError("failed to query temperatures", err)
	}
	defer rows.Close()

	records := make([]entities.TemperatureRecord, 0)
	for rows.Next() {
		var (
			record entities.TemperatureRecord
			date   time.Time
		)
		if err := rows.Scan(&record.ID, &record.Station, &date, &record.Avg, &record.FiveDayAvg); err != nil {
			return nil, fmt.Errorf("failed to scan temperature record: %w", err)
		}
		record.Date = date.UTC()
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapQueryError("failed to iterate temperatures", err)
	}

	r.logger.Debugf("Loaded %d records for %d stations in %v", len(records), len(filter.Stations), time.Since(start))
	return records, nil
}

func (r *PostgresTemperatureRepository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (r *PostgresTemperatureRepository) Close() error {
	return r.db.Close()
}

// buildSelect renders a filter into positional SQL. Station membership is an
// explicit IN list so every argument stays a scalar.
func buildSelect(filter entities.RecordFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	next := func(value any) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if len(filter.Stations) == 1 {
		conditions = append(conditions, "station = "+next(filter.Stations[0]))
	} else {
		placeholders := make([]string, len(filter.Stations))
		for i, station := range filter.Stations {
			placeholders[i] = next(station)
		}
		if len(placeholders) == 0 {
			conditions = append(conditions, "FALSE")
		} else {
			conditions = append(conditions, "station IN ("+strings.Join(placeholders, ", ")+")")
		}
	}

	if filter.From != nil {
		conditions = append(conditions, "date >= "+next(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "date <= "+next(*filter.To))
	}
	if filter.Until != nil {
		conditions = append(conditions, "date < "+next(*filter.Until))
	}

	query := selectRecords + " WHERE " + strings.Join(conditions, " AND ")
	if filter.Order == entities.SortDateDesc {
		query += " ORDER BY date DESC, id ASC"
	}

	return query, args
}

func wrapQueryError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s (sqlstate %s): %w", msg, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
