package ideas

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karimwaheed/strategy-lab/internal/config"
	"github.com/karimwaheed/strategy-lab/internal/models"
	"github.com/karimwaheed/strategy-lab/pkg/logger"
)

var (
	ideaStoreQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_store_queries_total",
			Help: "Total number of idea store queries by operation and status",
		},
		[]string{"operation", "status"},
	)

	ideaStoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idea_store_query_latency_seconds",
			Help:    "Idea store query latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"operation"},
	)
)

// PostgresStore is a Postgres-backed idea store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Postgres idea store initialized",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
	)
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ideas (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			timeframe  TEXT NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			indicators JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure ideas schema: %w", err)
	}
	return nil
}

// Get retrieves an idea by ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Idea, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, symbol, timeframe, notes, indicators, created_at, updated_at
		FROM ideas WHERE id = $1
	`, id)

	idea, err := scanIdea(row)
	observe("get", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return idea, nil
}

// List retrieves all ideas, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]*Idea, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, symbol, timeframe, notes, indicators, created_at, updated_at
		FROM ideas ORDER BY created_at DESC
	`)
	if err != nil {
		observe("list", start, err)
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	out := make([]*Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			observe("list", start, err)
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		out = append(out, idea)
	}
	observe("list", start, rows.Err())
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}
	return out, nil
}

// Create inserts a new idea.
func (s *PostgresStore) Create(ctx context.Context, idea *Idea) error {
	if err := idea.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now

	indicatorsJSON, err := json.Marshal(idea.Indicators)
	if err != nil {
		return fmt.Errorf("failed to marshal indicators: %w", err)
	}

	start := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ideas (id, name, symbol, timeframe, notes, indicators, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, idea.ID, idea.Name, idea.Symbol, idea.Timeframe, idea.Notes, indicatorsJSON, idea.CreatedAt, idea.UpdatedAt)
	observe("create", start, err)
	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}
	return nil
}

// Update replaces an existing idea, preserving created_at.
func (s *PostgresStore) Update(ctx context.Context, idea *Idea) error {
	if err := idea.Validate(); err != nil {
		return err
	}

	indicatorsJSON, err := json.Marshal(idea.Indicators)
	if err != nil {
		return fmt.Errorf("failed to marshal indicators: %w", err)
	}

	idea.UpdatedAt = time.Now()
	start := time.Now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE ideas
		SET name = $2, symbol = $3, timeframe = $4, notes = $5, indicators = $6, updated_at = $7
		WHERE id = $1
	`, idea.ID, idea.Name, idea.Symbol, idea.Timeframe, idea.Notes, indicatorsJSON, idea.UpdatedAt)
	observe("update", start, err)
	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an idea by ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	result, err := s.db.ExecContext(ctx, `DELETE FROM ideas WHERE id = $1`, id)
	observe("delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIdea(row rowScanner) (*Idea, error) {
	var idea Idea
	var indicatorsJSON []byte
	err := row.Scan(
		&idea.ID, &idea.Name, &idea.Symbol, &idea.Timeframe, &idea.Notes,
		&indicatorsJSON, &idea.CreatedAt, &idea.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(indicatorsJSON, &idea.Indicators); err != nil {
		return nil, fmt.Errorf("failed to unmarshal indicators: %w", err)
	}
	if idea.Indicators == nil {
		idea.Indicators = []models.IndicatorInstance{}
	}
	return &idea, nil
}

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		status = "error"
	}
	ideaStoreQueries.WithLabelValues(operation, status).Inc()
	ideaStoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
