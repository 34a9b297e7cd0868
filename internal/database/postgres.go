package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect creates a pgx connection pool with the metrics tracer attached and
// verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolCfg.ConnConfig.Tracer = &MetricsTracer{}

	slog.Info("Database SSL mode", "sslmode", extractSSLMode(databaseURL))

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected", "min_conns", poolCfg.MinConns, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

func extractSSLMode(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "unknown"
	}
	mode := strings.ToLower(u.Query().Get("sslmode"))
	if mode == "" {
		return "prefer (default)"
	}
	return mode
}

const (
	// migrationLockID is a PostgreSQL advisory lock ID for coordinating
	// migrations across replicas. Value: 0x73656e7469 ("senti" in ASCII hex)
	migrationLockID             = 0x73656e7469
	migrationLockReleaseTimeout = 5 * time.Second
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
		score INT NOT NULL,
		feedback TEXT NOT NULL DEFAULT '',
		sentiment TEXT NOT NULL DEFAULT 'neutral',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (event_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		container_kind TEXT NOT NULL,
		container_id UUID NOT NULL,
		author_id UUID NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		sentiment TEXT NOT NULL DEFAULT 'neutral',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_container ON comments(container_kind, container_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_author_recent ON comments(container_kind, container_id, author_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS questionnaires (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		questionnaire_id UUID NOT NULL REFERENCES questionnaires(id) ON DELETE CASCADE,
		trait TEXT NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS responses (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		questionnaire_id UUID NOT NULL REFERENCES questionnaires(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS response_answers (
		response_id UUID NOT NULL REFERENCES responses(id) ON DELETE CASCADE,
		question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		rating INT NOT NULL,
		PRIMARY KEY (response_id, question_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_responses_questionnaire ON responses(questionnaire_id, author_id)`,
}

// RunMigrationsWithLock applies the schema migrations under a PostgreSQL
// advisory lock so multiple replicas starting at once do not race.
func RunMigrationsWithLock(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for migration: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), migrationLockReleaseTimeout)
		defer cancel()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			slog.Error("failed to release migration lock", "error", err)
		}
	}()

	slog.Info("running database migrations")
	for _, migration := range migrations {
		if _, err := conn.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
