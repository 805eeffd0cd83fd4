package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/config"
)

const connectTimeout = 5 * time.Second

// NewPostgresPool creates and validates a PostgreSQL connection pool for the
// exam-record and question-bank tables.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns
	// Lambda containers freeze between invocations; drop idle conns before the server does.
	poolCfg.MaxConnIdleTime = time.Minute
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "exstem-grader"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Str("exam_table", cfg.UserExamTable).
		Str("question_table", cfg.QuestionTable).
		Msg("PostgreSQL connected")

	return pool, nil
}
