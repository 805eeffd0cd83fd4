package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/config"
	"github.com/stemsi/exstem-grader/internal/database"
)

// Stores bundles the tables both surfaces use. Close releases the backing connections.
type Stores struct {
	Exams     ExamRecordStore
	Questions QuestionStore
	Ping      func(ctx context.Context) error
	Close     func()
}

// Open connects to the backend named by cfg.StorageBackend. The returned handles
// are safe for concurrent use and meant to be reused across requests.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Exams:     NewExamRecordRepository(pool, cfg.UserExamTable),
			Questions: NewQuestionBankRepository(pool, cfg.QuestionTable),
			Ping:      pool.Ping,
			Close:     pool.Close,
		}, nil

	case config.StorageRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Exams:     NewRedisExamRecordStore(rdb, cfg.UserExamTable),
			Questions: NewRedisQuestionStore(rdb, cfg.QuestionTable),
			Ping:      func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			Close:     func() { _ = rdb.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
