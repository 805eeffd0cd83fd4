package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exstem-grader/internal/model"
)

// QuestionBankRepository stores extracted question items in Postgres.
type QuestionBankRepository struct {
	pool  *pgxpool.Pool
	table string
}

var _ QuestionStore = (*QuestionBankRepository)(nil)

// NewQuestionBankRepository creates a new QuestionBankRepository on table.
func NewQuestionBankRepository(pool *pgxpool.Pool, table string) *QuestionBankRepository {
	return &QuestionBankRepository{pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

// Put upserts item under its id.
func (r *QuestionBankRepository) Put(ctx context.Context, item model.QuestionItem) error {
	id, err := ItemKey(item)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode question item: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO `+r.table+` (id, item)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET item = EXCLUDED.item`,
		id, doc,
	)
	return err
}
