package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exstem-grader/internal/model"
)

// ExamRecordRepository stores exam records in Postgres. The full record is kept
// as JSONB; exam_id, user_id and exam_finish_time are duplicated as columns.
type ExamRecordRepository struct {
	pool  *pgxpool.Pool
	table string
}

var _ ExamRecordStore = (*ExamRecordRepository)(nil)

// NewExamRecordRepository creates a new ExamRecordRepository on table.
func NewExamRecordRepository(pool *pgxpool.Pool, table string) *ExamRecordRepository {
	return &ExamRecordRepository{pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

// Put upserts rec. Concurrent submissions for the same key: last writer wins.
func (r *ExamRecordRepository) Put(ctx context.Context, rec *model.ExamRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode exam record: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO `+r.table+` (exam_id, user_id, exam_finish_time, record)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (exam_id, user_id) DO UPDATE
		 SET exam_finish_time = EXCLUDED.exam_finish_time, record = EXCLUDED.record`,
		rec.ExamID, rec.UserID, rec.ExamFinishTime, doc,
	)
	return err
}

// PutIfAbsent inserts rec and reports ErrAlreadyExists when the key is taken.
func (r *ExamRecordRepository) PutIfAbsent(ctx context.Context, rec *model.ExamRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode exam record: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO `+r.table+` (exam_id, user_id, exam_finish_time, record)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (exam_id, user_id) DO NOTHING`,
		rec.ExamID, rec.UserID, rec.ExamFinishTime, doc,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// Get retrieves the record of one user for one exam.
func (r *ExamRecordRepository) Get(ctx context.Context, examID int64, userID string) (*model.ExamRecord, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT record FROM `+r.table+` WHERE exam_id = $1 AND user_id = $2`,
		examID, userID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec := &model.ExamRecord{}
	if err := json.Unmarshal(doc, rec); err != nil {
		return nil, fmt.Errorf("decode exam record: %w", err)
	}
	return rec, nil
}

// ScanByUser retrieves all records of a user.
func (r *ExamRecordRepository) ScanByUser(ctx context.Context, userID string) ([]model.ExamRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT record FROM `+r.table+` WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ExamRecord
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var rec model.ExamRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode exam record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
