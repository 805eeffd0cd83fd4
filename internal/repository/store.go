package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stemsi/exstem-grader/internal/model"
)

// Storage errors shared by every backend.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrMissingItemID = errors.New("question item has no id")
)

// ExamRecordStore is the exam-record table keyed by (exam_id, user_id).
type ExamRecordStore interface {
	// Put writes rec, replacing any previous record for the same key.
	Put(ctx context.Context, rec *model.ExamRecord) error
	// PutIfAbsent writes rec only when the key is free, else ErrAlreadyExists.
	PutIfAbsent(ctx context.Context, rec *model.ExamRecord) error
	// Get returns ErrNotFound when no record exists for the key.
	Get(ctx context.Context, examID int64, userID string) (*model.ExamRecord, error)
	// ScanByUser returns every record belonging to userID in no particular order.
	ScanByUser(ctx context.Context, userID string) ([]model.ExamRecord, error)
}

// QuestionStore is the question-bank table keyed by item id.
type QuestionStore interface {
	Put(ctx context.Context, item model.QuestionItem) error
}

// ItemKey renders the id attribute of item as the storage key.
func ItemKey(item model.QuestionItem) (string, error) {
	raw, ok := item[model.QuestionItemIDKey]
	if !ok || raw == nil {
		return "", ErrMissingItemID
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", ErrMissingItemID
		}
		return v, nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return fmt.Sprint(raw), nil
}
