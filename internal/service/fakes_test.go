package service

import (
	"context"
	"errors"
	"sync"

	"github.com/stemsi/exstem-grader/internal/model"
	"github.com/stemsi/exstem-grader/internal/repository"
)

type recordKey struct {
	examID int64
	userID string
}

// memoryExamStore is an in-memory repository.ExamRecordStore.
type memoryExamStore struct {
	mu      sync.Mutex
	records map[recordKey]model.ExamRecord
	puts    int
	err     error
}

func newMemoryExamStore() *memoryExamStore {
	return &memoryExamStore{records: make(map[recordKey]model.ExamRecord)}
}

func (m *memoryExamStore) Put(_ context.Context, rec *model.ExamRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.puts++
	m.records[recordKey{rec.ExamID, rec.UserID}] = *rec
	return nil
}

func (m *memoryExamStore) PutIfAbsent(ctx context.Context, rec *model.ExamRecord) error {
	m.mu.Lock()
	_, exists := m.records[recordKey{rec.ExamID, rec.UserID}]
	m.mu.Unlock()
	if exists {
		return repository.ErrAlreadyExists
	}
	return m.Put(ctx, rec)
}

func (m *memoryExamStore) Get(_ context.Context, examID int64, userID string) (*model.ExamRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[recordKey{examID, userID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (m *memoryExamStore) ScanByUser(_ context.Context, userID string) ([]model.ExamRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []model.ExamRecord
	for k, rec := range m.records {
		if k.userID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// memoryQuestionStore records every item it receives.
type memoryQuestionStore struct {
	items  []model.QuestionItem
	failAt int // 1-based index of the Put that fails; 0 never fails
}

var errStoreDown = errors.New("store down")

func (m *memoryQuestionStore) Put(_ context.Context, item model.QuestionItem) error {
	if m.failAt > 0 && len(m.items)+1 == m.failAt {
		return errStoreDown
	}
	m.items = append(m.items, item)
	return nil
}
