package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/model"
	"github.com/stemsi/exstem-grader/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordKey struct {
	examID int64
	userID string
}

type memoryExamStore struct {
	mu      sync.Mutex
	records map[recordKey]model.ExamRecord
}

func newMemoryExamStore() *memoryExamStore {
	return &memoryExamStore{records: make(map[recordKey]model.ExamRecord)}
}

func (m *memoryExamStore) Put(_ context.Context, rec *model.ExamRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey{rec.ExamID, rec.UserID}] = *rec
	return nil
}

func (m *memoryExamStore) PutIfAbsent(ctx context.Context, rec *model.ExamRecord) error {
	m.mu.Lock()
	_, ok := m.records[recordKey{rec.ExamID, rec.UserID}]
	m.mu.Unlock()
	if ok {
		return repository.ErrAlreadyExists
	}
	return m.Put(ctx, rec)
}

func (m *memoryExamStore) Get(_ context.Context, examID int64, userID string) (*model.ExamRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey{examID, userID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (m *memoryExamStore) ScanByUser(_ context.Context, userID string) ([]model.ExamRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExamRecord
	for k, rec := range m.records {
		if k.userID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memoryQuestionStore struct {
	items []model.QuestionItem
}

func (m *memoryQuestionStore) Put(_ context.Context, item model.QuestionItem) error {
	m.items = append(m.items, item)
	return nil
}

type stubExtractor struct {
	items []model.QuestionItem
	err   error
}

func (s stubExtractor) Extract(context.Context, string) ([]model.QuestionItem, error) {
	return s.items, s.err
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + s
}

func do(r http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("body %q is not JSON: %v", w.Body.String(), err)
	}
	return out
}

var nop = zerolog.Nop()
