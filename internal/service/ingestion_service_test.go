package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/extraction"
	"github.com/stemsi/exstem-grader/internal/model"
)

type fakeExtractor struct {
	items    []model.QuestionItem
	err      error
	seenPath string
	seenData []byte
}

func (f *fakeExtractor) Extract(_ context.Context, path string) ([]model.QuestionItem, error) {
	f.seenPath = path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.seenData = data
	return f.items, f.err
}

type fakeArchive struct {
	stored int
	err    error
}

func (f *fakeArchive) Store(_ context.Context, name string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.stored++
	return "uploads/" + name, nil
}

func newTestIngestionService(t *testing.T, ex extraction.Extractor, store *memoryQuestionStore, archive DocumentArchive) *IngestionService {
	t.Helper()
	return NewIngestionService(ex, store, archive, NewNormalizer(IDSchemeUUID), t.TempDir(), zerolog.Nop())
}

func TestIngest(t *testing.T) {
	ex := &fakeExtractor{items: []model.QuestionItem{
		{"id": "keep-me", "question": "Q1"},
		{"question": "Q2"},
	}}
	store := &memoryQuestionStore{}
	archive := &fakeArchive{}
	svc := newTestIngestionService(t, ex, store, archive)

	res, err := svc.Ingest(context.Background(), []byte("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Status != "success" || res.Questions != 2 || res.Uploaded != 2 {
		t.Errorf("result = %+v", res)
	}
	if string(ex.seenData) != "%PDF-1.4 test" {
		t.Errorf("extractor read %q", ex.seenData)
	}
	if _, err := os.Stat(ex.seenPath); !os.IsNotExist(err) {
		t.Errorf("temp file %s still exists (err=%v)", ex.seenPath, err)
	}
	if archive.stored != 1 {
		t.Errorf("archived %d documents", archive.stored)
	}
	if len(store.items) != 2 || store.items[0]["id"] != "keep-me" {
		t.Fatalf("stored = %v", store.items)
	}
	if id, _ := store.items[1]["id"].(string); id == "" {
		t.Errorf("second item got no id: %v", store.items[1])
	}
}

func TestIngestErrors(t *testing.T) {
	tests := []struct {
		name string
		ex   *fakeExtractor
		want error
	}{
		{"empty list", &fakeExtractor{items: []model.QuestionItem{}}, ErrNoQuestionsExtracted},
		{"not a list", &fakeExtractor{err: extraction.ErrNoList}, ErrNoQuestionsExtracted},
		{"extractor crash", &fakeExtractor{err: fmt.Errorf("exit status 1")}, ErrExtractionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryQuestionStore{}
			svc := newTestIngestionService(t, tt.ex, store, nil)
			if _, err := svc.Ingest(context.Background(), []byte("pdf")); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(store.items) != 0 {
				t.Errorf("stored %d items", len(store.items))
			}
			if _, err := os.Stat(tt.ex.seenPath); !os.IsNotExist(err) {
				t.Errorf("temp file left behind")
			}
		})
	}
}

func TestIngestUploadFailureStopsBatch(t *testing.T) {
	ex := &fakeExtractor{items: []model.QuestionItem{{"q": 1}, {"q": 2}, {"q": 3}}}
	store := &memoryQuestionStore{failAt: 2}
	svc := newTestIngestionService(t, ex, store, nil)

	_, err := svc.Ingest(context.Background(), []byte("pdf"))
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
	if len(store.items) != 1 {
		t.Errorf("stored %d items before failure, want 1", len(store.items))
	}
}

func TestIngestArchiveFailureIsIgnored(t *testing.T) {
	ex := &fakeExtractor{items: []model.QuestionItem{{"q": 1}}}
	store := &memoryQuestionStore{}
	svc := newTestIngestionService(t, ex, store, &fakeArchive{err: errors.New("bucket gone")})

	res, err := svc.Ingest(context.Background(), []byte("pdf"))
	if err != nil || res.Uploaded != 1 {
		t.Errorf("res = %+v, err = %v", res, err)
	}
}

func TestIngestUnwritableTempDir(t *testing.T) {
	svc := NewIngestionService(&fakeExtractor{}, &memoryQuestionStore{}, nil, NewNormalizer(IDSchemeUUID),
		"/nonexistent/dir/for/uploads", zerolog.Nop())
	if _, err := svc.Ingest(context.Background(), []byte("pdf")); !errors.Is(err, ErrSaveDocument) {
		t.Errorf("err = %v, want ErrSaveDocument", err)
	}
}
