package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-grader/internal/extraction"
	"github.com/stemsi/exstem-grader/internal/middleware"
	"github.com/stemsi/exstem-grader/internal/model"
	"github.com/stemsi/exstem-grader/internal/service"
	"github.com/stemsi/exstem-grader/internal/validator"
)

func newIngestionRouter(t *testing.T, ex extraction.Extractor, store *memoryQuestionStore, maxBody int64) *gin.Engine {
	t.Helper()
	validator.Setup()
	svc := service.NewIngestionService(ex, store, nil, service.NewNormalizer(service.IDSchemeUUID), t.TempDir(), nop)
	h := NewIngestionHandler(svc, maxBody, nop)

	r := gin.New()
	r.Use(middleware.PermissiveCORS())
	r.Any("/ingest", h.Handle)
	return r
}

func fileBody(data string) string {
	return `{"file":"` + base64.StdEncoding.EncodeToString([]byte(data)) + `"}`
}

func TestIngestSuccess(t *testing.T) {
	store := &memoryQuestionStore{}
	ex := stubExtractor{items: []model.QuestionItem{{"question": "Q1"}, {"id": "x", "question": "Q2"}}}
	r := newIngestionRouter(t, ex, store, 1<<20)

	w := do(r, http.MethodPost, "/ingest", fileBody("%PDF-1.4"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["status"] != "success" || got["questions"] != float64(2) || got["uploaded"] != float64(2) {
		t.Errorf("body = %v", got)
	}
	if len(store.items) != 2 {
		t.Errorf("stored %d items", len(store.items))
	}
}

func TestIngestErrors(t *testing.T) {
	ok := stubExtractor{items: []model.QuestionItem{{"q": 1}}}

	tests := []struct {
		name       string
		ex         extraction.Extractor
		body       string
		wantStatus int
		wantError  string
	}{
		{"no body", ok, "", http.StatusBadRequest, "No body received"},
		{"blank body", ok, "   ", http.StatusBadRequest, "No body received"},
		{"invalid json", ok, "{nope", http.StatusBadRequest, "Invalid JSON body: "},
		{"missing file", ok, `{"name":"a.pdf"}`, http.StatusBadRequest, ""},
		{"bad base64", ok, `{"file":"***"}`, http.StatusBadRequest, "Invalid base64 PDF: "},
		{"nothing extracted", stubExtractor{items: nil}, fileBody("pdf"), http.StatusInternalServerError, "No questions extracted from PDF"},
		{"extractor failed", stubExtractor{err: errors.New("exit status 2")}, fileBody("pdf"), http.StatusInternalServerError, "Extraction failed: exit status 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newIngestionRouter(t, tt.ex, &memoryQuestionStore{}, 1<<20)
			w := do(r, http.MethodPost, "/ingest", tt.body, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			got := decode(t, w)
			if tt.name == "missing file" {
				if got["message"] != "Missing 'file' field in body" {
					t.Errorf("message = %v", got["message"])
				}
				if e, _ := got["error"].(string); e != "Missing 'file' field in body: file is a required field" {
					t.Errorf("error = %q", e)
				}
				return
			}
			if e, _ := got["error"].(string); !strings.HasPrefix(e, tt.wantError) {
				t.Errorf("error = %q, want prefix %q", e, tt.wantError)
			}
			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("missing CORS header")
			}
		})
	}
}

func TestIngestTooLarge(t *testing.T) {
	r := newIngestionRouter(t, stubExtractor{}, &memoryQuestionStore{}, 64)
	w := do(r, http.MethodPost, "/ingest", fileBody(strings.Repeat("x", 200)), nil)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", w.Code)
	}
}

func TestIngestMethods(t *testing.T) {
	r := newIngestionRouter(t, stubExtractor{}, &memoryQuestionStore{}, 1<<20)

	w := do(r, http.MethodOptions, "/ingest", "", nil)
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Errorf("OPTIONS = %d %q", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/ingest", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET = %d", w.Code)
	}
}

func TestDecodeDocument(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString([]byte("hello pdf"))
	wrapped := enc[:4] + "\n" + enc[4:8] + "\r\n " + enc[8:]
	got, err := decodeDocument(wrapped)
	if err != nil || string(got) != "hello pdf" {
		t.Errorf("decodeDocument = %q, %v", got, err)
	}
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/ok", NewHealthHandler(nil).Check)
	r.GET("/down", NewHealthHandler(func(context.Context) error { return errors.New("conn refused") }).Check)

	if w := do(r, http.MethodGet, "/ok", "", nil); w.Code != http.StatusOK {
		t.Errorf("ok = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/down", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("down = %d", w.Code)
	}
}
