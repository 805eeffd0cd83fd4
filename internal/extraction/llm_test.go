package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func fakeChatServer(t *testing.T, content string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if gotPrompt != nil && len(req.Messages) > 1 {
			*gotPrompt = req.Messages[1].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLLMExtractor(t *testing.T) {
	var prompt string
	srv := fakeChatServer(t, `{"questions":[{"question":"Q1","options":["A","B"],"correct_answer":"A","type":"multiple_choice"}]}`, &prompt)
	path := writeFile(t, "1. Q1\nA. yes\nB. no\n")

	ex, err := NewLLMExtractor("cat {file}", srv.URL+"/v1", "test-key", "test-model", 5*time.Second)
	if err != nil {
		t.Fatalf("NewLLMExtractor: %v", err)
	}
	items, err := ex.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 || items[0]["question"] != "Q1" {
		t.Errorf("items = %v", items)
	}
	if !strings.Contains(prompt, "A. yes") {
		t.Errorf("document text not sent to model: %q", prompt)
	}
}

func TestLLMExtractorEmptyText(t *testing.T) {
	srv := fakeChatServer(t, `{"questions":[]}`, nil)
	path := writeFile(t, "   \n")

	ex, err := NewLLMExtractor("cat {file}", srv.URL+"/v1", "k", "m", time.Second)
	if err != nil {
		t.Fatalf("NewLLMExtractor: %v", err)
	}
	if _, err := ex.Extract(context.Background(), path); !errors.Is(err, ErrNoList) {
		t.Errorf("err = %v, want ErrNoList", err)
	}
}
