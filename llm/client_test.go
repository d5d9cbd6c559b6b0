package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-3.5-turbo" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[{\"item_id\":\"1\"}]"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", "gpt-3.5-turbo", 500, WithBaseURL(srv.URL))
	got, err := c.Complete(context.Background(), "score these")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != `[{"item_id":"1"}]` {
		t.Fatalf("unexpected completion %q", got)
	}
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("k", "gpt-3.5-turbo", 500, WithBaseURL(srv.URL))
	if _, err := c.Complete(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on API failure")
	}
}
