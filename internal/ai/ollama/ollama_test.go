package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiliankoe/gptmafia/internal/ai"
)

func TestCompleteWithSystem(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"  <SPEAK>hi</SPEAK>\n"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 4096)
	out, err := c.CompleteWithSystem(context.Background(), "gemma3:4b", "You are Tom.", "Your turn.")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "<SPEAK>hi</SPEAK>" {
		t.Fatalf("unexpected reply %q", out)
	}
	if got["model"] != "gemma3:4b" || got["stream"] != false {
		t.Fatalf("unexpected payload %v", got)
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", got["messages"])
	}
	opts, _ := got["options"].(map[string]any)
	if opts["num_ctx"] != float64(4096) {
		t.Fatalf("expected num_ctx 4096, got %v", got["options"])
	}
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).Complete(context.Background(), "m", "hi")
	var se *ai.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable || !se.Retryable() {
		t.Fatalf("expected a retryable status error, got %v", err)
	}
}
