package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "llava" {
			t.Errorf("Expected model llava, got %v", req["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llava","message":{"role":"assistant","content":"{\"subject\":{}}"},"done":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL + "/api/chat")
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Query(context.Background(), "llava", "locate", "QUJD")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if out != `{"subject":{}}` {
		t.Errorf("Unexpected answer %q", out)
	}
}

func TestQueryRejectsBadImage(t *testing.T) {
	c, err := NewClient("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Query(context.Background(), "m", "p", "not base64!"); err == nil {
		t.Error("Expected error for invalid base64 payload")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient("::nope"); err == nil {
		t.Error("Expected error for invalid URL")
	}
}
