package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAITranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Model != "tiny" || len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "from en into fr") {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"bonjour\n"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL+"/v1", "tiny", "secret", 0, quietLogger())
	out, err := c.Translate(context.Background(), "hello", "en", "fr-CA")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "bonjour" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestOpenAIErrorPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "", "", 0, quietLogger())
	_, err := c.Translate(context.Background(), "hello", "", "fr")
	if err == nil || !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChatCompletionsURL(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"", DefaultOpenAIEndpoint + "/chat/completions"},
		{"http://x/v1/", "http://x/v1/chat/completions"},
		{"http://x/v1/chat/completions", "http://x/v1/chat/completions"},
		{"  http://y/openai/v1  ", "http://y/openai/v1/chat/completions"},
	}
	for _, tc := range cases {
		if got := chatCompletionsURL(tc.in); got != tc.want {
			t.Fatalf("chatCompletionsURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
