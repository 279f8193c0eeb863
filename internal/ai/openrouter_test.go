package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenRouterChat_HeadersAndFirstChoice(t *testing.T) {
	var got openRouterChatReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if h := r.Header.Get("Authorization"); h != "Bearer sk-test" {
			t.Errorf("authorization = %q", h)
		}
		if h := r.Header.Get("HTTP-Referer"); h != "https://example.test" {
			t.Errorf("referer = %q", h)
		}
		if h := r.Header.Get("X-Title"); h != "assistant" {
			t.Errorf("title = %q", h)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hi there"}},{"message":{"role":"assistant","content":"ignored"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(srv.URL+"/", "sk-test", "openai/gpt-4o-mini", "https://example.test", "assistant", 0)
	reply, err := p.Chat(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "Hello"},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Hi there" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if got.Model != "openai/gpt-4o-mini" || got.Stream || len(got.Messages) != 2 || got.Messages[1].Content != "Hello" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestOpenRouterChat_OptionalHeadersOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Http-Referer"]; ok {
			t.Errorf("referer must be omitted without a site url")
		}
		if _, ok := r.Header["X-Title"]; ok {
			t.Errorf("title must be omitted without an app name")
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(srv.URL, "sk-test", "m", "", "", 0)
	if _, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "x"}}); err != nil {
		t.Fatalf("chat: %v", err)
	}
}

func TestOpenRouterChat_Errors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"empty choices", http.StatusOK, `{"choices":[]}`, "openrouter: empty response"},
		{"error field", http.StatusOK, `{"error":{"message":"rate limited"}}`, "rate limited"},
		{"non-2xx", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "openrouter: status 401"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := NewOpenRouterProvider(srv.URL, "sk-test", "m", "", "", 0)
			_, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestOpenRouterChat_RequiresKeyAndModel(t *testing.T) {
	p := NewOpenRouterProvider("http://openrouter.invalid", "", "m", "", "", 0)
	if _, err := p.Chat(context.Background(), nil); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	p = NewOpenRouterProvider("http://openrouter.invalid", "sk-test", " ", "", "", 0)
	if _, err := p.Chat(context.Background(), nil); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestOpenRouterListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/models" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if h := r.Header.Get("Authorization"); h != "Bearer sk-test" {
			t.Errorf("authorization = %q", h)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"openai/gpt-4o-mini"},{"id":""},{"id":"meta-llama/llama-3-8b-instruct"}]}`))
	}))
	defer srv.Close()

	models, err := NewOpenRouterProvider(srv.URL, "sk-test", "", "", "", 0).ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != 2 || models[0] != "openai/gpt-4o-mini" || models[1] != "meta-llama/llama-3-8b-instruct" {
		t.Fatalf("unexpected models: %v", models)
	}
}

func TestOpenRouterListModels_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewOpenRouterProvider(srv.URL, "sk-test", "", "", "", 0).ListModels(context.Background())
	if err == nil || !strings.Contains(err.Error(), "openrouter: status 502: upstream down") {
		t.Fatalf("unexpected error: %v", err)
	}
}
