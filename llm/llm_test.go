package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwhitfield/commitflow/prompt"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, prompt.NewLoader(t.TempDir()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return srv, client
}

func completionResponse(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestNewClient_NoAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, prompt.NewLoader(t.TempDir()))
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("error = %v, want ErrNoAPIKey", err)
	}
}

func TestComplete(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(completionResponse("  hello world  ")))
	})

	got, err := client.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Complete = %q, want %q", got, "hello world")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("model = %q, want %q", gotReq.Model, DefaultModel)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "say hello" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("error = %v, want ErrEmptyCompletion", err)
	}
}

func TestComplete_APIError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error = %v, want message from body", err)
	}
}

func TestCommitMessage(t *testing.T) {
	var gotPrompt string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Messages[0].Content
		w.Write([]byte(completionResponse("feat(auth): add refresh token")))
	})

	got, err := client.CommitMessage(context.Background(),
		"diff --git a/auth.go b/auth.go", []string{"auth.go", "auth_test.go"})
	if err != nil {
		t.Fatalf("CommitMessage: %v", err)
	}
	if got != "feat(auth): add refresh token" {
		t.Errorf("CommitMessage = %q", got)
	}
	for _, want := range []string{"auth.go", "auth_test.go", "diff --git"} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCommitMessage_StripsFence(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("```\nfix: correct nil check\n```")))
	})

	got, err := client.CommitMessage(context.Background(), "diff", []string{"a.go"})
	if err != nil {
		t.Fatalf("CommitMessage: %v", err)
	}
	if got != "fix: correct nil check" {
		t.Errorf("CommitMessage = %q", got)
	}
}

func TestCommitMessage_TruncatesDiff(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Messages[0].Content
		w.Write([]byte(completionResponse("chore: update generated code")))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		MaxDiffBytes: 100,
	}, prompt.NewLoader(t.TempDir()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.CommitMessage(context.Background(), strings.Repeat("x", 500), []string{"gen.go"})
	if err != nil {
		t.Fatalf("CommitMessage: %v", err)
	}
	if !strings.Contains(gotPrompt, "(diff truncated)") {
		t.Error("prompt missing truncation marker")
	}
	if strings.Count(gotPrompt, "x") > 150 {
		t.Error("diff was not truncated")
	}
}
