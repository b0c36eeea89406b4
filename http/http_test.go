package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPost_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, ServiceName: "test"})

	var result struct {
		Value string `json:"value"`
	}
	if err := c.Post(context.Background(), "/thing", map[string]string{"k": "v"}, &result); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if result.Value != "ok" {
		t.Errorf("Value = %q, want %q", result.Value, "ok")
	}
}

func TestPost_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, ServiceName: "test"})

	err := c.Post(context.Background(), "/thing", nil, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "bad key" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "bad key")
	}
	if !IsUnauthorized(err) {
		t.Error("IsUnauthorized = false, want true")
	}
}

func TestRequest_SingleAttemptByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, ServiceName: "test"})

	err := c.Post(context.Background(), "/thing", nil, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestRequest_RetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:     srv.URL,
		ServiceName: "test",
		MaxAttempts: 3,
		RetryWait:   time.Millisecond,
	})

	if err := c.Post(context.Background(), "/thing", nil, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestBeforeRequest_SetsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:     srv.URL,
		ServiceName: "test",
		BeforeRequest: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer sk-test")
		},
	})

	if err := c.Post(context.Background(), "/thing", nil, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
}
