package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer mail-key" {
			t.Fatalf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		to, ok := req["to"].([]any)
		if !ok || len(to) != 1 || to[0] != "buyer@example.com" {
			t.Fatalf("unexpected recipients: %v", req["to"])
		}
		if req["from"] != "no-reply@example.com" {
			t.Fatalf("unexpected sender: %v", req["from"])
		}
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "mail-key")
	id, err := c.Send(context.Background(), Message{
		From:    "no-reply@example.com",
		To:      "buyer@example.com",
		Subject: "Order confirmed",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "msg_123" {
		t.Fatalf("unexpected message id %q", id)
	}
}

func TestSendProviderErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"name":"validation_error","message":"invalid from address"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if _, err := c.Send(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestSendProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if _, err := c.Send(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	c := NewClient(srv.URL, "k")
	if _, err := c.Send(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
