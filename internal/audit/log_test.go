package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"orderdesk.org/internal/auth"
	"orderdesk.org/internal/obs"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger := obs.Logger()
	orig := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(orig) })
	return &buf
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for blank event name")
	}
}

func TestLogEventEnrichment(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{UserID: "user-1"})

	err := LogEvent(ctx, "orders.export", map[string]any{"customer_id": "c1", "rows": 2})
	if err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("audit entry is not JSON: %v", err)
	}
	if entry["event"] != "orders.export" || entry["type"] != "audit" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["request_id"] != "req-1" || entry["user_id"] != "user-1" {
		t.Fatalf("missing enrichment: %v", entry)
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["customer_id"] != "c1" {
		t.Fatalf("missing fields: %v", entry)
	}
}
