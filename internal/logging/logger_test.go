package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWritesJSONAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Str("song", "River").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["message"] != "shown" || entry["song"] != "River" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestWithOperationTagsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(Config{Level: "debug", Output: &buf}))

	ctx, _ = WithOperation(ctx, "songs.create")
	FromContext(ctx).Debug().Msg("created")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["op"] != "songs.create" {
		t.Fatalf("expected op field, got %v", entry)
	}
	if id, _ := entry["op_id"].(string); len(id) != 36 {
		t.Fatalf("expected uuid op_id, got %v", entry["op_id"])
	}
}

func TestFromContextWithoutLoggerIsSafe(t *testing.T) {
	FromContext(context.Background()).Info().Msg("dropped")
}
