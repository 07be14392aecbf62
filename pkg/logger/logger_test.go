package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithPresentationID(ctx, "pres-9")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"presentation_id\"")) {
		t.Fatalf("expected presentation_id to be preserved; entry=%s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info for empty level, got %v", lvl)
	}
	if lvl := ParseLevel("not-a-level"); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", lvl)
	}
	if lvl := ParseLevel("warn"); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %v", lvl)
	}
}

func TestLoggerWithFieldsDoesNotLeakBetweenContexts(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})

	scoped := log.WithFields(context.Background(), map[string]any{"user_id": "u1"})
	log.Info(scoped, "scoped")
	log.Info(context.Background(), "bare")

	entries := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !bytes.Contains(entries[0], []byte("user_id")) {
		t.Fatalf("expected scoped entry to carry user_id: %s", entries[0])
	}
	if bytes.Contains(entries[1], []byte("user_id")) {
		t.Fatalf("bare entry should not carry user_id: %s", entries[1])
	}
}
