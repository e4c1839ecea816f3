package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestJSONLoggerCarriesServiceAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "retriever", "debug")

	ctx := WithRequestID(context.Background(), "req-42")
	FromContext(ctx, logger).Info("retrieval_served", "department", "HR")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record["service"] != "retriever" || record["request_id"] != "req-42" || record["msg"] != "retrieval_served" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "svc", "info")
	FromContext(context.Background(), logger).Info("x")

	var record map[string]any
	_ = json.Unmarshal(buf.Bytes(), &record)
	if _, ok := record["request_id"]; ok {
		t.Fatalf("unexpected request_id in %v", record)
	}
}
