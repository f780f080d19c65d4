package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"err":     slog.LevelError,
		"trace":   slog.LevelDebug - 2,
		"bogus":   slog.LevelInfo,
	}
	for input, expected := range cases {
		if got := ParseLevel(input); got != expected {
			t.Fatalf("ParseLevel(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "info", Format: "json", Service: "askroom-web"})

	logger.Debug("hidden")
	logger.Info("visible", slog.String("roomId", "r1"))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("expected a single json record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "visible" || record["service"] != "askroom-web" || record["roomId"] != "r1" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestOpenDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	file, err := OpenDailyFile(dir, time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	if filepath.Base(file.Name()) != "2024-05-01.log" {
		t.Fatalf("unexpected file name %s", file.Name())
	}
	if _, err := os.Stat(file.Name()); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
