package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	l := Get()
	if l == nil {
		t.Fatal("expected a logger after Init")
	}

	// Named loggers should be independent instances.
	named := l.Named("crawl")
	if named == nil {
		t.Fatal("expected a named logger")
	}

	// Logging must not panic regardless of field types.
	ctx := context.Background()
	named.Info(ctx, "message", String("stage", "roster"), Int("page", 1))
	named.Warn(ctx, "message", Error(nil), Any("payload", map[string]int{"a": 1}))
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"", slog.LevelInfo, false},
		{"verbose", 0, true},
	}
	for _, c := range cases {
		err := SetLevelString(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("SetLevelString(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("SetLevelString(%q): unexpected error %v", c.in, err)
			continue
		}
		if got := levelVar.Level(); got != c.want {
			t.Errorf("SetLevelString(%q): level = %v, want %v", c.in, got, c.want)
		}
	}
}
