package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
)

func decode(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	return m
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		info  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"", false, true},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: tt.level, Output: &buf})

			l.Debug().Msg("d")
			if got := buf.Len() > 0; got != tt.debug {
				t.Errorf("debug emitted=%v, want %v", got, tt.debug)
			}
			buf.Reset()

			l.Info().Msg("i")
			if got := buf.Len() > 0; got != tt.info {
				t.Errorf("info emitted=%v, want %v", got, tt.info)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf}).Component("pipeline")
	l.Info().Msg("hello")

	m := decode(t, strings.TrimSpace(buf.String()))
	if m["component"] != "pipeline" {
		t.Errorf("expected component=pipeline, got %v", m["component"])
	}
	if m["service"] != "milestones" {
		t.Errorf("expected service=milestones, got %v", m["service"])
	}
}

func TestLogScan(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Output: &buf})

	l.LogScan("a.md", 3, true, time.Millisecond, nil)
	m := decode(t, strings.TrimSpace(buf.String()))
	if m["level"] != "debug" || m["path"] != "a.md" || m["milestones"] != float64(3) {
		t.Errorf("unexpected success event %v", m)
	}
	buf.Reset()

	l.LogScan("b.md", 0, false, time.Millisecond, errors.New("boom"))
	m = decode(t, strings.TrimSpace(buf.String()))
	if m["level"] != "warn" || m["error"] != "boom" {
		t.Errorf("unexpected failure event %v", m)
	}
}

func TestNop(t *testing.T) {
	// Must not panic
	Nop().Component("x").Error().Msg("dropped")
}

func TestInit_InstallsPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	log.Info().Msg("via package logger")
	if !strings.Contains(buf.String(), "via package logger") {
		t.Errorf("expected package-level logger to write to the configured output, got %q", buf.String())
	}
}
