package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// captureLogOutput reinitializes the logger to write JSON to a buffer at
// debug level and restores the default afterwards.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelDebug, FormatJSON)
	defer InitLogger(LevelWarn, FormatText)
	f()
	return buf.String()
}

func decode(t *testing.T, output string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &m); err != nil {
		t.Fatalf("log output %q is not one JSON record: %v", output, err)
	}
	return m
}

func TestInitLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantWarn  bool
	}{
		{"debug", LevelDebug, true, true},
		{"info", LevelInfo, false, true},
		{"warn", LevelWarn, false, true},
		{"error", LevelError, false, false},
		{"unknown", Level(99), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerTo(&buf, tt.level, FormatText)
			defer InitLogger(LevelWarn, FormatText)

			Debug("debug message")
			Warn("warn message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "warn message"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestTimestampFormat(t *testing.T) {
	m := decode(t, captureLogOutput(func() { Info("hello") }))
	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("time field missing: %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseFormat("Text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(Text) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestRunID(t *testing.T) {
	ctx := context.Background()
	if id := GetRunID(ctx); id != "" {
		t.Errorf("GetRunID(empty) = %q, want empty", id)
	}

	ctx = WithRunID(ctx, "run-123")
	if id := GetRunID(ctx); id != "run-123" {
		t.Errorf("GetRunID = %q, want run-123", id)
	}

	m := decode(t, captureLogOutput(func() { InfoContext(ctx, "with id") }))
	if m["run_id"] != "run-123" {
		t.Errorf("run_id = %v, want run-123", m["run_id"])
	}
}

func TestContextLoggingFunctions(t *testing.T) {
	ctx := WithRunID(context.Background(), "r")
	out := captureLogOutput(func() {
		DebugContext(ctx, "d")
		InfoContext(ctx, "i")
		WarnContext(ctx, "w")
		ErrorContext(ctx, "e")
	})
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		if !strings.Contains(out, `"level":"`+level+`"`) {
			t.Errorf("output missing level %s: %s", level, out)
		}
	}
}

func TestConversion(t *testing.T) {
	m := decode(t, captureLogOutput(func() {
		Conversion("toData", 10, 20, "L1", 1500*time.Microsecond, "rules", 3)
	}))

	if m["msg"] != "conversion" {
		t.Errorf("msg = %v, want conversion", m["msg"])
	}
	if m["direction"] != "toData" || m["loss_class"] != "L1" {
		t.Errorf("direction/loss_class = %v/%v", m["direction"], m["loss_class"])
	}
	if m["input_bytes"] != float64(10) || m["output_bytes"] != float64(20) {
		t.Errorf("bytes = %v/%v", m["input_bytes"], m["output_bytes"])
	}
	if m["duration_us"] != float64(1500) {
		t.Errorf("duration_us = %v, want 1500", m["duration_us"])
	}
	if m["rules"] != float64(3) {
		t.Errorf("rules = %v, want 3", m["rules"])
	}
}

func TestConversionContext(t *testing.T) {
	ctx := WithRunID(context.Background(), "abc")
	m := decode(t, captureLogOutput(func() {
		ConversionContext(ctx, "toView", 1, 2, "L0", time.Millisecond)
	}))
	if m["run_id"] != "abc" || m["direction"] != "toView" {
		t.Errorf("record = %v", m)
	}
}

func TestConversionError(t *testing.T) {
	m := decode(t, captureLogOutput(func() {
		ConversionError("toData", errors.New("bad input"), "file", "x.xml")
	}))
	if m["msg"] != "conversion_error" || m["error"] != "bad input" || m["file"] != "x.xml" {
		t.Errorf("record = %v", m)
	}
}

func TestRuleLoaded(t *testing.T) {
	m := decode(t, captureLogOutput(func() {
		RuleLoaded("heading", "bijective", "normal")
	}))
	if m["msg"] != "rule_loaded" || m["rule_id"] != "heading" || m["level"] != "DEBUG" {
		t.Errorf("record = %v", m)
	}
}

func TestCacheEvent(t *testing.T) {
	m := decode(t, captureLogOutput(func() {
		CacheEvent("hit", "toData:00")
	}))
	if m["event"] != "hit" || m["key"] != "toData:00" {
		t.Errorf("record = %v", m)
	}
}

func TestContextKeyType(t *testing.T) {
	ctx := context.WithValue(context.Background(), "run_id", "plain") //nolint:staticcheck // plain string key on purpose
	if id := GetRunID(ctx); id != "" {
		t.Errorf("GetRunID with string key = %q, want empty", id)
	}
}
