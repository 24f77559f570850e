package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "test-svc", buf)
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  []string
	}{
		{"warn", "warn", []string{"warn msg", "error msg"}},
		{"debug", "DEBUG", []string{"debug msg", "info msg", "warn msg", "error msg"}},
		{"invalid falls back to info", "loud", []string{"info msg", "warn msg", "error msg"}},
		{"disabled", "disabled", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := jsonLogger(&buf, tc.level)
			l.Debug("debug msg")
			l.Info("info msg")
			l.Warn("warn msg")
			l.Error("error msg")

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				if line == "" {
					continue
				}
				got = append(got, decodeLine(t, line)["message"].(string))
			}
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug").WithComponent("di")
	l.Debug("dependency built", Fields(FieldType, "*app.Engine", FieldDepth, 2))

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m[FieldComponent] != "di" {
		t.Errorf("expected component=di, got %v", m[FieldComponent])
	}
	if m[FieldType] != "*app.Engine" {
		t.Errorf("expected type field, got %v", m[FieldType])
	}
	if m[FieldDepth] != float64(2) {
		t.Errorf("expected depth=2, got %v", m[FieldDepth])
	}
	if m[FieldService] != "test-svc" {
		t.Errorf("expected service=test-svc, got %v", m[FieldService])
	}
	if _, ok := m["time"]; !ok {
		t.Error("expected a timestamp")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "", &buf)
	l.Warn("slow build", Fields(FieldType, "*app.Engine"))

	out := buf.String()
	for _, want := range []string{"[WRN]", "slow build", "type:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := Nop()
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no span")
	}
}

func TestWithContext_Span(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithContext(ctx).Info("traced")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m[FieldTraceID] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace id, got %v", m[FieldTraceID])
	}
	if m[FieldSpanID] != span.SpanContext().SpanID().String() {
		t.Errorf("expected span id, got %v", m[FieldSpanID])
	}
}

func TestDefaultAndGet(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(jsonLogger(&buf, "info"))
	Get("config").Info("loaded")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m[FieldComponent] != "config" {
		t.Errorf("expected component=config, got %v", m[FieldComponent])
	}

	custom := Nop()
	Register("registered", custom)
	if Get("registered") != custom {
		t.Error("expected Get to return the registered logger")
	}

	Init(Config{Level: "debug", Format: FormatJSON}, "svc")
	if Default() == prev {
		t.Error("expected Init to replace the default logger")
	}
	Info("info msg")
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != FormatConsole || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stderr"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stderr"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []any
		expected map[string]any
	}{
		{"key-value pairs", []any{"op", "build", "depth", 2}, map[string]any{"op": "build", "depth": 2}},
		{"odd number of args", []any{"op", "build", "trailing"}, map[string]any{"op": "build"}},
		{"non-string key skipped", []any{123, "value", "key", "val"}, map[string]any{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestMergeHelpers(t *testing.T) {
	err := fmt.Errorf("test error")
	fields := MergeWithError(map[string]any{"op": "build"}, err)
	if fields[FieldError] != "test error" || fields["op"] != "build" {
		t.Errorf("unexpected fields %v", fields)
	}
	if MergeWithError(nil, err)[FieldError] != "test error" {
		t.Error("expected error field from nil map")
	}
	if MergeWithDuration(nil, 200*time.Millisecond)[FieldDuration] != int64(200) {
		t.Error("expected duration 200 from nil map")
	}
}
