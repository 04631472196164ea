package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func jsonLogger(buf *bytes.Buffer, service string) *Logger {
	return NewWithWriter(&Config{Level: "debug", Format: FormatJSON}, service, buf)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "orders")

	l.Warn("Dependency ILogger is deprecated", Fields(FieldIdentifier, "ILogger"))

	entry := decode(t, &buf)
	if entry["level"] != "warn" {
		t.Errorf("expected level warn, got %v", entry["level"])
	}
	if entry[FieldIdentifier] != "ILogger" {
		t.Errorf("expected identifier field, got %v", entry[FieldIdentifier])
	}
	if entry[FieldService] != "orders" {
		t.Errorf("expected service field, got %v", entry[FieldService])
	}
}

func TestNewWithWriterOmitsEmptyService(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "").Info("hello")

	if _, ok := decode(t, &buf)[FieldService]; ok {
		t.Errorf("expected no service field, got %q", buf.String())
	}
}

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		warning bool
	}{
		{"debug", true, true},
		{"warn", false, true},
		{"error", false, false},
		{"", false, true},
		{"loud", false, true},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWithWriter(&Config{Level: tc.level, Format: FormatJSON}, "svc", &buf)

			l.Debug("debug entry")
			if got := strings.Contains(buf.String(), "debug entry"); got != tc.debug {
				t.Errorf("debug written = %v, want %v", got, tc.debug)
			}
			l.Warn("warn entry")
			if got := strings.Contains(buf.String(), "warn entry"); got != tc.warning {
				t.Errorf("warn written = %v, want %v", got, tc.warning)
			}
		})
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "orders", &buf)
	l.Warn("careful", Fields(FieldIdentifier, "cache"))

	out := buf.String()
	for _, want := range []string{"orders [WRN]", "careful", "identifier:cache"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("discarded")
	l.WithComponent("di").Warn("discarded")
}

func TestForDependency(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "svc").WithComponent(ComponentDI).ForDependency("core", "cache").Debug("registered")

	entry := decode(t, &buf)
	want := map[string]string{
		FieldComponent:  ComponentDI,
		FieldRegistry:   "core",
		FieldIdentifier: "cache",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "svc").WithError(fmt.Errorf("boom")).Error("failed")

	if got := decode(t, &buf)[FieldError]; got != "boom" {
		t.Errorf("expected error field 'boom', got %v", got)
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "svc")

	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no span")
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.WithContext(ctx).Info("traced")
	entry := decode(t, &buf)
	if entry[FieldTraceID] != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected trace id, got %v", entry[FieldTraceID])
	}
	if entry[FieldSpanID] != "00f067aa0ba902b7" {
		t.Errorf("expected span id, got %v", entry[FieldSpanID])
	}
}

func TestInitInstallsGlobal(t *testing.T) {
	t.Cleanup(func() { SetGlobalLogger(nil) })

	cfg := Config{Format: FormatJSON}
	Init(&cfg, "orders")
	if cfg.Level != "info" || !cfg.Timestamp {
		t.Errorf("expected Init to apply defaults, got %+v", cfg)
	}
	if got := GetGlobalLogger(); got.service != "orders" {
		t.Errorf("expected global logger for 'orders', got %q", got.service)
	}

	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected a default global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{Level: "warn"}
	cfg.ApplyDefaults()

	if cfg.Level != "warn" {
		t.Errorf("expected level to be kept, got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format %q, got %q", FormatConsole, cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigWriter(t *testing.T) {
	if (&Config{Output: "STDERR"}).writer() == (&Config{}).writer() {
		t.Error("expected stderr and stdout writers to differ")
	}
}
