package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("LogLevel.String() = %q, want %q", got, test.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"WARNING", LevelWarn},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"off", LevelOff},
		{"nonsense", LevelOff},
		{"", LevelOff},
	}

	for _, test := range tests {
		if got := ParseLogLevel(test.input); got != test.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	if err := Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestSetupFiltersByLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")

	if err := Setup(LevelWarn, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { _ = Setup(LevelOff, "") })

	Debugf("debug message")
	Infof("info message")
	Warnf("warn message")
	Errorf("error message")

	out := readLog(t, logPath)
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Errorf("missing WARN line:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("missing ERROR line:\n%s", out)
	}
	if !strings.Contains(out, "helpw ") {
		t.Errorf("missing logger prefix:\n%s", out)
	}
}

func TestSetupOffWritesNothing(t *testing.T) {
	if err := Setup(LevelOff, ""); err != nil {
		t.Fatalf("Setup with LevelOff failed: %v", err)
	}
	if GetLevel() != LevelOff {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelOff)
	}
	// Must not panic without a logger.
	Errorf("dropped")
	WithFields(map[string]any{"k": 1}).Errorf("dropped")
}

func TestFieldLoggerSortsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fields.log")
	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { _ = Setup(LevelOff, "") })

	WithFields(map[string]any{
		"section":  12,
		"category": 3,
		"action":   "load",
	}).Warnf("loading section articles failed: %s", "timeout")

	out := readLog(t, logPath)
	if !strings.Contains(out, "loading section articles failed: timeout [action=load category=3 section=12]") {
		t.Errorf("unexpected field formatting:\n%s", out)
	}
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelOff) })

	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("SetLevel(LevelDebug) failed, got %v", GetLevel())
	}
	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("SetLevel(LevelError) failed, got %v", GetLevel())
	}
}
