package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_WritesToFileAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "citadel.log")

	logger, closeLog, err := New("warn", path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped below level")
	logger.Warn("store reload failed", zap.String("key", "favorites"))
	if err := closeLog(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped below level") {
		t.Fatalf("info entry written at warn level:\n%s", out)
	}
	if !strings.Contains(out, "WARN | ") || !strings.Contains(out, "store reload failed") {
		t.Fatalf("warn entry missing or mis-encoded:\n%s", out)
	}
	if !strings.Contains(out, `"key": "favorites"`) {
		t.Fatalf("field missing:\n%s", out)
	}
}

func TestNew_CloseReleasesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citadel.log")

	logger, closeLog, err := New("info", path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("before close")
	if err := closeLog(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
	// Writes after close fail on the closed descriptor and never reach the file.
	logger.Info("after close")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "before close") || strings.Contains(string(data), "after close") {
		t.Fatalf("unexpected log content after close:\n%s", data)
	}
}

func TestNew_StderrCloseIsNoop(t *testing.T) {
	_, closeLog, err := New("info", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := closeLog(); err != nil {
		t.Fatalf("close on stderr logger returned error: %v", err)
	}
}
