package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "citadel.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestTail(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("Line %d", i))
	}
	path := writeLog(t, all...)

	tests := []struct {
		name     string
		maxLines int
		want     []string
	}{
		{name: "zero", maxLines: 0, want: nil},
		{name: "partial", maxLines: 5, want: all[5:]},
		{name: "exact", maxLines: 10, want: all},
		{name: "more than exists", maxLines: 20, want: all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(path, tt.maxLines, nil)
			if err != nil {
				t.Fatalf("Tail error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Tail mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10, nil)
	if err != nil || got != nil {
		t.Fatalf("Tail = %v, %v; want nil, nil", got, err)
	}
}

func TestTail_MinLevel(t *testing.T) {
	path := writeLog(t,
		"2026-01-02 10:00:00 | DEBUG | kv/file.go:10 | reload",
		"2026-01-02 10:00:01 | INFO | app/app.go:20 | citadel started",
		"2026-01-02 10:00:02 | WARN | app/loader.go:30 | character list fetch failed",
		"2026-01-02 10:00:03 | ERROR | kv/redis.go:40 | publish failed",
		"github.com/five82/citadel/internal/kv.(*Redis).announce",
	)

	got, err := Tail(path, 2, MinLevel(zapcore.WarnLevel))
	if err != nil {
		t.Fatalf("Tail error: %v", err)
	}
	want := []string{
		"2026-01-02 10:00:03 | ERROR | kv/redis.go:40 | publish failed",
		"github.com/five82/citadel/internal/kv.(*Redis).announce",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Tail mismatch (-want +got):\n%s", diff)
	}
}

func TestTail_MinLevelDropsContinuationOfFilteredEntry(t *testing.T) {
	path := writeLog(t,
		"2026-01-02 10:00:00 | INFO | app/app.go:20 | citadel started",
		"github.com/five82/citadel/internal/app.Open",
		"\t/src/internal/app/app.go:20",
		"2026-01-02 10:00:01 | ERROR | kv/redis.go:40 | publish failed",
		"github.com/five82/citadel/internal/kv.(*Redis).announce",
		"2026-01-02 10:00:02 | DEBUG | kv/file.go:10 | reload",
		"github.com/five82/citadel/internal/kv.(*File).reload",
	)

	got, err := Tail(path, 10, MinLevel(zapcore.WarnLevel))
	if err != nil {
		t.Fatalf("Tail error: %v", err)
	}
	want := []string{
		"2026-01-02 10:00:01 | ERROR | kv/redis.go:40 | publish failed",
		"github.com/five82/citadel/internal/kv.(*Redis).announce",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Tail mismatch (-want +got):\n%s", diff)
	}
}
