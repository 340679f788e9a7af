// Package logtail reads the end of Citadel's log file for the logs command.
package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Filter reports whether a line should be kept.
type Filter func(line string) bool

// Tail returns at most maxLines lines from the end of the file at path that
// pass filter, oldest first. A missing file yields no lines. A nil filter
// keeps everything.
func Tail(path string, maxLines int, filter Filter) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	count, idx := 0, 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if filter != nil && !filter(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	start := 0
	if count == maxLines {
		start = idx
	}
	for i := range count {
		lines[i] = ring[(start+i)%maxLines]
	}
	return lines, nil
}

// MinLevel keeps console-encoded entries ("<time> | LEVEL | ...") at or above
// level. Continuation lines such as stack traces have no level column; they
// follow the entry they belong to. The returned filter is stateful, so use a
// fresh one per Tail call.
func MinLevel(level zapcore.Level) Filter {
	keep := true
	return func(line string) bool {
		parts := strings.SplitN(line, " | ", 3)
		if len(parts) < 3 {
			return keep
		}
		var got zapcore.Level
		if err := got.UnmarshalText([]byte(strings.TrimSpace(parts[1]))); err != nil {
			return keep
		}
		keep = got >= level
		return keep
	}
}
