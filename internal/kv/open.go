package kv

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options select and configure a backend.
type Options struct {
	Backend  string
	Path     string
	RedisURL string
	Logger   *zap.Logger
}

// Open builds the configured Store.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case "", BackendFile:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return OpenFile(opts.Path, opts.Logger)
	case BackendRedis:
		return NewRedis(ctx, opts.RedisURL, opts.Logger)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
