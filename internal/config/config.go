package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/citadel/internal/rickmorty"
)

// Config captures everything Citadel needs at startup.
type Config struct {
	Endpoint string
	MaxPages int
	Store    StoreConfig
	Log      LogConfig
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend  string
	Path     string
	RedisURL string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	File  string
	Level string
}

const (
	defaultConfigPath = "~/.config/citadel/config.toml"
	defaultStorePath  = "~/.local/share/citadel/store.json"
	defaultLogFile    = "~/.local/state/citadel/citadel.log"
	defaultBackend    = "file"
	defaultRedisURL   = "redis://127.0.0.1:6379/0"
	defaultLogLevel   = "info"
)

// Environment variables that override file values.
const (
	EnvEndpoint = "CITADEL_ENDPOINT"
	EnvBackend  = "CITADEL_STORE_BACKEND"
	EnvPath     = "CITADEL_STORE_PATH"
	EnvRedisURL = "CITADEL_REDIS_URL"
	EnvLogLevel = "CITADEL_LOG_LEVEL"
	EnvMaxPages = "CITADEL_MAX_PAGES"
)

type rawConfig struct {
	Endpoint string `toml:"endpoint"`
	MaxPages int    `toml:"max_pages"`
	Store    struct {
		Backend  string `toml:"backend"`
		Path     string `toml:"path"`
		RedisURL string `toml:"redis_url"`
	} `toml:"store"`
	Log struct {
		File  string `toml:"file"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Load reads the config file at path (or the default location), applies a
// .env file from the working directory and CITADEL_* environment overrides,
// and fills defaults for anything left blank.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg := Config{
		Endpoint: strings.TrimSpace(raw.Endpoint),
		MaxPages: raw.MaxPages,
		Store: StoreConfig{
			Backend:  strings.ToLower(strings.TrimSpace(raw.Store.Backend)),
			Path:     strings.TrimSpace(raw.Store.Path),
			RedisURL: strings.TrimSpace(raw.Store.RedisURL),
		},
		Log: LogConfig{
			File:  strings.TrimSpace(raw.Log.File),
			Level: strings.ToLower(strings.TrimSpace(raw.Log.Level)),
		},
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := env(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := env(EnvBackend); v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v := env(EnvPath); v != "" {
		cfg.Store.Path = v
	}
	if v := env(EnvRedisURL); v != "" {
		cfg.Store.RedisURL = v
	}
	if v := env(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := env(EnvMaxPages); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvMaxPages, err)
		}
		cfg.MaxPages = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = rickmorty.DefaultEndpoint
	}
	if cfg.MaxPages < 0 {
		cfg.MaxPages = 0
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaultBackend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath
	}
	cfg.Store.Path = mustExpand(cfg.Store.Path)
	if cfg.Store.RedisURL == "" {
		cfg.Store.RedisURL = defaultRedisURL
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	cfg.Log.File = mustExpand(cfg.Log.File)
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
