package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/citadel/internal/comments"
	"github.com/five82/citadel/internal/config"
	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/kv"
	"github.com/five82/citadel/internal/logging"
	"github.com/five82/citadel/internal/prefs"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/route"
	"github.com/five82/citadel/internal/state"
	"github.com/five82/citadel/internal/ui"
)

// Options configure the Citadel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/citadel/prefs.toml
	Route      route.Route
}

// Env holds the components shared by the TUI and the CLI subcommands.
type Env struct {
	Config    config.Config
	Logger    *zap.Logger
	Store     kv.Store
	Source    rickmorty.CharacterSource
	Favorites *favorites.Manager
	Comments  *comments.Manager
	List      *state.Store

	closeLog func() error
}

// Open loads configuration and connects every component. Callers must Close
// the returned Env.
func Open(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := rickmorty.NewClient(cfg.Endpoint, cfg.MaxPages)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init graphql client: %w", err)
	}

	store, err := kv.Open(ctx, kv.Options{
		Backend:  cfg.Store.Backend,
		Path:     cfg.Store.Path,
		RedisURL: cfg.Store.RedisURL,
		Logger:   logger,
	})
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	logger.Debug("citadel started",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("backend", cfg.Store.Backend),
	)

	return &Env{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Source:    client,
		Favorites: favorites.NewManager(store, logger),
		Comments:  comments.NewManager(store, logger),
		List:      &state.Store{},
		closeLog:  closeLog,
	}, nil
}

// Close releases the store, then flushes the logger and closes its file.
func (e *Env) Close() error {
	err := e.Store.Close()
	if e.closeLog != nil {
		err = errors.Join(err, e.closeLog())
	}
	return err
}

// Reload fetches the character list into the shared snapshot.
func (e *Env) Reload(ctx context.Context) error {
	return Refresh(ctx, e.List, e.Source, e.Logger)
}

// Run boots the Citadel TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	env, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()

	userPrefs, prefsErr := prefs.Load(opts.PrefsPath)
	if prefsErr != nil {
		env.Logger.Warn("prefs unreadable, using defaults", zap.Error(prefsErr))
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Source:    env.Source,
		List:      env.List,
		Reload:    env.Reload,
		Favorites: env.Favorites,
		Comments:  env.Comments,
		Logger:    env.Logger,
		Route:     opts.Route,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}
