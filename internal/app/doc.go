// Package app is Citadel's composition root.
//
// Open loads configuration, builds the logger, connects the configured
// persistence backend and the GraphQL client, and returns an Env that both
// the TUI and the CLI subcommands work against. Run opens an Env, loads user
// preferences and hands everything to the UI until the user quits.
//
// Refresh performs a single character-list fetch into a state.Store. The UI
// calls it through Env.Reload on start and whenever the user presses r; a
// failed fetch keeps the previous list so views can still render it.
//
//	Run()
//	 ├─> config.Load()      TOML + .env + CITADEL_* overrides
//	 ├─> logging.New()      zap logger to the log file
//	 ├─> rickmorty.NewClient()
//	 ├─> kv.Open()          file | redis | memory
//	 ├─> prefs.Load()       theme
//	 └─> ui.Run()           blocks until quit
package app
