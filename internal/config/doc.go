// Package config loads Citadel's startup configuration.
//
// # Resolution Order
//
//  1. The TOML file given with --config, else ~/.config/citadel/config.toml
//  2. A .env file in the working directory, if present (does not override
//     variables already set in the environment)
//  3. CITADEL_* environment variables, which override file values
//  4. Defaults for anything still blank
//
// A missing config file is not an error. A file that exists but is not valid
// TOML is.
//
// # TOML Format
//
//	endpoint = "https://rickandmortyapi.com/graphql"
//	max_pages = 0
//
//	[store]
//	backend = "file"    # file | redis | memory
//	path = "~/.local/share/citadel/store.json"
//	redis_url = "redis://127.0.0.1:6379/0"
//
//	[log]
//	file = "~/.local/state/citadel/citadel.log"
//	level = "info"
//
// # Environment
//
//   - CITADEL_ENDPOINT
//   - CITADEL_MAX_PAGES
//   - CITADEL_STORE_BACKEND
//   - CITADEL_STORE_PATH
//   - CITADEL_REDIS_URL
//   - CITADEL_LOG_LEVEL
package config
