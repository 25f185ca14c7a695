// Package config handles loading the ReadAloud panel configuration file.
//
// # Overview
//
// The panel keeps its own small TOML file describing how to reach the
// backend and how to run locally. TTS settings (engine, voice, temperature)
// belong to the server and are edited through the API, not here.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use the user config dir (~/.config/readaloud/panel.toml on Linux)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. READALOUD_* environment variables override file values
//
// Command-line flags are applied by the caller after Load.
//
// # Default Values
//
//   - API base: 127.0.0.1:5000
//   - Poll interval: 10s
//   - Request timeout: 10s
//   - Toast duration: 3s
//   - Log file: user log dir, panel.log
//   - Log level: info
//
// # Example
//
//	api_base = "http://127.0.0.1:5000"
//	poll_interval = "10s"
//	request_timeout = "10s"
//	log_level = "debug"
//	theme = "Kanagawa"
//
// # Environment
//
//   - READALOUD_API_BASE
//   - READALOUD_POLL_INTERVAL (Go duration)
//   - READALOUD_LOG_FILE
//   - READALOUD_LOG_LEVEL
//
// # Path Expansion
//
// Paths starting with ~ are expanded against the user's home directory and
// made absolute.
package config
