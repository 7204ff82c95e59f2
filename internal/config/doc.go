// Package config loads and validates phrasecut's TOML configuration.
//
// Load resolves the config path (explicit flag, ~/.config/phrasecut, or a
// project-local phrasecut.toml), applies defaults for missing fields,
// expands ~ in every path, and validates the result. Constructors receive
// the resulting *Config explicitly; there is no process-wide config state.
package config
