// Package config loads, normalizes, and validates labeler configuration.
//
// Settings come from a TOML file at ~/.config/labeler/config.toml or
// ./labeler.toml, layered over Default(). Paths are expanded (including tilde
// shortcuts), image extensions are canonicalized, and LABELER_LOG_LEVEL
// overrides the configured log level. Command-line flags are applied on top of
// the loaded Config by cmd/labeler.
package config
