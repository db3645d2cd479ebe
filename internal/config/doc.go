// Package config loads, normalizes, and validates Loom configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from either the project-local loom.toml or
// the user config directory. The Config type centralizes the site root, cache
// layout, and logging knobs the CLI and pipeline need.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, canonical log formats, and clear validation
// errors.
package config
