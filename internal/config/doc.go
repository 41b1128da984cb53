// Package config loads, normalizes, and validates plparse configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLPARSE_API_BIND. The Config type centralizes every knob the resolver, the
// daemon and the CLI need so they can be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
