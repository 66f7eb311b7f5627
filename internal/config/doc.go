// Package config loads, normalizes, and validates mkvlang configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and the retag service need: external tool locations and timeouts, flag
// editing policy, batch behaviour, the optional identification dump, and log
// output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
