// Package config loads, normalizes, and validates crmlink configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: data/log directories, linker tie-break policy, and log
// output shape.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
