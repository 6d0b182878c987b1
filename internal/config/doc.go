// Package config loads, validates, and normalizes vodpress configuration.
//
// Configuration lives in a TOML file (see sample_config.toml). Load resolves
// the file location, applies defaults for anything unset, expands ~ paths,
// and rejects unusable combinations before any component is constructed.
package config
