// Package config loads, normalizes, and validates datesort configuration.
//
// Settings come from a TOML file (an explicit --config path, then
// ~/.config/datesort/config.toml, then ./datesort.toml) layered over
// repository defaults. Command-line flags are applied on top by the CLI.
package config
