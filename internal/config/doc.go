// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the per-user config directory
// ($XDG_CONFIG_HOME/ontoreg on Linux, ~/Library/Application Support/ontoreg on
// macOS, %APPDATA%\ontoreg on Windows), falling back to ./config.cue, then to
// defaults. ONTOREG_* environment variables override file values.
//
// Files are validated against the embedded CUE schema (config_schema.cue)
// before they reach Viper.
package config
