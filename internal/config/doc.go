// SPDX-License-Identifier: MPL-2.0

// Package config handles vfsh configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/vfsh/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/vfsh/config.cue on macOS, %APPDATA%\vfsh\config.cue
// on Windows), then overridden by VFSH_* environment variables and finally by
// explicit command-line overrides. The file is validated against an embedded CUE
// schema (config_schema.cue).
//
// The package also turns a loaded Config into the pieces the interpreter needs:
// the confined VFS guard and the read-only configuration table shown by conf-dump.
package config
