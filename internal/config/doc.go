// Package config loads, normalizes, and validates rir-speech configuration.
//
// Defaults mirror the reference corpus build (53234 outputs, 10 variants
// per clean recording, seed 42, 16 kHz, shards of 1000). A TOML file may
// override any of them and CLI flags override the file.
package config
