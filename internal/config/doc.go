// Package config loads, validates, and normalizes the TOML configuration
// shared by the groupcheck server and CLI. Paths support ~ expansion and
// every field has a repository default so an empty file is a valid config.
package config
