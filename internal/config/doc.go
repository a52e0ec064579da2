// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file, AUTOLIST_* environment variables
// and command-line flags.
package config
