// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// StructuredConfig is the top-level configuration container for the
// go-session-gate application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the display-name
	// placeholder shown before resolution finds anything better.
	App App `envPrefix:"APP_"`

	// Adapter holds endpoint addresses and timeouts for the remote identity
	// provider and the profile document store.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds configuration for the local persistence backends,
	// currently only the display-name cache database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address of the application's own HTTP front.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// DisplayPlaceholder is the literal greeting used when no cached,
	// provider-supplied, or email-derived display name is available.
	// Env: APP_DISPLAY_PLACEHOLDER
	DisplayPlaceholder string `env:"DISPLAY_PLACEHOLDER"`
}

// Adapter holds network settings for the outbound transport layer.
type Adapter struct {
	// IdentityAddress is the base URL of the remote identity provider
	// (e.g. "http://localhost:8081").
	// Env: ADAPTER_IDENTITY_ADDRESS
	IdentityAddress string `env:"IDENTITY_ADDRESS"`

	// ProfileAddress is the base URL of the profile document store
	// (e.g. "http://localhost:8082").
	// Env: ADAPTER_PROFILE_ADDRESS
	ProfileAddress string `env:"PROFILE_ADDRESS"`

	// RequestTimeout is the default timeout for outbound requests
	// (e.g. "15s", "1m"). The session event stream is exempt: it stays open
	// until the application shuts down.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for local storage backends.
type Storage struct {
	// DB holds the display-name cache database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database that backs the
// display-name cache.
type DB struct {
	// DSN is the SQLite file path used by the cache
	// (e.g. "session-gate.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Server holds network settings for the inbound HTTP front.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP front listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
