// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Default values applied when neither environment, flags, nor the JSON file
// set them. The default server is the public KBase staging deployment the
// DTS team runs for client development.
const (
	DefaultServer         = "https://lb-dts.staging.kbase.us"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPollInterval   = 10 * time.Second
	DefaultJournalPath    = "dts-journal.db"
)

// StructuredConfig is the top-level configuration container for the go-dts
// CLI. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, an optional JSON
// file, and built-in defaults (in that order of precedence).
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Server holds the DTS server connection settings.
	Server Server `envPrefix:"DTS_"`

	// Journal holds settings for the local transfer journal.
	Journal Journal `envPrefix:"DTS_"`

	// Workers holds settings for background status polling.
	Workers Workers `envPrefix:"DTS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged behind the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c/-config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds the settings needed to reach and authenticate with a DTS
// server.
type Server struct {
	// Address is the base URL of the DTS server.
	// Env: DTS_SERVER
	Address string `env:"SERVER"`

	// Port optionally overrides the port the client connects to.
	// Env: DTS_PORT
	Port int `env:"PORT"`

	// Token is the unencoded KBase developer token. It is deliberately not
	// exposed as a command-line flag so it never lands in shell history.
	// Env: DTS_KBASE_DEV_TOKEN
	Token string `env:"KBASE_DEV_TOKEN"`

	// Orcid is the ORCID identifier sent with search, metadata, and
	// transfer requests.
	// Env: DTS_ORCID
	Orcid string `env:"ORCID"`

	// RequestTimeout is the timeout for each outbound request
	// (e.g. "30s", "1m").
	// Env: DTS_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Journal holds the local transfer journal settings.
type Journal struct {
	// Path is the SQLite file recording submitted transfers. The special
	// value ":memory:" keeps the journal for the lifetime of the process
	// only.
	// Env: DTS_JOURNAL_PATH
	Path string `env:"JOURNAL_PATH"`
}

// Workers holds background worker settings.
type Workers struct {
	// PollInterval defines how often the status poller queries the server
	// while a transfer is in flight.
	// Env: DTS_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`
}

// GetConfig assembles the CLI configuration from all sources and validates
// it. Precedence, highest first: command-line overrides, environment, JSON
// file, defaults. overrides may be nil.
func GetConfig(overrides *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withOverrides(overrides).
		withEnv().
		withJSON().
		withDefaults().
		build()
}

// defaults returns the built-in fallback configuration.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		Server: Server{
			Address:        DefaultServer,
			RequestTimeout: DefaultRequestTimeout,
		},
		Journal: Journal{
			Path: DefaultJournalPath,
		},
		Workers: Workers{
			PollInterval: DefaultPollInterval,
		},
	}
}
