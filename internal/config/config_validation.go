// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the CLI relies on at startup. The token is checked lazily by
// commands that talk to the server, so a tokenless `dts --help` still works.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.Address == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.Server.Port < 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.Journal.Path == "" {
		return ErrInvalidJournalConfigs
	}
	if cfg.Workers.PollInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
