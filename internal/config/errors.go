package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrMissingToken indicates that no KBase developer token was provided.
	ErrMissingToken = errors.New("missing KBase developer token (set DTS_KBASE_DEV_TOKEN)")
	// ErrInvalidServerConfigs indicates invalid server connection settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidJournalConfigs indicates invalid transfer journal settings.
	ErrInvalidJournalConfigs = errors.New("invalid journal configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
