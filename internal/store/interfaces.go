// SPDX-License-Identifier: Apache-2.0

// Package store persists the local transfer journal: a SQLite record of
// every transfer submitted through this client, kept so the CLI can list
// past transfers and resume status polling after a restart.
package store

import (
	"context"

	"github.com/kbase/go-dts/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/journal_mock.go -package=mock

// Journal records submitted transfers and their observed progress.
type Journal interface {
	// RecordTransfer inserts a freshly submitted transfer. Returns
	// [ErrDuplicateTransfer] (wrapped) if the ID is already journaled.
	RecordTransfer(ctx context.Context, rec models.TransferRecord) error

	// UpdateStatus refreshes the stored status fields for the transfer with
	// the given ID. Returns [ErrTransferNotFound] if no such row exists.
	UpdateStatus(ctx context.Context, id string, status models.TransferStatus) error

	// GetTransfer returns the journaled record with the given ID, or
	// [ErrTransferNotFound].
	GetTransfer(ctx context.Context, id string) (models.TransferRecord, error)

	// ListTransfers returns journaled transfers, most recent first. A
	// non-positive limit returns all rows.
	ListTransfers(ctx context.Context, limit int) ([]models.TransferRecord, error)

	// ActiveTransfers returns transfers whose last observed status is not
	// terminal, most recent first.
	ActiveTransfers(ctx context.Context) ([]models.TransferRecord, error)

	// Close releases the underlying database handle.
	Close() error
}
