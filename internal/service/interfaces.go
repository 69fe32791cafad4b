// SPDX-License-Identifier: Apache-2.0

// Package service coordinates the DTS client and the local transfer
// journal: submissions are journaled, status checks refresh the journal,
// and in-flight transfers can be listed and resumed after a restart.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbase/go-dts/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_client_mock.go -package=mock

// ServerClient is the slice of the DTS client API the transfer service
// depends on. *dts.Client satisfies it.
type ServerClient interface {
	// Transfer submits a file transfer and returns the UUID assigned by
	// the service.
	Transfer(ctx context.Context, req models.TransferRequest) (uuid.UUID, error)

	// TransferStatus returns the current status of the transfer with the
	// given UUID.
	TransferStatus(ctx context.Context, id uuid.UUID) (models.TransferStatus, error)

	// CancelTransfer asks the service to cancel the transfer with the
	// given UUID.
	CancelTransfer(ctx context.Context, id uuid.UUID) error
}
