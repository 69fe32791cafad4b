// Package workers provides the background status poller that follows a DTS
// transfer until it reaches a terminal state.
package workers

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbase/go-dts/models"
)

// StatusChecker is the slice of the transfer service the poller depends on.
// *service.TransferService satisfies it.
type StatusChecker interface {
	// Status returns the current status of the transfer with the given
	// UUID, refreshing any local bookkeeping as a side effect.
	Status(ctx context.Context, id uuid.UUID) (models.TransferStatus, error)
}
