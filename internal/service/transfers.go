// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/internal/store"
	"github.com/kbase/go-dts/models"
)

// TransferService submits, tracks, and cancels DTS transfers while keeping
// the local journal in sync with what the server reports.
type TransferService struct {
	client  ServerClient
	journal store.Journal
	logger  *logger.Logger
}

// NewTransferService constructs a [TransferService].
func NewTransferService(client ServerClient, journal store.Journal, log *logger.Logger) *TransferService {
	return &TransferService{
		client:  client,
		journal: journal,
		logger:  log,
	}
}

// Submit sends the transfer request to the server and journals the
// accepted submission. A journal write failure does not fail the
// submission: the server already accepted the transfer, so the error is
// logged and the assigned UUID is still returned.
func (s *TransferService) Submit(ctx context.Context, req models.TransferRequest) (uuid.UUID, error) {
	id, err := s.client.Transfer(ctx, req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("submit transfer: %w", err)
	}

	now := time.Now().UTC()
	rec := models.TransferRecord{
		ID:          id.String(),
		Orcid:       req.Orcid,
		Source:      req.Source,
		Destination: req.Destination,
		Description: req.Description,
		Status:      models.TransferStatusStaging,
		NumFiles:    len(req.FileIDs),
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err = s.journal.RecordTransfer(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Str("id", rec.ID).Msg("transfer accepted but not journaled")
	}

	return id, nil
}

// Status fetches the transfer's status from the server and refreshes the
// journal row, if one exists. Transfers submitted by other clients are not
// journaled here; that is not an error.
func (s *TransferService) Status(ctx context.Context, id uuid.UUID) (models.TransferStatus, error) {
	status, err := s.client.TransferStatus(ctx, id)
	if err != nil {
		return models.TransferStatus{}, fmt.Errorf("transfer status: %w", err)
	}

	if err = s.journal.UpdateStatus(ctx, id.String(), status); err != nil && !errors.Is(err, store.ErrTransferNotFound) {
		s.logger.Warn().Err(err).Str("id", id.String()).Msg("journal status update failed")
	}

	return status, nil
}

// Cancel asks the server to cancel the transfer, then refreshes the journal
// with whatever status the server reports next.
func (s *TransferService) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.client.CancelTransfer(ctx, id); err != nil {
		return fmt.Errorf("cancel transfer: %w", err)
	}

	// cancellation is asynchronous server-side; capture the current view
	if status, err := s.client.TransferStatus(ctx, id); err == nil {
		if uerr := s.journal.UpdateStatus(ctx, id.String(), status); uerr != nil && !errors.Is(uerr, store.ErrTransferNotFound) {
			s.logger.Warn().Err(uerr).Str("id", id.String()).Msg("journal status update failed")
		}
	}

	return nil
}

// List returns journaled transfers, most recent first.
func (s *TransferService) List(ctx context.Context, limit int) ([]models.TransferRecord, error) {
	return s.journal.ListTransfers(ctx, limit)
}

// Active returns journaled transfers that have not reached a terminal
// status, most recent first.
func (s *TransferService) Active(ctx context.Context) ([]models.TransferRecord, error) {
	return s.journal.ActiveTransfers(ctx)
}
