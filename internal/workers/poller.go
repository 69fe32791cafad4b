// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kbase/go-dts/dts"
	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/models"
)

// Update is one observation from the poller. Exactly one of Status and Err
// is meaningful per update; transient errors are reported and polling
// continues.
type Update struct {
	Status models.TransferStatus
	Err    error
}

// StatusPoller periodically queries the status of a transfer until the
// transfer reaches a terminal state or the watch context is cancelled.
type StatusPoller struct {
	checker  StatusChecker
	interval time.Duration
	logger   *logger.Logger
}

// NewStatusPoller constructs a poller that checks every interval. A
// non-positive interval defaults to 10 seconds.
func NewStatusPoller(checker StatusChecker, interval time.Duration, log *logger.Logger) *StatusPoller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &StatusPoller{checker: checker, interval: interval, logger: log}
}

// Watch launches a goroutine that polls the transfer with the given UUID.
// Every observation is sent on the returned channel, which is closed when
// the transfer reaches a terminal status, the transfer is unknown to the
// server, or ctx is cancelled. The first check happens immediately.
func (p *StatusPoller) Watch(ctx context.Context, id uuid.UUID) <-chan Update {
	updates := make(chan Update, 1)

	go func() {
		defer close(updates)

		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			status, err := p.checker.Status(ctx, id)
			switch {
			case err == nil:
				select {
				case updates <- Update{Status: status}:
				case <-ctx.Done():
					return
				}
				if status.Terminal() {
					return
				}
			case errors.Is(err, dts.ErrNotFound) || errors.Is(err, context.Canceled):
				// nothing further to observe
				select {
				case updates <- Update{Err: err}:
				case <-ctx.Done():
				}
				return
			default:
				p.logger.Warn().Err(err).Str("id", id.String()).Msg("status poll failed")
				select {
				case updates <- Update{Err: err}:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()

	return updates
}

// Wait blocks until the transfer reaches a terminal status and returns it.
// Transient poll errors are skipped; a fatal error (unknown transfer,
// cancelled context) ends the wait.
func (p *StatusPoller) Wait(ctx context.Context, id uuid.UUID) (models.TransferStatus, error) {
	var last models.TransferStatus
	for update := range p.Watch(ctx, id) {
		if update.Err != nil {
			if errors.Is(update.Err, dts.ErrNotFound) || errors.Is(update.Err, context.Canceled) {
				return last, update.Err
			}
			continue
		}
		last = update.Status
	}
	if ctx.Err() != nil && !last.Terminal() {
		return last, ctx.Err()
	}
	return last, nil
}
