// SPDX-License-Identifier: Apache-2.0

// Package tui implements the interactive transfer monitor behind the
// "dts watch" command. It follows a single transfer with a live spinner and
// progress bar until the transfer reaches a terminal state.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/internal/workers"
	"github.com/kbase/go-dts/models"
)

// ErrUserQuit is returned when the user closes the monitor before the
// transfer finishes. The transfer itself keeps running on the server.
var ErrUserQuit = errors.New("monitor closed before the transfer finished")

// Monitor owns the poller feeding the watch screen.
type Monitor struct {
	poller *workers.StatusPoller
	logger *logger.Logger
}

func NewMonitor(poller *workers.StatusPoller, log *logger.Logger) *Monitor {
	return &Monitor{poller: poller, logger: log}
}

// Run displays the monitor for the transfer with the given UUID and blocks
// until the transfer reaches a terminal state or the user quits. The last
// observed status is returned either way.
func (m *Monitor) Run(ctx context.Context, id uuid.UUID) (models.TransferStatus, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newMonitorModel(id, m.poller.Watch(ctx, id))
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.TransferStatus{}, runErr
	}

	result, ok := finalModel.(monitorModel)
	if !ok {
		return models.TransferStatus{}, tea.ErrProgramKilled
	}
	if result.err != nil {
		return result.status, result.err
	}
	if result.quitByUser && !result.status.Terminal() {
		return result.status, ErrUserQuit
	}

	m.logger.Info().
		Str("id", id.String()).
		Str("status", result.status.Status).
		Msg("monitor finished")

	return result.status, nil
}
