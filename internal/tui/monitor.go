// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kbase/go-dts/dts"
	"github.com/kbase/go-dts/internal/workers"
	"github.com/kbase/go-dts/models"
)

type monitorModel struct {
	id      uuid.UUID
	updates <-chan workers.Update

	spinner  spinner.Model
	progress progress.Model

	status     models.TransferStatus
	observed   bool
	note       string
	err        error
	quitByUser bool
}

func newMonitorModel(id uuid.UUID, updates <-chan workers.Update) monitorModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return monitorModel{
		id:       id,
		updates:  updates,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func waitForObservation(updates <-chan workers.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		return observationMsg{update: u, ok: ok}
	}
}

func clearNoteAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoteMsg{}
	})
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForObservation(m.updates))
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quitByUser = true
			return m, tea.Quit
		case key.Matches(msg, keys.copy):
			return m, copyTransferID(m.id)
		}

	case observationMsg:
		if !msg.ok {
			// watch ended: either the transfer is terminal or the fatal
			// error has already been recorded
			return m, tea.Quit
		}
		if msg.update.Err != nil {
			if errors.Is(msg.update.Err, dts.ErrNotFound) || errors.Is(msg.update.Err, context.Canceled) {
				m.err = msg.update.Err
			} else {
				m.note = "poll failed: " + msg.update.Err.Error()
			}
			return m, waitForObservation(m.updates)
		}
		m.status = msg.update.Status
		m.observed = true
		return m, waitForObservation(m.updates)

	case copiedMsg:
		m.note = "transfer ID copied to clipboard"
		return m, clearNoteAfter(2 * time.Second)

	case clearNoteMsg:
		m.note = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m monitorModel) View() string {
	out := titleStyle.Render("Transfer "+m.id.String()) + "\n\n"

	switch {
	case m.err != nil:
		out += errorStyle.Render(m.err.Error()) + "\n"
	case !m.observed:
		out += m.spinner.View() + " contacting server...\n"
	case m.status.Terminal():
		style := doneStyle
		if m.status.Status == models.TransferStatusFailed {
			style = errorStyle
		}
		out += style.Render(m.status.Status) + "\n"
	default:
		out += m.spinner.View() + " " + m.status.Status + "\n"
	}

	if m.observed {
		out += "\n" + m.progress.ViewAs(m.status.Fraction()) + "\n"
		out += fmt.Sprintf("%d of %d files transferred\n", m.status.NumFilesTransferred, m.status.NumFiles)
		if m.status.Message != "" {
			out += statusStyle.Render(m.status.Message) + "\n"
		}
	}

	if m.note != "" {
		out += "\n" + statusStyle.Render(m.note) + "\n"
	}
	out += "\n" + helpStyle.Render("c copy ID  q quit")

	return appStyle.Render(out)
}

func copyTransferID(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(id.String()); err != nil {
			return clearNoteMsg{}
		}
		return copiedMsg{}
	}
}
