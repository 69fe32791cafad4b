// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/kbase/go-dts/internal/workers"

// observationMsg carries one poller observation into the model. ok is false
// when the watch channel has been closed.
type observationMsg struct {
	update workers.Update
	ok     bool
}

type copiedMsg struct{}

type clearNoteMsg struct{}
