// SPDX-License-Identifier: Apache-2.0

package models

import "encoding/json"

// Transfer status values reported by the DTS.
const (
	// TransferStatusStaging - the requested files are being copied to the
	// staging area of the source database.
	TransferStatusStaging = "staging"

	// TransferStatusActive - the files are moving from the source database
	// to the destination database.
	TransferStatusActive = "active"

	// TransferStatusFinalizing - the files have arrived and a transfer
	// manifest is being written.
	TransferStatusFinalizing = "finalizing"

	// TransferStatusInactive - the transfer has been suspended.
	TransferStatusInactive = "inactive"

	// TransferStatusSucceeded - the transfer completed successfully.
	TransferStatusSucceeded = "succeeded"

	// TransferStatusFailed - the transfer could not be completed.
	TransferStatusFailed = "failed"

	// TransferStatusUnknown - the service cannot determine the state of
	// the transfer.
	TransferStatusUnknown = "unknown"
)

// TransferRequest is the payload submitted to create a file transfer from a
// source database to a destination database.
type TransferRequest struct {
	// Orcid identifies the user requesting the transfer.
	Orcid string `json:"orcid"`

	// Source is the ID of the database the files are transferred from.
	Source string `json:"source"`

	// Destination is the ID of the database the files are transferred to.
	Destination string `json:"destination"`

	// FileIDs lists the canonical identifiers of the files to transfer.
	FileIDs []string `json:"file_ids"`

	// Description is optional human-readable Markdown describing the
	// transfer. It is included in the transfer manifest.
	Description string `json:"description,omitempty"`

	// Instructions is an optional JSON object with machine-readable
	// instructions for processing the payload at its destination.
	Instructions json.RawMessage `json:"instructions,omitempty"`
}

// TransferStatus holds status information for a submitted file transfer.
type TransferStatus struct {
	// ID is the UUID assigned to the transfer at submission.
	ID string `json:"id"`

	// Status is one of the TransferStatus* constants.
	Status string `json:"status"`

	// Message carries additional detail, chiefly for failed transfers.
	Message string `json:"message,omitempty"`

	// NumFiles is the total number of files in the transfer payload.
	NumFiles int `json:"num_files"`

	// NumFilesTransferred is the number of files delivered so far.
	NumFilesTransferred int `json:"num_files_transferred"`
}

// Terminal reports whether the transfer has reached a final state and will
// make no further progress.
func (s TransferStatus) Terminal() bool {
	return s.Status == TransferStatusSucceeded || s.Status == TransferStatusFailed
}

// Fraction returns the completed portion of the transfer in [0, 1].
func (s TransferStatus) Fraction() float64 {
	if s.NumFiles <= 0 {
		return 0
	}
	return float64(s.NumFilesTransferred) / float64(s.NumFiles)
}
