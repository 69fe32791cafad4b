package models

import "time"

// TransferRecord is the journal's view of a submitted transfer. It pairs the
// immutable submission parameters with the latest status observed from the
// server, so past transfers can be listed and in-flight ones resumed after a
// restart.
type TransferRecord struct {
	// ID is the UUID the service assigned to the transfer.
	ID string `json:"id"`

	// Orcid identifies the user who submitted the transfer.
	Orcid string `json:"orcid"`

	// Source is the ID of the database files were transferred from.
	Source string `json:"source"`

	// Destination is the ID of the database files were transferred to.
	Destination string `json:"destination"`

	// Description is the optional Markdown text sent with the submission.
	Description string `json:"description,omitempty"`

	// Status is the last observed transfer status (TransferStatus* value).
	Status string `json:"status"`

	// Message carries the last observed status detail.
	Message string `json:"message,omitempty"`

	// NumFiles is the number of files in the transfer payload.
	NumFiles int `json:"num_files"`

	// NumFilesTransferred is the last observed delivery count.
	NumFilesTransferred int `json:"num_files_transferred"`

	// SubmittedAt is when the transfer was accepted by the server.
	SubmittedAt time.Time `json:"submitted_at"`

	// UpdatedAt is when the journal row was last refreshed.
	UpdatedAt time.Time `json:"updated_at"`
}
