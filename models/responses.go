package models

import "github.com/google/uuid"

// SearchResponse is the body returned by the file search and metadata
// endpoints. The client unwraps Resources; Database and Query echo the
// request for diagnostics.
type SearchResponse struct {
	// Database is the ID of the database that was searched.
	Database string `json:"database"`

	// Query echoes the query string that produced these results.
	Query string `json:"query,omitempty"`

	// Resources holds metadata for the matching files.
	Resources []DataResource `json:"resources"`
}

// TransferResponse is the body returned by a successful transfer submission.
type TransferResponse struct {
	// ID is the UUID assigned to the new transfer.
	ID uuid.UUID `json:"id"`
}

// APIError is the error body the DTS returns with non-2xx responses.
type APIError struct {
	// Code is the HTTP status code repeated in the body.
	Code int `json:"code"`

	// Message describes what went wrong.
	Message string `json:"error"`
}
