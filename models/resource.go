// SPDX-License-Identifier: Apache-2.0

package models

import "encoding/json"

// DataResource holds the metadata the DTS reports for a single file, shaped
// after the Frictionless data-resource convention used by the service.
//
// Fields that carry database-specific structures (Credit, Extra) are kept as
// raw JSON: their shape varies between repositories and the client treats
// them as opaque.
type DataResource struct {
	// ID is the canonical file identifier within its database,
	// prefixed with the database ID (e.g. "JDP:6101cc0f2b1f2eeea564c978").
	ID string `json:"id"`

	// Name is the file name without its path.
	Name string `json:"name"`

	// Path is the file path relative to the root of its database.
	Path string `json:"path"`

	// Title is an optional human-readable title for the resource.
	Title string `json:"title,omitempty"`

	// Description is optional descriptive Markdown text.
	Description string `json:"description,omitempty"`

	// Format is the file format (e.g. "fastq", "bam", "tar").
	Format string `json:"format"`

	// MediaType is the MIME type of the file, when known.
	MediaType string `json:"media_type,omitempty"`

	// Bytes is the size of the file in bytes.
	Bytes int64 `json:"bytes"`

	// Hash is the checksum reported by the database for the file.
	Hash string `json:"hash,omitempty"`

	// Sources lists provenance entries for the resource.
	Sources []DataSource `json:"sources,omitempty"`

	// Credit carries CRediT-style attribution metadata. Its shape is
	// database-specific, so it is preserved verbatim.
	Credit json.RawMessage `json:"credit,omitempty"`

	// Extra holds database-specific fields requested via search parameters
	// (e.g. img_taxon_oid for JDP results).
	Extra json.RawMessage `json:"extra,omitempty"`
}

// DataSource identifies where a resource originally came from.
type DataSource struct {
	// Title is the name of the source.
	Title string `json:"title"`

	// Path is a URI locating the source, if available.
	Path string `json:"path,omitempty"`

	// Email is a contact address for the source, if available.
	Email string `json:"email,omitempty"`
}
