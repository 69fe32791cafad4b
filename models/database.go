// SPDX-License-Identifier: Apache-2.0

package models

// Database describes one of the data repositories federated by the DTS.
// Databases are the endpoints of every search and transfer: files are
// located in a source database and delivered to a destination database.
type Database struct {
	// ID is the short identifier used to select the database in API calls
	// (e.g. "jdp", "kbase", "nmdc").
	ID string `json:"id"`

	// Name is the human-readable name of the database.
	Name string `json:"name"`

	// Organization is the institution operating the database.
	Organization string `json:"organization"`

	// URL is the public web address of the database.
	URL string `json:"url"`
}
