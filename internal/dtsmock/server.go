// SPDX-License-Identifier: Apache-2.0

// Package dtsmock is an in-process imitation of the Data Transfer System
// API. It serves the v1 endpoints over in-memory state and simulates
// transfer progression, so the CLI and the client library can be exercised
// without a KBase account or network access.
package dtsmock

import (
	"encoding/base64"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/models"
)

// Server holds the mock service's state. All exported methods and the HTTP
// handlers are safe for concurrent use.
type Server struct {
	bearer string
	info   models.ServiceInfo
	logger *logger.Logger

	mu        sync.Mutex
	databases []models.Database
	resources map[string][]models.DataResource // keyed by database ID
	transfers map[uuid.UUID]*transferState
}

// transferState tracks one submitted transfer. Progress is simulated: every
// status poll advances the transfer one step until it succeeds.
type transferState struct {
	status models.TransferStatus
}

// NewServer constructs a mock DTS that accepts the given unencoded token and
// serves the built-in seed catalog. Additional databases and files can be
// registered with [Server.AddDatabase] and [Server.AddResources].
func NewServer(token string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		bearer: "Bearer " + base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(token)+"\n")),
		info: models.ServiceInfo{
			Name:          "DTS",
			Version:       "1.0-mock",
			Documentation: "/docs",
		},
		logger:    log,
		resources: make(map[string][]models.DataResource),
		transfers: make(map[uuid.UUID]*transferState),
	}
	s.seed()
	return s
}

// AddDatabase registers a database with the mock catalog.
func (s *Server) AddDatabase(db models.Database) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databases = append(s.databases, db)
}

// AddResources registers file metadata under the database with the given ID.
func (s *Server) AddResources(database string, resources ...models.DataResource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[database] = append(s.resources[database], resources...)
}

// seed populates the catalog with a small federation resembling the real
// deployment: the JGI data portal as a source and KBase as a destination.
func (s *Server) seed() {
	s.databases = []models.Database{
		{ID: "jdp", Name: "JGI Data Portal", Organization: "Joint Genome Institute", URL: "https://data.jgi.doe.gov"},
		{ID: "kbase", Name: "KBase Workspace Service", Organization: "KBase", URL: "https://kbase.us"},
	}
	s.resources["jdp"] = []models.DataResource{
		{
			ID:     "JDP:6101cc0f2b1f2eeea564c978",
			Name:   "61564.assembled.fna",
			Path:   "img/submissions/61564/61564.assembled.fna",
			Format: "fasta",
			Bytes:  11968245,
			Hash:   "e9fa7a6a2b5d9e1a7d5a3e7b1c4f2d68",
			Sources: []models.DataSource{
				{Title: "JGI Genome Portal", Path: "https://genome.jgi.doe.gov"},
			},
		},
		{
			ID:     "JDP:6101cc0f2b1f2eeea564c979",
			Name:   "61564.assembled.gff",
			Path:   "img/submissions/61564/61564.assembled.gff",
			Format: "gff",
			Bytes:  2628352,
			Hash:   "1f0e9a6b3c5d7e9f1a3b5c7d9e1f3a5b",
		},
		{
			ID:     "JDP:613a7baa72d3a08c9a54b853",
			Name:   "Ga0499978_imgap.info",
			Path:   "img/submissions/61863/Ga0499978_imgap.info",
			Format: "texinfo",
			Bytes:  4328,
		},
	}
}

// database returns the registered database with the given ID.
func (s *Server) database(id string) (models.Database, bool) {
	for _, db := range s.databases {
		if db.ID == id {
			return db, true
		}
	}
	return models.Database{}, false
}

// advance moves a transfer one step toward completion. Terminal transfers
// are left alone.
func (t *transferState) advance() {
	switch t.status.Status {
	case models.TransferStatusStaging:
		t.status.Status = models.TransferStatusActive
	case models.TransferStatusActive:
		if t.status.NumFilesTransferred < t.status.NumFiles {
			t.status.NumFilesTransferred++
		}
		if t.status.NumFilesTransferred == t.status.NumFiles {
			t.status.Status = models.TransferStatusFinalizing
		}
	case models.TransferStatusFinalizing:
		t.status.Status = models.TransferStatusSucceeded
	}
}
