// SPDX-License-Identifier: Apache-2.0

package dtsmock

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/models"
)

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.info)
}

func (s *Server) listDatabases(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.databases)
}

func (s *Server) getDatabase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	db, ok := s.database(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown database: "+id)
		return
	}
	writeJSON(w, http.StatusOK, db)
}

// searchRequest is the POST body of the file search endpoint.
type searchRequest struct {
	Database string         `json:"database"`
	Orcid    string         `json:"orcid"`
	Query    string         `json:"query"`
	Status   string         `json:"status"`
	Offset   int            `json:"offset"`
	Limit    int            `json:"limit"`
	Specific map[string]any `json:"specific"`
}

func (s *Server) searchFiles(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Server.searchFiles").Msg("invalid JSON was passed")
		writeError(w, http.StatusBadRequest, "invalid JSON was passed")
		return
	}
	if req.Database == "" || req.Orcid == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, "database, orcid and query are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.database(req.Database); !ok {
		writeError(w, http.StatusNotFound, "unknown database: "+req.Database)
		return
	}

	var matches []models.DataResource
	needle := strings.ToLower(req.Query)
	for _, res := range s.resources[req.Database] {
		if strings.Contains(strings.ToLower(res.Name), needle) ||
			strings.Contains(strings.ToLower(res.Path), needle) {
			matches = append(matches, res)
		}
	}
	matches = window(matches, req.Offset, req.Limit)

	writeJSON(w, http.StatusOK, models.SearchResponse{
		Database:  req.Database,
		Query:     req.Query,
		Resources: matches,
	})
}

func (s *Server) filesByID(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	database := q.Get("database")
	ids := q.Get("ids")
	if database == "" || q.Get("orcid") == "" || ids == "" {
		writeError(w, http.StatusBadRequest, "database, orcid and ids are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.database(database); !ok {
		writeError(w, http.StatusNotFound, "unknown database: "+database)
		return
	}

	byID := make(map[string]models.DataResource, len(s.resources[database]))
	for _, res := range s.resources[database] {
		byID[res.ID] = res
	}

	var matches []models.DataResource
	for _, id := range strings.Split(ids, ",") {
		res, ok := byID[id]
		if !ok {
			writeError(w, http.StatusNotFound, "unknown file: "+id)
			return
		}
		matches = append(matches, res)
	}
	matches = window(matches, atoi(q.Get("offset")), atoi(q.Get("limit")))

	writeJSON(w, http.StatusOK, models.SearchResponse{
		Database:  database,
		Resources: matches,
	})
}

func (s *Server) createTransfer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Server.createTransfer").Msg("invalid JSON was passed")
		writeError(w, http.StatusBadRequest, "invalid JSON was passed")
		return
	}
	if req.Orcid == "" || req.Source == "" || req.Destination == "" || len(req.FileIDs) == 0 {
		writeError(w, http.StatusBadRequest, "orcid, source, destination and file_ids are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.database(req.Source); !ok {
		writeError(w, http.StatusNotFound, "unknown source database: "+req.Source)
		return
	}
	if _, ok := s.database(req.Destination); !ok {
		writeError(w, http.StatusNotFound, "unknown destination database: "+req.Destination)
		return
	}

	id := uuid.New()
	s.transfers[id] = &transferState{
		status: models.TransferStatus{
			ID:       id.String(),
			Status:   models.TransferStatusStaging,
			NumFiles: len(req.FileIDs),
		},
	}

	log.Info().
		Str("id", id.String()).
		Str("source", req.Source).
		Str("destination", req.Destination).
		Int("files", len(req.FileIDs)).
		Msg("transfer accepted")

	writeJSON(w, http.StatusCreated, models.TransferResponse{ID: id})
}

func (s *Server) transferStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed transfer ID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown transfer: "+id.String())
		return
	}
	// report the current state, then simulate one step of progress so the
	// next poll observes the transfer moving
	status := t.status
	t.advance()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) cancelTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed transfer ID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown transfer: "+id.String())
		return
	}
	if !t.status.Terminal() {
		t.status.Status = models.TransferStatusFailed
		t.status.Message = "canceled at user request"
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.APIError{Code: status, Message: message})
}

// window applies offset and limit pagination to resources.
func window(resources []models.DataResource, offset, limit int) []models.DataResource {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(resources) {
		return nil
	}
	resources = resources[offset:]
	if limit > 0 && limit < len(resources) {
		resources = resources[:limit]
	}
	return resources
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
