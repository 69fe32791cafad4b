// SPDX-License-Identifier: Apache-2.0

package dtsmock

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler builds the mock service's router. Every route, the root query
// included, requires the bearer token the server was constructed with.
func (s *Server) Handler() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.withLogging)
	router.Use(s.withAuth)

	router.Get("/", s.root)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/databases", s.listDatabases)
		r.Get("/databases/{id}", s.getDatabase)
		r.Post("/files", s.searchFiles)
		r.Get("/files/by-id", s.filesByID)
		r.Post("/transfers", s.createTransfer)
		r.Get("/transfers/{id}", s.transferStatus)
		r.Delete("/transfers/{id}", s.cancelTransfer)
	})

	return router
}
