// SPDX-License-Identifier: Apache-2.0

package dtsmock

import (
	"crypto/subtle"
	"net/http"

	"github.com/kbase/go-dts/internal/logger"
)

// withAuth rejects requests whose Authorization header does not carry the
// expected bearer token.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.bearer)) != 1 {
			logger.FromRequest(r).Warn().
				Str("uri", r.RequestURI).
				Msg("rejected request with invalid token")
			writeError(w, http.StatusUnauthorized, "invalid or missing API token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
