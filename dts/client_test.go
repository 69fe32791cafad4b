// SPDX-License-Identifier: Apache-2.0

package dts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbase/go-dts/models"
)

const testToken = "xyzzy"

// newTestServer wires a fake DTS: the root endpoint answers the client's
// construction query, everything else goes to handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.ServiceInfo{Name: "DTS", Version: "1.2.3"})
	})
	if handler != nil {
		mux.HandleFunc("/api/v1/", handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := newTestServer(t, handler)
	c, err := New(Config{Server: srv.URL, Token: testToken})
	require.NoError(t, err)
	return c
}

// ── New ─────────────────────────────────────────────────────────────────────

func TestNew_Success(t *testing.T) {
	c := newTestClient(t, nil)

	info := c.Info()
	assert.Equal(t, "DTS", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New(Config{Server: "https://dts.example.org"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestNew_InvalidServer(t *testing.T) {
	_, err := New(Config{Server: "   ", Token: testToken})
	require.Error(t, err)
}

func TestNew_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.APIError{Code: 401, Message: "invalid token"})
	}))
	defer srv.Close()

	_, err := New(Config{Server: srv.URL, Token: testToken})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNew_SendsEncodedBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.ServiceInfo{Name: "DTS", Version: "1.2.3"})
	}))
	defer srv.Close()

	_, err := New(Config{Server: srv.URL, Token: testToken})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(gotAuth, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, testToken+"\n", string(decoded))
}

// ── normalizeBaseURL ────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		port    int
		want    string
		wantErr bool
	}{
		{name: "full url", raw: "https://dts.example.org", want: "https://dts.example.org"},
		{name: "trailing slash trimmed", raw: "https://dts.example.org/", want: "https://dts.example.org"},
		{name: "bare host gets https", raw: "dts.example.org", want: "https://dts.example.org"},
		{name: "port override", raw: "https://dts.example.org", port: 8443, want: "https://dts.example.org:8443"},
		{name: "port replaces existing", raw: "https://dts.example.org:443", port: 8443, want: "https://dts.example.org:8443"},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank", raw: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw, tt.port)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── Databases ───────────────────────────────────────────────────────────────

func TestDatabases_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/databases", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.Database{
			{ID: "jdp", Name: "JGI Data Portal", Organization: "Joint Genome Institute", URL: "https://data.jgi.doe.gov"},
			{ID: "kbase", Name: "KBase Workspace Service", Organization: "KBase", URL: "https://www.kbase.us"},
		})
	})

	dbs, err := c.Databases(context.Background())

	require.NoError(t, err)
	require.Len(t, dbs, 2)
	assert.Equal(t, "jdp", dbs[0].ID)
	assert.Equal(t, "kbase", dbs[1].ID)
}

func TestDatabases_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(models.APIError{Code: 500, Message: "boom"})
	})

	_, err := c.Databases(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
	assert.Contains(t, err.Error(), "boom")
}

func TestDatabase_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/databases/jdp", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Database{ID: "jdp", Name: "JGI Data Portal"})
	})

	db, err := c.Database(context.Background(), "jdp")

	require.NoError(t, err)
	assert.Equal(t, "jdp", db.ID)
}

func TestDatabase_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.APIError{Code: 404, Message: "no such database"})
	})

	_, err := c.Database(context.Background(), "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDatabase_MissingID(t *testing.T) {
	c := newTestClient(t, nil)

	_, err := c.Database(context.Background(), "")

	require.Error(t, err)
}

// ── Search ──────────────────────────────────────────────────────────────────

func TestSearch_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/files", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jdp", body["database"])
		assert.Equal(t, "prochlorococcus", body["query"])
		assert.Equal(t, "0000-0002-1825-0097", body["orcid"])

		_ = json.NewEncoder(w).Encode(models.SearchResponse{
			Database: "jdp",
			Query:    "prochlorococcus",
			Resources: []models.DataResource{
				{ID: "JDP:6101cc0f2b1f2eeea564c978", Name: "reads.fastq.gz", Format: "fastq", Bytes: 12345},
			},
		})
	})

	results, err := c.Search(context.Background(), SearchParams{
		Database: "jdp",
		Orcid:    "0000-0002-1825-0097",
		Query:    "prochlorococcus",
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, strings.HasPrefix(results[0].ID, "JDP:"))
}

func TestSearch_OptionalParamsForwarded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "staged", body["status"])
		assert.Equal(t, float64(10), body["offset"])
		assert.Equal(t, float64(50), body["limit"])
		specific, ok := body["specific"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "img_taxon_oid", specific["f"])

		_ = json.NewEncoder(w).Encode(models.SearchResponse{Resources: []models.DataResource{}})
	})

	_, err := c.Search(context.Background(), SearchParams{
		Database: "jdp",
		Orcid:    "0000-0002-1825-0097",
		Query:    "2582580701",
		Status:   "staged",
		Offset:   10,
		Limit:    50,
		Specific: map[string]any{"f": "img_taxon_oid"},
	})

	require.NoError(t, err)
}

func TestSearch_ValidationBeforeNetwork(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	tests := []struct {
		name   string
		params SearchParams
	}{
		{name: "missing database", params: SearchParams{Orcid: "x", Query: "q"}},
		{name: "missing orcid", params: SearchParams{Database: "jdp", Query: "q"}},
		{name: "missing query", params: SearchParams{Database: "jdp", Orcid: "x"}},
		{name: "bad status", params: SearchParams{Database: "jdp", Orcid: "x", Query: "q", Status: "pending"}},
		{name: "negative offset", params: SearchParams{Database: "jdp", Orcid: "x", Query: "q", Offset: -1}},
		{name: "negative limit", params: SearchParams{Database: "jdp", Orcid: "x", Query: "q", Limit: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Search(context.Background(), tt.params)
			require.Error(t, err)
		})
	}
	assert.False(t, called)
}

func TestSearch_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.APIError{Code: 401, Message: "expired token"})
	})

	_, err := c.Search(context.Background(), SearchParams{Database: "jdp", Orcid: "x", Query: "q"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── FetchMetadata ───────────────────────────────────────────────────────────

func TestFetchMetadata_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/files/by-id", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "jdp", q.Get("database"))
		assert.Equal(t, "JDP:a,JDP:b", q.Get("ids"))

		_ = json.NewEncoder(w).Encode(models.SearchResponse{
			Resources: []models.DataResource{{ID: "JDP:a"}, {ID: "JDP:b"}},
		})
	})

	results, err := c.FetchMetadata(context.Background(), MetadataParams{
		Database: "jdp",
		Orcid:    "0000-0002-1825-0097",
		IDs:      []string{"JDP:a", "JDP:b"},
	})

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFetchMetadata_EmptyIDs(t *testing.T) {
	c := newTestClient(t, nil)

	_, err := c.FetchMetadata(context.Background(), MetadataParams{
		Database: "jdp",
		Orcid:    "x",
	})

	require.Error(t, err)
}

func TestFetchMetadata_PaginationForwarded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("offset"))
		assert.Equal(t, "5", q.Get("limit"))
		_ = json.NewEncoder(w).Encode(models.SearchResponse{})
	})

	_, err := c.FetchMetadata(context.Background(), MetadataParams{
		Database: "jdp",
		Orcid:    "x",
		IDs:      []string{"JDP:a"},
		Offset:   20,
		Limit:    5,
	})

	require.NoError(t, err)
}

// ── Transfer ────────────────────────────────────────────────────────────────

func TestTransfer_Success(t *testing.T) {
	want := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/transfers", r.URL.Path)

		var req models.TransferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jdp", req.Source)
		assert.Equal(t, "kbase", req.Destination)
		assert.Len(t, req.FileIDs, 2)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.TransferResponse{ID: want})
	})

	id, err := c.Transfer(context.Background(), models.TransferRequest{
		Orcid:       "0000-0002-1825-0097",
		Source:      "jdp",
		Destination: "kbase",
		FileIDs:     []string{"JDP:a", "JDP:b"},
	})

	require.NoError(t, err)
	assert.Equal(t, want, id)
}

func TestTransfer_Validation(t *testing.T) {
	c := newTestClient(t, nil)

	tests := []struct {
		name string
		req  models.TransferRequest
	}{
		{name: "missing orcid", req: models.TransferRequest{Source: "jdp", Destination: "kbase", FileIDs: []string{"a"}}},
		{name: "missing source", req: models.TransferRequest{Orcid: "x", Destination: "kbase", FileIDs: []string{"a"}}},
		{name: "missing destination", req: models.TransferRequest{Orcid: "x", Source: "jdp", FileIDs: []string{"a"}}},
		{name: "no files", req: models.TransferRequest{Orcid: "x", Source: "jdp", Destination: "kbase"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := c.Transfer(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, uuid.Nil, id)
		})
	}
}

func TestTransfer_BadRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.APIError{Code: 400, Message: "unknown destination database"})
	})

	id, err := c.Transfer(context.Background(), models.TransferRequest{
		Orcid: "x", Source: "jdp", Destination: "bogus", FileIDs: []string{"a"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, uuid.Nil, id)
}

// ── TransferStatus / CancelTransfer ─────────────────────────────────────────

func TestTransferStatus_Success(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transfers/"+id.String(), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.TransferStatus{
			ID:                  id.String(),
			Status:              models.TransferStatusActive,
			NumFiles:            10,
			NumFilesTransferred: 4,
		})
	})

	status, err := c.TransferStatus(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusActive, status.Status)
	assert.False(t, status.Terminal())
	assert.InDelta(t, 0.4, status.Fraction(), 1e-9)
}

func TestTransferStatus_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.APIError{Code: 404, Message: "unknown transfer"})
	})

	_, err := c.TransferStatus(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelTransfer_Success(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/transfers/"+id.String(), r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.CancelTransfer(context.Background(), id)

	require.NoError(t, err)
}

func TestCancelTransfer_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.APIError{Code: 404, Message: "unknown transfer"})
	})

	err := c.CancelTransfer(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── context cancellation ────────────────────────────────────────────────────

func TestSearch_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(models.SearchResponse{})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Search(ctx, SearchParams{Database: "jdp", Orcid: "x", Query: "q"})

	require.Error(t, err)
}
