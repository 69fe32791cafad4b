// SPDX-License-Identifier: Apache-2.0

package dts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/kbase/go-dts/models"
	"github.com/rs/zerolog"
)

// apiVersion is the DTS API version this client speaks.
const apiVersion = 1

const defaultTimeout = 30 * time.Second

// Config carries the settings needed to construct a [Client].
type Config struct {
	// Server is the base URL of the DTS server
	// (e.g. "https://lb-dts.staging.kbase.us").
	Server string

	// Port optionally overrides the port the client connects to.
	Port int

	// Token is the unencoded KBase developer token used to authenticate
	// every request. Conventionally read from DTS_KBASE_DEV_TOKEN.
	Token string

	// Timeout is the per-request timeout. Defaults to 30s when zero.
	Timeout time.Duration

	// Logger receives structured request/error logs. Defaults to a no-op
	// logger when left as the zero value.
	Logger zerolog.Logger
}

// Client talks to a DTS server. It is created connected: the constructor
// performs a root query to learn the service's name and version, and the
// client holds no mutable state afterwards, so it is safe for concurrent
// use across goroutines.
type Client struct {
	client *resty.Client
	info   models.ServiceInfo
	logger zerolog.Logger
}

// New constructs a [Client] for the DTS server named in cfg and verifies
// the connection with an authenticated root query. Returns an error if the
// server URL is malformed, the server is unreachable, or the token is
// rejected.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("dts: missing API token")
	}
	baseURL, err := normalizeBaseURL(cfg.Server, cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("dts: invalid server address: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+encodeToken(cfg.Token))

	c := &Client{client: cli, logger: cfg.Logger}

	resp, err := c.client.R().Get("/")
	if err != nil {
		return nil, fmt.Errorf("dts: root query: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("dts: root query: %w", err)
	}
	if err = json.Unmarshal(resp.Body(), &c.info); err != nil {
		return nil, fmt.Errorf("dts: decode root response: %w", err)
	}

	// all other endpoints live under the versioned API root
	cli.SetBaseURL(fmt.Sprintf("%s/api/v%d", baseURL, apiVersion))

	c.logger.Debug().
		Str("server", baseURL).
		Str("name", c.info.Name).
		Str("version", c.info.Version).
		Msg("connected to DTS server")

	return c, nil
}

// normalizeBaseURL validates and canonicalizes the server address. A bare
// host gets an https scheme (the DTS is a remote TLS service); a non-zero
// port replaces the one in the address.
func normalizeBaseURL(raw string, port int) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}
	if port > 0 {
		u.Host = fmt.Sprintf("%s:%d", u.Hostname(), port)
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Info returns the service information captured from the root endpoint at
// construction time.
func (c *Client) Info() models.ServiceInfo {
	return c.info
}

// Databases returns all databases available through the connected service.
func (c *Client) Databases(ctx context.Context) ([]models.Database, error) {
	resp, err := c.api(ctx).Get("/databases")
	if err != nil {
		return nil, fmt.Errorf("databases request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var dbs []models.Database
	if err = json.Unmarshal(resp.Body(), &dbs); err != nil {
		return nil, fmt.Errorf("decode databases response: %w", err)
	}
	return dbs, nil
}

// Database returns the database with the given ID. Returns [ErrNotFound]
// (wrapped) if the service knows no such database.
func (c *Client) Database(ctx context.Context, id string) (models.Database, error) {
	if id == "" {
		return models.Database{}, fmt.Errorf("database: missing database ID")
	}

	var db models.Database
	resp, err := c.api(ctx).
		SetResult(&db).
		SetPathParam("id", id).
		Get("/databases/{id}")
	if err != nil {
		return models.Database{}, fmt.Errorf("database request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Database{}, err
	}
	return db, nil
}

// SearchParams selects files in a DTS-federated database.
type SearchParams struct {
	// Database is the ID of the database to search. Required.
	Database string

	// Orcid identifies the searching user. Required.
	Orcid string

	// Query is a search string interpreted directly by the database.
	// Required.
	Query string

	// Status optionally filters files by staging state:
	// "staged" or "unstaged".
	Status string

	// Offset is a 0-based pagination index for the first result.
	Offset int

	// Limit caps the number of results when positive.
	Limit int

	// Specific maps database-specific search parameters to their values
	// (e.g. {"f": "img_taxon_oid"} for JDP).
	Specific map[string]any
}

func (p SearchParams) validate() error {
	if p.Database == "" {
		return fmt.Errorf("search: missing database")
	}
	if p.Orcid == "" {
		return fmt.Errorf("search: missing ORCID")
	}
	if p.Query == "" {
		return fmt.Errorf("search: missing query")
	}
	if p.Status != "" && p.Status != "staged" && p.Status != "unstaged" {
		return fmt.Errorf("search: invalid status: %s", p.Status)
	}
	if p.Offset < 0 {
		return fmt.Errorf("search: offset must be non-negative")
	}
	if p.Limit < 0 {
		return fmt.Errorf("search: limit must be positive")
	}
	return nil
}

// searchBody is the wire shape of the file search endpoint's POST body.
type searchBody struct {
	Database string         `json:"database"`
	Orcid    string         `json:"orcid"`
	Query    string         `json:"query"`
	Status   string         `json:"status,omitempty"`
	Offset   int            `json:"offset,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Specific map[string]any `json:"specific,omitempty"`
}

// Search queries the named database for files matching params.Query and
// returns metadata for the files that can be transferred. Parameters are
// validated before any network call.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]models.DataResource, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	resp, err := c.api(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(searchBody{
			Database: params.Database,
			Orcid:    params.Orcid,
			Query:    params.Query,
			Status:   params.Status,
			Offset:   params.Offset,
			Limit:    params.Limit,
			Specific: params.Specific,
		}).
		Post("/files")
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var sr models.SearchResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.logger.Debug().
		Str("database", params.Database).
		Str("query", params.Query).
		Int("results", len(sr.Resources)).
		Msg("search complete")

	return sr.Resources, nil
}

// MetadataParams selects files by ID for a metadata fetch.
type MetadataParams struct {
	// Database is the ID of the database holding the files. Required.
	Database string

	// Orcid identifies the requesting user. Required.
	Orcid string

	// IDs lists the file identifiers to fetch metadata for. Required,
	// non-empty.
	IDs []string

	// Offset is a 0-based pagination index for the first result.
	Offset int

	// Limit caps the number of results when positive.
	Limit int
}

// FetchMetadata retrieves metadata for the files with the given IDs in the
// given database. Unlike Search, this is a point lookup and does not run a
// query against the database's index.
func (c *Client) FetchMetadata(ctx context.Context, params MetadataParams) ([]models.DataResource, error) {
	if params.Database == "" {
		return nil, fmt.Errorf("fetch metadata: missing database")
	}
	if params.Orcid == "" {
		return nil, fmt.Errorf("fetch metadata: missing ORCID")
	}
	if len(params.IDs) == 0 {
		return nil, fmt.Errorf("fetch metadata: missing file IDs")
	}
	if params.Offset < 0 {
		return nil, fmt.Errorf("fetch metadata: offset must be non-negative")
	}
	if params.Limit < 0 {
		return nil, fmt.Errorf("fetch metadata: limit must be positive")
	}

	req := c.api(ctx).
		SetQueryParam("database", params.Database).
		SetQueryParam("orcid", params.Orcid).
		SetQueryParam("ids", strings.Join(params.IDs, ","))
	if params.Offset > 0 {
		req.SetQueryParam("offset", fmt.Sprint(params.Offset))
	}
	if params.Limit > 0 {
		req.SetQueryParam("limit", fmt.Sprint(params.Limit))
	}

	resp, err := req.Get("/files/by-id")
	if err != nil {
		return nil, fmt.Errorf("fetch metadata request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var sr models.SearchResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}
	return sr.Resources, nil
}

// Transfer submits a request to move files from a source database to a
// destination database and returns the UUID the service assigned to the
// transfer. The UUID can be handed to [Client.TransferStatus] and
// [Client.CancelTransfer].
func (c *Client) Transfer(ctx context.Context, req models.TransferRequest) (uuid.UUID, error) {
	if req.Orcid == "" {
		return uuid.Nil, fmt.Errorf("transfer: missing ORCID")
	}
	if req.Source == "" {
		return uuid.Nil, fmt.Errorf("transfer: missing source database")
	}
	if req.Destination == "" {
		return uuid.Nil, fmt.Errorf("transfer: missing destination database")
	}
	if len(req.FileIDs) == 0 {
		return uuid.Nil, fmt.Errorf("transfer: missing file IDs")
	}

	resp, err := c.api(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/transfers")
	if err != nil {
		return uuid.Nil, fmt.Errorf("transfer request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return uuid.Nil, err
	}

	var tr models.TransferResponse
	if err = json.Unmarshal(resp.Body(), &tr); err != nil {
		return uuid.Nil, fmt.Errorf("decode transfer response: %w", err)
	}

	c.logger.Info().
		Str("id", tr.ID.String()).
		Str("source", req.Source).
		Str("destination", req.Destination).
		Int("files", len(req.FileIDs)).
		Msg("transfer submitted")

	return tr.ID, nil
}

// TransferStatus returns status information for the transfer with the given
// UUID. Status records for finished and cancelled transfers are retained by
// the service for a time, after which [ErrNotFound] is returned.
func (c *Client) TransferStatus(ctx context.Context, id uuid.UUID) (models.TransferStatus, error) {
	var status models.TransferStatus
	resp, err := c.api(ctx).
		SetResult(&status).
		SetPathParam("id", id.String()).
		Get("/transfers/{id}")
	if err != nil {
		return models.TransferStatus{}, fmt.Errorf("transfer status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TransferStatus{}, err
	}
	return status, nil
}

// CancelTransfer asks the service to cancel the transfer with the given
// UUID. The transfer's status record is retained for a time so the
// cancellation can be observed.
func (c *Client) CancelTransfer(ctx context.Context, id uuid.UUID) error {
	resp, err := c.api(ctx).
		SetPathParam("id", id.String()).
		Delete("/transfers/{id}")
	if err != nil {
		return fmt.Errorf("cancel transfer request: %w", err)
	}
	return mapHTTPError(resp)
}

// api starts a request against the versioned API root.
func (c *Client) api(ctx context.Context) *resty.Request {
	return c.client.R().SetContext(ctx)
}

func (c *Client) String() string {
	return fmt.Sprintf("dts.Client(server=%s, name=%s, version=%s)",
		c.client.BaseURL, c.info.Name, c.info.Version)
}
