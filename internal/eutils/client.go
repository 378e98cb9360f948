// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eutils is a thin client for the NCBI E-utilities endpoints
// (esearch, esummary, efetch) shared by the pipeline stages.
package eutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/prjmeta/pkg/types"
)

// BaseURL is the E-utilities endpoint root. Declared as a var so tests
// can substitute an httptest server.
var BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Client wraps an HTTP client with the identification parameters NCBI
// asks every caller to send.
type Client struct {
	HTTP      *http.Client
	Tool      string
	Email     string
	APIKey    string
	UserAgent string
}

// New builds a client from the stage configuration.
func New(httpClient *http.Client, cfg types.EutilsConfig) *Client {
	return &Client{
		HTTP:      httpClient,
		Tool:      cfg.Tool,
		Email:     cfg.Email,
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
	}
}

// Get performs a GET against the named endpoint (e.g. "efetch.fcgi") with
// the given parameters plus the client's identification parameters, and
// returns the full response body. Non-200 responses are errors. There is
// no retry; a failure surfaces to the caller as-is.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	merged := url.Values{}
	for k, vs := range params {
		merged[k] = vs
	}
	if c.Tool != "" {
		merged.Set("tool", c.Tool)
	}
	if c.Email != "" {
		merged.Set("email", c.Email)
	}
	if c.APIKey != "" {
		merged.Set("api_key", c.APIKey)
	}

	reqURL := BaseURL + "/" + endpoint + "?" + merged.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return body, nil
}

// EFetch retrieves one record from db in the requested rendition.
func (c *Client) EFetch(ctx context.Context, db, id, rettype, retmode string) ([]byte, error) {
	params := url.Values{}
	params.Set("db", db)
	params.Set("id", id)
	if rettype != "" {
		params.Set("rettype", rettype)
	}
	if retmode != "" {
		params.Set("retmode", retmode)
	}
	return c.Get(ctx, "efetch.fcgi", params)
}

// esearchEnvelope is the JSON rendition of an esearch response.
type esearchEnvelope struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// ESearch runs a term query against db and returns the matching UIDs in
// the order the index ranked them.
func (c *Client) ESearch(ctx context.Context, db, term string, retmax int) ([]string, error) {
	params := url.Values{}
	params.Set("db", db)
	params.Set("term", term)
	params.Set("retmode", "json")
	if retmax > 0 {
		params.Set("retmax", strconv.Itoa(retmax))
	}

	body, err := c.Get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var env esearchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return env.Result.IDList, nil
}

// ESummary retrieves the JSON document summary for one UID in db.
func (c *Client) ESummary(ctx context.Context, db, uid string) ([]byte, error) {
	params := url.Values{}
	params.Set("db", db)
	params.Set("id", uid)
	params.Set("retmode", "json")
	return c.Get(ctx, "esummary.fcgi", params)
}
