// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package esearch queries the NCBI E-utilities esearch endpoint for the number
// of records matching a term within a publication-date window.
package esearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/research-trends/internal/httputil"
	"github.com/pdiddy/research-trends/pkg/types"
)

// esearchBase is the public esearch endpoint.
const esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"

// DefaultDatabase is the Entrez database queried when none is configured.
const DefaultDatabase = "pubmed"

// BuildQueryURL returns the count-only esearch URL for the window
// [minYear, maxYear) on the public endpoint.
func BuildQueryURL(minYear, maxYear int, db string, term types.SearchTerm, apiKey string) string {
	return buildQueryURL(esearchBase, minYear, maxYear, db, term, apiKey)
}

// buildQueryURL fills the fixed template. The '+' separators of the term are
// kept as written and every word between them is query-escaped, with spaces
// written as %20, so characters like '#', '&' and '%' cannot cut off the
// date window.
func buildQueryURL(base string, minYear, maxYear int, db string, term types.SearchTerm, apiKey string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?db=")
	b.WriteString(db)
	if apiKey != "" {
		b.WriteString("&api_key=")
		b.WriteString(apiKey)
	}
	b.WriteString("&term=")
	b.WriteString(escapeTerm(term))
	fmt.Fprintf(&b, "&mindate=%d&maxdate=%d", minYear, maxYear)
	b.WriteString("&datetype=pdat&retmode=json&retmax=0&rettype=count")
	return b.String()
}

func escapeTerm(term types.SearchTerm) string {
	words := strings.Split(term.String(), "+")
	for i, w := range words {
		// QueryEscape writes spaces as '+', which would read as a separator.
		words[i] = strings.ReplaceAll(url.QueryEscape(w), "+", "%20")
	}
	return strings.Join(words, "+")
}

// Client issues count queries.
type Client struct {
	HTTP *http.Client
	Cfg  types.ESearchConfig
}

// NewClient returns a Client whose HTTP timeout comes from cfg.
func NewClient(cfg types.ESearchConfig) *Client {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
	}
}

// QueryURL returns the URL Count would request for window.
func (c *Client) QueryURL(term types.SearchTerm, window types.YearWindow) string {
	base := c.Cfg.BaseURL
	if base == "" {
		base = esearchBase
	}
	db := c.Cfg.Database
	if db == "" {
		db = DefaultDatabase
	}
	return buildQueryURL(base, window.Min, window.Max, db, term, c.Cfg.APIKey)
}

// Count returns the number of records matching term published in window.
// Non-2xx responses surface as *httputil.StatusError; bodies without an
// integer count wrap httputil.ErrMalformed.
func (c *Client) Count(ctx context.Context, term types.SearchTerm, window types.YearWindow) (int, error) {
	var resp countResponse
	if err := httputil.GetJSON(ctx, c.HTTP, c.QueryURL(term, window), c.Cfg.UserAgent, &resp); err != nil {
		return 0, fmt.Errorf("esearch %d-%d: %w", window.Min, window.Max, err)
	}

	if resp.Result == nil {
		if resp.Error != "" {
			return 0, fmt.Errorf("esearch %d-%d: %w: %s", window.Min, window.Max, httputil.ErrMalformed, resp.Error)
		}
		return 0, fmt.Errorf("esearch %d-%d: %w: missing esearchresult", window.Min, window.Max, httputil.ErrMalformed)
	}

	n, err := strconv.Atoi(strings.TrimSpace(resp.Result.Count))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("esearch %d-%d: %w: count %q", window.Min, window.Max, httputil.ErrMalformed, resp.Result.Count)
	}
	return n, nil
}

// esearch JSON structures. The count is a decimal string.
type countResponse struct {
	Header struct {
		Type    string `json:"type"`
		Version string `json:"version"`
	} `json:"header"`
	Result *countResult `json:"esearchresult"`
	Error  string       `json:"error"`
}

type countResult struct {
	Count    string   `json:"count"`
	RetMax   string   `json:"retmax"`
	RetStart string   `json:"retstart"`
	IDList   []string `json:"idlist"`
}
