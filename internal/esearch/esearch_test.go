// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package esearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-trends/internal/httputil"
	"github.com/pdiddy/research-trends/pkg/types"
)

func TestBuildQueryURL(t *testing.T) {
	tests := []struct {
		name   string
		min    int
		max    int
		db     string
		term   types.SearchTerm
		apiKey string
		want   string
	}{
		{
			name:   "all four values substituted",
			min:    2000,
			max:    2010,
			db:     "pubmed",
			term:   "cancer",
			apiKey: "demo-key",
			want:   "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi?db=pubmed&api_key=demo-key&term=cancer&mindate=2000&maxdate=2010&datetype=pdat&retmode=json&retmax=0&rettype=count",
		},
		{
			name: "no key omits api_key",
			min:  1999,
			max:  2000,
			db:   "pmc",
			term: "lung+cancer",
			want: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi?db=pmc&term=lung+cancer&mindate=1999&maxdate=2000&datetype=pdat&retmode=json&retmax=0&rettype=count",
		},
		{
			name: "remaining spaces escaped",
			min:  2000,
			max:  2001,
			db:   "pubmed",
			term: "small+cell lung",
			want: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi?db=pubmed&term=small+cell%20lung&mindate=2000&maxdate=2001&datetype=pdat&retmode=json&retmax=0&rettype=count",
		},
		{
			name: "reserved characters escaped",
			min:  2000,
			max:  2001,
			db:   "pubmed",
			term: "C#+lung&cancer 100%",
			want: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi?db=pubmed&term=C%23+lung%26cancer%20100%25&mindate=2000&maxdate=2001&datetype=pdat&retmode=json&retmax=0&rettype=count",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueryURL(tt.min, tt.max, tt.db, tt.term, tt.apiKey))
		})
	}
}

func countServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &queries
}

func testClient(ts *httptest.Server) *Client {
	c := NewClient(types.ESearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		BaseURL:    ts.URL,
		APIKey:     "k",
	})
	c.HTTP = ts.Client()
	return c
}

const sampleCountJSON = `{
  "header": {"type": "esearch", "version": "0.3"},
  "esearchresult": {"count": "1523", "retmax": "0", "retstart": "0", "idlist": []}
}`

func TestCount(t *testing.T) {
	ts, queries := countServer(t, http.StatusOK, sampleCountJSON)
	c := testClient(ts)

	n, err := c.Count(context.Background(), "lung+cancer", types.YearWindow{Min: 2000, Max: 2001})
	require.NoError(t, err)
	assert.Equal(t, 1523, n)

	require.Len(t, *queries, 1)
	assert.Equal(t, "db=pubmed&api_key=k&term=lung+cancer&mindate=2000&maxdate=2001&datetype=pdat&retmode=json&retmax=0&rettype=count", (*queries)[0])
}

func TestCountKeepsDateWindowForReservedCharacters(t *testing.T) {
	var got []*http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r)
		fmt.Fprint(w, sampleCountJSON)
	}))
	t.Cleanup(ts.Close)
	c := testClient(ts)

	_, err := c.Count(context.Background(), "C#+programming", types.YearWindow{Min: 2000, Max: 2001})
	require.NoError(t, err)

	require.Len(t, got, 1)
	q := got[0].URL.Query()
	assert.Equal(t, "C# programming", q.Get("term"))
	assert.Equal(t, "2000", q.Get("mindate"))
	assert.Equal(t, "2001", q.Get("maxdate"))
	assert.Equal(t, "count", q.Get("rettype"))
}

func TestCountHTTPFailure(t *testing.T) {
	ts, _ := countServer(t, http.StatusTooManyRequests, `{"error":"API rate limit exceeded"}`)
	c := testClient(ts)

	_, err := c.Count(context.Background(), "cancer", types.YearWindow{Min: 2000, Max: 2001})
	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}

func TestCountMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<eSearchResult>`},
		{"missing result", `{"header": {"type": "esearch"}}`},
		{"error field", `{"error": "Invalid db name specified: foo"}`},
		{"non-numeric count", `{"esearchresult": {"count": "many"}}`},
		{"negative count", `{"esearchresult": {"count": "-3"}}`},
		{"empty count", `{"esearchresult": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := countServer(t, http.StatusOK, tt.body)
			c := testClient(ts)

			_, err := c.Count(context.Background(), "cancer", types.YearWindow{Min: 2000, Max: 2001})
			assert.ErrorIs(t, err, httputil.ErrMalformed)
		})
	}
}

func TestClientDefaults(t *testing.T) {
	c := NewClient(types.ESearchConfig{})
	assert.Equal(t, DefaultDatabase, c.Cfg.Database)
	assert.Equal(t,
		"https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi?db=pubmed&term=x&mindate=1&maxdate=2&datetype=pdat&retmode=json&retmax=0&rettype=count",
		c.QueryURL("x", types.YearWindow{Min: 1, Max: 2}))
}
