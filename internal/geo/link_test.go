// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prjmeta/internal/eutils"
)

// geoServer fakes the esearch/esummary endpoints for one GEO series.
type geoServer struct {
	uid       string
	title     string
	pubmedIDs string // JSON array literal
	searchIDs string // pubmed title-search JSON array literal

	titleSearches int32
	lastTerm      atomic.Value
}

func (s *geoServer) handler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/esearch.fcgi":
		switch r.URL.Query().Get("db") {
		case "gds":
			fmt.Fprintf(w, `{"esearchresult":{"count":"1","idlist":["%s"]}}`, s.uid)
		case "pubmed":
			atomic.AddInt32(&s.titleSearches, 1)
			s.lastTerm.Store(r.URL.Query().Get("term"))
			fmt.Fprintf(w, `{"esearchresult":{"count":"1","idlist":%s}}`, s.searchIDs)
		default:
			http.Error(w, "unexpected db", http.StatusBadRequest)
		}
	case "/esummary.fcgi":
		fmt.Fprintf(w, `{"result":{"uids":["%s"],"%s":{"accession":"GSE234567","title":%q,"pubmedids":%s}}}`,
			s.uid, s.uid, s.title, s.pubmedIDs)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func newLinkClient(t *testing.T, s *geoServer) *eutils.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(s.handler))
	old := eutils.BaseURL
	eutils.BaseURL = ts.URL
	t.Cleanup(func() {
		eutils.BaseURL = old
		ts.Close()
	})
	return &eutils.Client{HTTP: ts.Client()}
}

func TestLinkReturnsLinkedPMIDs(t *testing.T) {
	srv := &geoServer{uid: "200234567", title: "some title", pubmedIDs: `[39160575, 39812345]`}
	client := newLinkClient(t, srv)

	pmids, err := Link(context.Background(), client, "GSE234567", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"39160575", "39812345"}, pmids)
	assert.Zero(t, atomic.LoadInt32(&srv.titleSearches), "no fallback search when PMIDs are linked")
}

func TestLinkFallsBackToTitleSearch(t *testing.T) {
	srv := &geoServer{
		uid:       "200234567",
		title:     "Airway epithelium across disease states",
		pubmedIDs: `[]`,
		searchIDs: `["12345"]`,
	}
	client := newLinkClient(t, srv)

	pmids, err := Link(context.Background(), client, "GSE234567", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"12345"}, pmids)
	assert.Equal(t, int32(1), atomic.LoadInt32(&srv.titleSearches))

	term, _ := srv.lastTerm.Load().(string)
	assert.Contains(t, term, "[Title]")
	assert.Contains(t, term, "Airway epithelium")
}

func TestLinkNoPMIDsNoTitle(t *testing.T) {
	srv := &geoServer{uid: "200234567", title: "", pubmedIDs: `[]`, searchIDs: `["12345"]`}
	client := newLinkClient(t, srv)

	pmids, err := Link(context.Background(), client, "GSE234567", io.Discard)
	require.NoError(t, err)
	assert.Empty(t, pmids)
	assert.Zero(t, atomic.LoadInt32(&srv.titleSearches), "no search without a title")
}

func TestLinkTitleSearchNoHits(t *testing.T) {
	srv := &geoServer{uid: "200234567", title: "unmatchable title", pubmedIDs: `[]`, searchIDs: `[]`}
	client := newLinkClient(t, srv)

	pmids, err := Link(context.Background(), client, "GSE234567", io.Discard)
	require.NoError(t, err)
	assert.Empty(t, pmids)
}

func TestLinkEmptyAccessionSkipsNetwork(t *testing.T) {
	var called int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
	}))
	old := eutils.BaseURL
	eutils.BaseURL = ts.URL
	t.Cleanup(func() {
		eutils.BaseURL = old
		ts.Close()
	})
	client := &eutils.Client{HTTP: ts.Client()}

	for _, accession := range []string{"", "   "} {
		pmids, err := Link(context.Background(), client, accession, io.Discard)
		require.NoError(t, err)
		assert.Empty(t, pmids)
	}
	assert.Zero(t, atomic.LoadInt32(&called))
}

func TestLinkUnknownAccession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"count":"0","idlist":[]}}`)
	}))
	old := eutils.BaseURL
	eutils.BaseURL = ts.URL
	t.Cleanup(func() {
		eutils.BaseURL = old
		ts.Close()
	})
	client := &eutils.Client{HTTP: ts.Client()}

	var progress strings.Builder
	pmids, err := Link(context.Background(), client, "GSE0", &progress)
	require.NoError(t, err)
	assert.Empty(t, pmids)
	assert.Contains(t, progress.String(), "GSE0")
}
