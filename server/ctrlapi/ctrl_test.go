package ctrlapi

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	jd "github.com/josephburnett/jd/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/seed"
	"go.senan.xyz/fyyur/server/ctrlbase"
)

var (
	testDataDir   = "testdata"
	testCamelExpr = regexp.MustCompile("([a-z0-9])([A-Z])")
	testNow       = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
)

type queryCase struct {
	name   string
	params url.Values
	vars   map[string]string
}

func makeGoldenPath(test string) string {
	// convert test name to query case path
	snake := testCamelExpr.ReplaceAllString(test, "${1}_${2}")
	lower := strings.ToLower(snake)
	relPath := strings.ReplaceAll(lower, "/", "_")
	return path.Join(testDataDir, relPath+".json")
}

func makeHTTPMock(qc *queryCase) (*httptest.ResponseRecorder, *http.Request) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.URL.RawQuery = qc.params.Encode()
	if qc.vars != nil {
		req = mux.SetURLVars(req, qc.vars)
	}
	return httptest.NewRecorder(), req
}

func runQueryCases(t *testing.T, contr *Controller, h handlerAPI, cases []*queryCase) {
	t.Helper()
	for _, qc := range cases {
		qc := qc
		t.Run(qc.name, func(t *testing.T) {
			rr, req := makeHTTPMock(qc)
			contr.H(h).ServeHTTP(rr, req)
			body := rr.Body.String()
			if status := rr.Code; status != http.StatusOK {
				t.Fatalf("didn't give a 200\n%s", body)
			}

			goldenPath := makeGoldenPath(t.Name())
			goldenRegen := os.Getenv("FYYUR_REGEN")
			if goldenRegen == "*" || (goldenRegen != "" && strings.HasPrefix(t.Name(), goldenRegen)) {
				_ = os.WriteFile(goldenPath, []byte(body), 0600)
				t.Logf("golden file %q regenerated for %s", goldenPath, t.Name())
				t.SkipNow()
			}

			// read case to differ with handler result
			expected, err := jd.ReadJsonFile(goldenPath)
			if err != nil {
				t.Fatalf("parsing expected: %v", err)
			}
			actual, err := jd.ReadJsonString(body)
			if err != nil {
				t.Fatalf("parsing actual: %v", err)
			}
			diff := expected.Diff(actual)

			if len(diff) > 0 {
				t.Errorf("\u001b[31;1mhandler json differs from test json\u001b[0m")
				t.Errorf("\u001b[33;1mif you want to regenerate it, re-run with FYYUR_REGEN=%s\u001b[0m\n", t.Name())
				t.Error(diff.Render())
			}
		})
	}
}

func makeController(t *testing.T) *Controller {
	t.Helper()

	dbc, err := db.NewMock()
	require.NoError(t, err)
	require.NoError(t, dbc.Migrate())
	t.Cleanup(func() { dbc.Close() })

	fixtures, err := seed.Load("../../seed/testdata/fixtures.yaml")
	require.NoError(t, err)
	require.NoError(t, seed.Apply(dbc, fixtures))

	base := &ctrlbase.Controller{
		DB:  dbc,
		Now: func() time.Time { return testNow },
	}
	return New(base)
}

func TestVenues(t *testing.T) {
	t.Parallel()
	contr := makeController(t)
	runQueryCases(t, contr, contr.ServeVenues, []*queryCase{
		{name: "areas", params: url.Values{}},
	})
}

func TestVenueSearch(t *testing.T) {
	t.Parallel()
	contr := makeController(t)
	runQueryCases(t, contr, contr.ServeVenueSearch, []*queryCase{
		{name: "music", params: url.Values{"search_term": {"Music"}}},
		{name: "no match", params: url.Values{"search_term": {"nothing like this"}}},
	})
}

func TestVenue(t *testing.T) {
	t.Parallel()
	contr := makeController(t)
	runQueryCases(t, contr, contr.ServeVenue, []*queryCase{
		{name: "park square", vars: map[string]string{"id": "3"}},
	})
}

func TestArtists(t *testing.T) {
	t.Parallel()
	contr := makeController(t)
	runQueryCases(t, contr, contr.ServeArtists, []*queryCase{
		{name: "all", params: url.Values{}},
	})
}

func TestArtistSearch(t *testing.T) {
	t.Parallel()
	contr := makeController(t)
	runQueryCases(t, contr, contr.ServeArtistSearch, []*queryCase{
		{name: "a", params: url.Values{"search_term": {"A"}}},
	})
}

func TestArtist(t *testing.T) {
	t.Parallel()
	contr := makeController(t)
	runQueryCases(t, contr, contr.ServeArtist, []*queryCase{
		{name: "guns n petals", vars: map[string]string{"id": "1"}},
	})
}

func TestShows(t *testing.T) {
	t.Parallel()
	contr := makeController(t)
	runQueryCases(t, contr, contr.ServeShows, []*queryCase{
		{name: "all", params: url.Values{}},
	})
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	contr := makeController(t)

	r := mux.NewRouter()
	AddRoutes(contr, r)

	for _, tc := range []struct {
		path, expect string
	}{
		{"/venues/99", `{"error":"venue not found"}`},
		{"/artists/99", `{"error":"artist not found"}`},
		{"/artists/0", `{"error":"artist not found"}`},
		{"/nope", `{"error":"route not found"}`},
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code, tc.path)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"), tc.path)
		assert.JSONEq(t, tc.expect, rr.Body.String(), tc.path)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()
	contr := makeController(t)

	r := mux.NewRouter()
	AddRoutes(contr, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/shows", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}
