package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
)

const testCSV = "Month,Cumulative,Period\nJan-25,1.0,1.0\nFeb-25,-0.5,-1.5\nMar-25,abc,2.5\nApr-25,2.0,2.5\n"

const testCatalog = `{"projects": [
  {"title": "D", "file": "d.html", "order": 4},
  {"title": "A", "file": "https://example.com/a", "order": 1},
  {"title": "C", "file": "c.html", "order": 3},
  {"title": "B", "file": "b.html", "order": 2}
]}`

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func newTestServer(t *testing.T, withCatalog bool) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio-returns.csv"), []byte(testCSV), 0644))
	if withCatalog {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "niche"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "niche", "projects.json"), []byte(testCatalog), 0644))
	}

	return serveDataDir(t, dir)
}

// serveDataDir starts a server whose series and catalog are read from dir.
func serveDataDir(t *testing.T, dir string) *httptest.Server {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Series.DataDir = dir
	config.Series.RefreshSchedule = ""

	a, err := app.NewAppWithConfig(config, nil)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ts := httptest.NewServer(NewServer(a).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

const validInput = `{
  "start_date": "2024-01-01",
  "start_balance": "1000",
  "flows": [
    {"date": "2024-03-01", "amount": "-50", "balance_after": "1130"},
    {"date": "2024-02-01", "amount": "100", "balance_after": "1150"},
    {"date": "", "amount": "5", "balance_after": "5"}
  ]
}`

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	resp, err = http.Get(ts.URL + "/api/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, common.Version, body["version"])

	resp = postJSON(t, ts.URL+"/api/health", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestTWR_OK(t *testing.T) {
	ts := newTestServer(t, false)

	resp := postJSON(t, ts.URL+"/api/twr", validInput)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Result struct {
			TWR     float64           `json:"twr"`
			Periods []json.RawMessage `json:"periods"`
		} `json:"result"`
		Display struct {
			TWR          string `json:"twr"`
			SimpleReturn string `json:"simple_return"`
			TotalGain    string `json:"total_gain"`
			EndBalance   string `json:"end_balance"`
		} `json:"display"`
		Points  []json.RawMessage `json:"points"`
		Skipped []struct {
			Row    int    `json:"row"`
			Reason string `json:"reason"`
		} `json:"skipped"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.InDelta(t, 7.7391, body.Result.TWR, 1e-3)
	assert.Len(t, body.Result.Periods, 2)
	assert.Equal(t, "7.74%", body.Display.TWR)
	assert.Equal(t, "8.00%", body.Display.SimpleReturn)
	assert.Equal(t, "$80.00", body.Display.TotalGain)
	assert.Equal(t, "$1130.00", body.Display.EndBalance)
	assert.Len(t, body.Points, 3)
	require.Len(t, body.Skipped, 1)
	assert.Equal(t, 3, body.Skipped[0].Row)
}

func TestTWR_Errors(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad json", `{`, http.StatusBadRequest, "invalid_input"},
		{"missing date", `{"start_balance": "1000"}`, http.StatusBadRequest, "invalid_input"},
		{"bad balance", `{"start_date": "2024-01-01", "start_balance": "abc"}`, http.StatusBadRequest, "invalid_input"},
		{"zero balance", `{"start_date": "2024-01-01", "start_balance": "0"}`, http.StatusBadRequest, "invalid_input"},
		{
			"undefined period",
			`{"start_date": "2024-01-01", "start_balance": "1000", "flows": [
				{"date": "2024-02-01", "amount": "-1000", "balance_after": "0"},
				{"date": "2024-03-01", "amount": "100", "balance_after": "100"}]}`,
			http.StatusUnprocessableEntity, "period_undefined",
		},
		{
			"overflowing totals",
			`{"start_date": "2024-01-01", "start_balance": "1000", "flows": [
				{"date": "2024-02-01", "amount": "1e308", "balance_after": "1e308"},
				{"date": "2024-03-01", "amount": "1e308", "balance_after": "1e308"}]}`,
			http.StatusUnprocessableEntity, "non_finite_result",
		},
		{
			"out of range balance",
			`{"start_date": "2024-01-01", "start_balance": "1e400"}`,
			http.StatusBadRequest, "invalid_input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/twr", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}

	resp, err := http.Get(ts.URL + "/api/twr")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestTWRExport(t *testing.T) {
	ts := newTestServer(t, false)

	resp := postJSON(t, ts.URL+"/api/twr/export", validInput)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "twr-calculation.csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t,
		"Date,Amount,Balance After\n2024-01-01,Start,1000\n2024-02-01,100,1150\n2024-03-01,-50,1130\n",
		string(data))

	resp = postJSON(t, ts.URL+"/api/twr/export", `{"start_date": "nope", "start_balance": "1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestTWRChart(t *testing.T) {
	ts := newTestServer(t, false)

	resp := postJSON(t, ts.URL+"/api/twr/chart", validInput)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	resp = postJSON(t, ts.URL+"/api/twr/chart", `{"start_date": "2024-01-01", "start_balance": "1000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "not_enough_points", decodeError(t, resp).Code)
}

func TestSeries(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/series?view=period")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		View   string `json:"view"`
		Series struct {
			Points []struct {
				Month      string   `json:"month"`
				Cumulative *float64 `json:"cumulative"`
			} `json:"points"`
			Fallback bool `json:"fallback"`
		} `json:"series"`
		Stats struct {
			Best  float64 `json:"best"`
			Worst float64 `json:"worst"`
		} `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "period", body.View)
	assert.False(t, body.Series.Fallback)
	require.Len(t, body.Series.Points, 4)
	assert.Equal(t, "Mar 2025", body.Series.Points[2].Month)
	assert.Nil(t, body.Series.Points[2].Cumulative)
	assert.Equal(t, 2.5, body.Stats.Best)
	assert.Equal(t, -1.5, body.Stats.Worst)

	resp2, err := http.Get(ts.URL + "/api/series?view=weekly")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestSeries_FallbackStatsKeepZeroes(t *testing.T) {
	ts := serveDataDir(t, t.TempDir())

	resp, err := http.Get(ts.URL + "/api/series?view=period")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Series struct {
			Fallback bool `json:"fallback"`
		} `json:"series"`
		Stats map[string]any `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Series.Fallback)
	require.Contains(t, body.Stats, "worst")
	assert.Equal(t, 0.0, body.Stats["worst"])
	assert.Contains(t, body.Stats, "current")
	assert.Contains(t, body.Stats, "best")
	assert.Contains(t, body.Stats, "average")
}

func TestSeriesChart(t *testing.T) {
	ts := newTestServer(t, false)

	for _, view := range []string{"cumulative", "period"} {
		resp, err := http.Get(ts.URL + "/api/series/chart?view=" + view)
		require.NoError(t, err)
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, view)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(data, pngMagic))
	}
}

func TestNiche(t *testing.T) {
	ts := newTestServer(t, true)

	get := func(query string) (int, map[string]any) {
		resp, err := http.Get(ts.URL + "/api/niche" + query)
		require.NoError(t, err)
		defer resp.Body.Close()
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp.StatusCode, body
	}

	status, body := get("")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["projects"], 3)
	assert.Equal(t, float64(4), body["total"])
	assert.Equal(t, true, body["has_more"])
	first := body["projects"].([]any)[0].(map[string]any)
	assert.Equal(t, "A", first["title"])

	status, body = get("?all=true")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["projects"], 4)
	assert.Equal(t, false, body["has_more"])
}

func TestNiche_MissingCatalog(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/niche")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "catalog_unavailable", decodeError(t, resp).Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, false)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/twr", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
