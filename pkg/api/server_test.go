package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
	"github.com/matzehuels/chartcore/pkg/store"
)

const barOption = `{
	"xAxis": {"type": "category", "data": ["a", "b", "c"]},
	"yAxis": {"type": "value"},
	"series": [{"type": "bar", "data": [1, 2, 3]}]
}`

func newTestServer(t *testing.T, withStore bool) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	if withStore {
		runner.Store = store.NewMemoryStore()
	}
	ts := httptest.NewServer(New(Config{
		Runner:  runner,
		Logger:  logger,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "# metrics\n") }),
	}))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decodeError(t *testing.T, data []byte) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode error %s: %v", data, err)
	}
	return e
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t, false)

	resp, data := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, data)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response has no request id")
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/version", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"version"`) {
		t.Errorf("version = %d %s", resp.StatusCode, data)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK || string(data) != "# metrics\n" {
		t.Errorf("metrics = %d %s", resp.StatusCode, data)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, false)
	body := `{"option": ` + barOption + `, "width": 400, "height": 300, "formats": ["json", "dot"]}`

	resp, data := do(t, http.MethodPost, ts.URL+"/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var got layoutResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	l, err := snapshot.Unmarshal(got.Layout)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if l.Width != 400 || len(l.Series) != 1 || l.Series[0].Count != 3 {
		t.Errorf("layout = %+v", l)
	}
	if !strings.Contains(string(got.Artifacts["dot"]), "digraph chart") {
		t.Errorf("dot artifact = %q", got.Artifacts["dot"])
	}
	if got.Cached {
		t.Error("first request was cached")
	}

	_, data = do(t, http.MethodPost, ts.URL+"/v1/layout", body)
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Cached {
		t.Error("second request missed the cache")
	}
}

func TestLayoutTOMLString(t *testing.T) {
	ts := newTestServer(t, false)
	option := "[xAxis]\ntype = \"value\"\n[yAxis]\ntype = \"value\"\n[[series]]\ntype = \"scatter\"\ndata = [[1, 2], [3, 4]]\n"
	body, _ := json.Marshal(map[string]any{"option": option, "format": "toml"})

	resp, data := do(t, http.MethodPost, ts.URL+"/v1/layout", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t, false)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"not json", `{"option":`, http.StatusBadRequest, "INVALID_OPTION"},
		{"no option", `{"width": 10}`, http.StatusBadRequest, "INVALID_OPTION"},
		{"option number", `{"option": 3}`, http.StatusBadRequest, "INVALID_OPTION"},
		{"object with toml", `{"option": {}, "format": "toml"}`, http.StatusBadRequest, "INVALID_OPTION"},
		{"bad size", `{"option": {"series": []}, "width": -1}`, http.StatusBadRequest, "INVALID_SIZE"},
		{"bad format", `{"option": {"series": []}, "formats": ["gif"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/v1/layout", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, data)
			}
			e := decodeError(t, data)
			if e.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Error.Code, tt.code)
			}
			if e.RequestID == "" || e.RequestID != resp.Header.Get(RequestIDHeader) {
				t.Errorf("request id = %q, header %q", e.RequestID, resp.Header.Get(RequestIDHeader))
			}
		})
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	ts := newTestServer(t, false)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t, true)

	resp, data := do(t, http.MethodPost, ts.URL+"/v1/charts", `{"name": "sales", "option": `+barOption+`}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d %s", resp.StatusCode, data)
	}
	var created chartResponse
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Name != "sales" || len(created.Layout) == 0 {
		t.Fatalf("created = %+v", created)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/charts/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v1/charts/"+created.ID, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"sales"`) {
		t.Errorf("get = %d %s", resp.StatusCode, data)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v1/charts?limit=10", "")
	var list struct {
		Charts []chartResponse `json:"charts"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.StatusCode != http.StatusOK || len(list.Charts) != 1 || list.Charts[0].Layout != nil {
		t.Errorf("list = %d %s", resp.StatusCode, data)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v1/charts/"+created.ID+"/export?format=dot&detailed=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export = %d %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(string(data), `xlabel="0:2"`) {
		t.Errorf("detailed export = %s", data)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v1/charts/"+created.ID+"/export?format=gif", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif export = %d %s", resp.StatusCode, data)
	}
	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/charts/"+created.ID+"/export?format=dot&series=x", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad series export = %d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, ts.URL+"/v1/charts/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete = %d", resp.StatusCode)
	}
	resp, data = do(t, http.MethodGet, ts.URL+"/v1/charts/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound || decodeError(t, data).Error.Code != "NOT_FOUND" {
		t.Errorf("get deleted = %d %s", resp.StatusCode, data)
	}
}

func TestChartsWithoutStore(t *testing.T) {
	ts := newTestServer(t, false)
	tests := []struct{ method, path, body string }{
		{http.MethodGet, "/v1/charts", ""},
		{http.MethodGet, "/v1/charts/abc", ""},
		{http.MethodPost, "/v1/charts", `{"option": {"series": []}}`},
	}
	for _, tt := range tests {
		resp, data := do(t, tt.method, ts.URL+tt.path, tt.body)
		if resp.StatusCode != http.StatusNotImplemented {
			t.Errorf("%s %s = %d %s, want 501", tt.method, tt.path, resp.StatusCode, data)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, false)
	resp, data := do(t, http.MethodGet, ts.URL+"/nope", "")
	if resp.StatusCode != http.StatusNotFound || decodeError(t, data).Error.Code != "NOT_FOUND" {
		t.Errorf("GET /nope = %d %s", resp.StatusCode, data)
	}
}

func TestParseSeries(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"0", []int{0}, false},
		{"1, 3", []int{1, 3}, false},
		{"-1", nil, true},
		{"a", nil, true},
	}
	for _, tt := range tests {
		got, err := parseSeries(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSeries(%q) err = %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseSeries(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseSeries(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}
