package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/chartcore/pkg/buildinfo"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
	"github.com/matzehuels/chartcore/pkg/store"
)

// =============================================================================
// Requests and Responses
// =============================================================================

// layoutRequest is the body of layout and chart creation requests. The
// option member is a JSON object, or a string holding a document in
// Format.
type layoutRequest struct {
	pipeline.Options
	Name string `json:"name,omitempty"`
}

type layoutResponse struct {
	LayoutHash string            `json:"layout_hash"`
	Layout     json.RawMessage   `json:"layout"`
	Artifacts  map[string][]byte `json:"artifacts,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
	Cached     bool              `json:"cached"`
	DurationMS int64             `json:"duration_ms"`
}

type chartResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Format    string          `json:"format"`
	Option    json.RawMessage `json:"option,omitempty"`
	Layout    json.RawMessage `json:"layout,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newLayoutResponse(result))
}

func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := &store.Document{
		Name:   req.Name,
		Format: req.Format,
		Option: req.Document,
	}
	if _, err := s.runner.SaveChart(r.Context(), doc, req.Options); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("saved chart", "id", doc.ID, "name", doc.Name, "request_id", RequestID(r.Context()))
	w.Header().Set("Location", "/v1/charts/"+doc.ID)
	writeJSON(w, http.StatusCreated, newChartResponse(doc, true))
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	st, err := s.store()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidOption, "invalid limit %q", v))
			return
		}
	}
	docs, err := st.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]chartResponse, len(docs))
	for i, doc := range docs {
		out[i] = newChartResponse(doc, false)
	}
	writeJSON(w, http.StatusOK, map[string]any{"charts": out})
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	doc, err := s.getChart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newChartResponse(doc, true))
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	st, err := s.store()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := st.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportChart(w http.ResponseWriter, r *http.Request) {
	doc, err := s.getChart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{q.Get("format")}}
	if opts.Formats[0] == "" {
		opts.Formats[0] = pipeline.FormatSVG
	}
	if opts.Series, err = parseSeries(q.Get("series")); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Detailed, _ = strconv.ParseBool(q.Get("detailed"))

	layoutJSON := doc.Layout
	var l snapshot.Layout
	if len(layoutJSON) == 0 {
		result, err := s.runner.Layout(r.Context(), pipeline.Options{Document: doc.Option, Format: doc.Format})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		l, layoutJSON = result.Layout, result.LayoutJSON
	} else if l, err = snapshot.Unmarshal(layoutJSON); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "stored layout of %q", doc.ID))
		return
	}

	artifacts, _, err := s.runner.ExportWithCacheInfo(r.Context(), l, layoutJSON, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) store() (store.Store, error) {
	if s.runner.Store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no document store configured")
	}
	return s.runner.Store, nil
}

func (s *Server) getChart(r *http.Request) (*store.Document, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	return st.Get(r.Context(), id)
}

// decodeLayoutRequest reads the options of a request and its option
// document.
func (s *Server) decodeLayoutRequest(w http.ResponseWriter, r *http.Request) (*layoutRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "read request body")
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.ErrCodeInvalidOption, "request body is not valid JSON")
	}
	var req layoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "decode request")
	}

	switch opt := gjson.GetBytes(body, "option"); {
	case !opt.Exists():
		return nil, errors.New(errors.ErrCodeInvalidOption, "request has no option")
	case opt.Type == gjson.String:
		req.Document = []byte(opt.Str)
	case opt.IsObject():
		req.Document = []byte(opt.Raw)
		if req.Format != "" && req.Format != pipeline.FormatJSON {
			return nil, errors.New(errors.ErrCodeInvalidOption, "option object given with format %s", req.Format)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidOption, "option must be an object or a string")
	}
	return &req, nil
}

func parseSeries(v string) ([]int, error) {
	if v == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidOption, "invalid series index %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func newLayoutResponse(result *pipeline.Result) layoutResponse {
	resp := layoutResponse{
		LayoutHash: result.LayoutHash,
		Layout:     result.LayoutJSON,
		Warnings:   result.Warnings,
		Cached:     result.CacheInfo.LayoutHit,
		DurationMS: (result.Stats.LayoutTime + result.Stats.ExportTime).Milliseconds(),
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string][]byte)
		}
		resp.Artifacts[format] = data
	}
	return resp
}

// newChartResponse converts a stored document. TOML options are returned
// as a JSON string.
func newChartResponse(doc *store.Document, full bool) chartResponse {
	resp := chartResponse{
		ID:        doc.ID,
		Name:      doc.Name,
		Format:    doc.Format,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if !full {
		return resp
	}
	if doc.Format == pipeline.FormatJSON {
		resp.Option = doc.Option
	} else {
		resp.Option, _ = json.Marshal(string(doc.Option))
	}
	if len(doc.Layout) > 0 {
		resp.Layout = doc.Layout
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	var resp errorResponse
	resp.Error.Code = string(errors.GetCode(err))
	if resp.Error.Code == "" {
		resp.Error.Code = string(errors.ErrCodeInternal)
	}
	resp.Error.Message = errors.UserMessage(err)
	resp.RequestID = RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", resp.RequestID, "error", err)
	}
	writeJSON(w, status, resp)
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route %s", path)
}
