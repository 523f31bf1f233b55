package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/texthl/internal/doctree"
	"github.com/dgallion1/texthl/internal/highlight"
)

// markerView is the JSON form of one marker.
type markerView struct {
	BatchID int64  `json:"batch_id"`
	Color   string `json:"color"`
	Text    string `json:"text"`
	Path    string `json:"path"`
}

type groupView struct {
	BatchID int64        `json:"batch_id"`
	Text    string       `json:"text"`
	Markers []markerView `json:"markers"`
}

func markerViews(anchor *doctree.Node, markers []*doctree.Node) []markerView {
	out := make([]markerView, 0, len(markers))
	for _, m := range markers {
		path, err := doctree.Path(anchor, m)
		if err != nil {
			continue
		}
		out = append(out, markerView{
			BatchID: highlight.MarkerBatch(m),
			Color:   highlight.MarkerColor(m),
			Text:    m.TextContent(),
			Path:    highlight.FormatPath(path),
		})
	}
	return out
}

// highlightRequest selects a span either by offsets into the anchor's text
// or by index paths to the boundary nodes.
type highlightRequest struct {
	Start *int `json:"start"`
	End   *int `json:"end"`

	StartPath   string `json:"start_path"`
	StartOffset int    `json:"start_offset"`
	EndPath     string `json:"end_path"`
	EndOffset   int    `json:"end_offset"`

	Color         string `json:"color"`
	KeepSelection bool   `json:"keep_selection"`
}

func (req highlightRequest) span(anchor *doctree.Node) (highlight.Span, error) {
	if req.Start != nil && req.End != nil {
		return highlight.SpanFromTextOffsets(anchor, *req.Start, *req.End)
	}
	if req.StartPath == "" || req.EndPath == "" {
		return highlight.Span{}, fmt.Errorf("either start/end or start_path/end_path is required")
	}
	startPath, err := parseRequestPath(req.StartPath)
	if err != nil {
		return highlight.Span{}, err
	}
	endPath, err := parseRequestPath(req.EndPath)
	if err != nil {
		return highlight.Span{}, err
	}
	return highlight.SpanFromPaths(anchor, startPath, req.StartOffset, endPath, req.EndOffset)
}

// parseRequestPath accepts "" or "-" for the anchor itself.
func parseRequestPath(s string) ([]int, error) {
	if s == "-" {
		return nil, nil
	}
	return highlight.ParsePath(s)
}

func (s *Server) handleCreateHighlight(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req highlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var batchID int64
	var markers []markerView
	err := sess.Do(func(h *highlight.Highlighter) error {
		span, err := req.span(h.Anchor())
		if err != nil {
			return err
		}
		defer withColor(h, req.Color)()
		defer s.stats.Time("highlight")()
		batchID = h.DoHighlight(&span, req.KeepSelection)
		if batchID != 0 {
			markers = markerViews(h.Anchor(), h.HighlightsByBatch(batchID, highlight.QueryOptions{}))
		}
		return nil
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if markers == nil {
		markers = []markerView{}
	}

	code := http.StatusCreated
	if batchID == 0 {
		code = http.StatusOK
	}
	writeJSON(w, code, map[string]any{
		"batch_id": batchID,
		"markers":  markers,
	})
}

func (s *Server) handleListHighlights(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var batchID int64
	if v := r.URL.Query().Get("batch_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, "invalid batch_id", http.StatusBadRequest)
			return
		}
		batchID = n
	}
	grouped := r.URL.Query().Get("grouped") == "true"

	var body map[string]any
	sess.Do(func(h *highlight.Highlighter) error {
		markers := h.Highlights(highlight.QueryOptions{})
		if batchID != 0 {
			markers = h.HighlightsByBatch(batchID, highlight.QueryOptions{})
		}
		if !grouped {
			body = map[string]any{"markers": markerViews(h.Anchor(), markers)}
			return nil
		}
		groups := make([]groupView, 0)
		for _, g := range highlight.GroupByBatch(markers) {
			groups = append(groups, groupView{
				BatchID: g.BatchID,
				Text:    g.Text(),
				Markers: markerViews(h.Anchor(), g.Markers),
			})
		}
		body = map[string]any{"groups": groups}
		return nil
	})
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleRecolor(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	batchID, err := strconv.ParseInt(chi.URLParam(r, "batchID"), 10, 64)
	if err != nil {
		jsonError(w, "invalid batch id", http.StatusBadRequest)
		return
	}
	var req struct {
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Color == "" {
		jsonError(w, "color is required", http.StatusBadRequest)
		return
	}

	var markers []markerView
	sess.Do(func(h *highlight.Highlighter) error {
		markers = markerViews(h.Anchor(), h.UpdateHighlightsColor(req.Color, batchID))
		return nil
	})
	if len(markers) == 0 {
		jsonError(w, "batch not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"markers": markers})
}

func (s *Server) handleRemoveHighlights(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var removed int
	sess.Do(func(h *highlight.Highlighter) error {
		defer s.stats.Time("remove")()
		removed = h.RemoveHighlights(nil)
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleRemoveBatch(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	batchID, err := strconv.ParseInt(chi.URLParam(r, "batchID"), 10, 64)
	if err != nil {
		jsonError(w, "invalid batch id", http.StatusBadRequest)
		return
	}
	var removed int
	sess.Do(func(h *highlight.Highlighter) error {
		defer s.stats.Time("remove")()
		removed = h.RemoveHighlightsByBatch(batchID, highlight.QueryOptions{})
		return nil
	})
	if removed == 0 {
		jsonError(w, "batch not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Text          string `json:"text"`
		CaseSensitive *bool  `json:"case_sensitive"`
		Color         string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	caseSensitive := true
	if req.CaseSensitive != nil {
		caseSensitive = *req.CaseSensitive
	}

	var batches []int64
	sess.Do(func(h *highlight.Highlighter) error {
		defer withColor(h, req.Color)()
		defer s.stats.Time("find")()
		batches = h.Find(req.Text, caseSensitive)
		return nil
	})
	if batches == nil {
		batches = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

// withColor applies color to h for one engine call and returns the func
// that puts the session colour back. An empty color keeps the session's.
func withColor(h *highlight.Highlighter, color string) func() {
	if color == "" {
		return func() {}
	}
	prev := h.Color()
	h.SetColor(color)
	return func() { h.SetColor(prev) }
}

// handleSerialize returns the descriptor array as the response body.
func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var data string
	err := sess.Do(func(h *highlight.Highlighter) error {
		defer s.stats.Time("serialize")()
		var err error
		data, err = h.Serialize()
		return err
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(data))
}

// handleDeserialize restores markers from a descriptor array in the body.
func (s *Server) handleDeserialize(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	s.restore(w, sess.Do, string(body))
}

// restore applies a descriptor string through do and writes the outcome.
func (s *Server) restore(w http.ResponseWriter, do func(func(*highlight.Highlighter) error) error, data string) {
	var descs []highlight.Descriptor
	var err error
	if strings.TrimSpace(data) != "" {
		descs, err = highlight.DecodeDescriptors(data)
	}
	if err != nil {
		var serr *highlight.SerializationError
		if errors.As(err, &serr) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var restored []markerView
	var failures []string
	do(func(h *highlight.Highlighter) error {
		defer s.stats.Time("deserialize")()
		markers, errs := h.Restore(descs)
		restored = markerViews(h.Anchor(), markers)
		for _, e := range errs {
			failures = append(failures, e.Error())
		}
		return nil
	})
	if failures == nil {
		failures = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"restored": restored,
		"skipped":  failures,
	})
}
