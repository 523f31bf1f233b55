package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/texthl/internal/highlight"
)

// Saved highlights are keyed by the document's content hash, so reopening
// the same file finds them again.

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !s.persistenceEnabled(w) {
		return
	}
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var data string
	var count int
	err := sess.Do(func(h *highlight.Highlighter) error {
		var err error
		data, err = h.Serialize()
		count = len(h.Highlights(highlight.QueryOptions{}))
		return err
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.ps.SaveHighlights(r.Context(), sess.ContentHash, data); err != nil {
		s.log.Error("save highlights failed", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.log.Info("highlights saved", "session_id", sess.ID, "markers", count)
	writeJSON(w, http.StatusOK, map[string]any{
		"key":     sess.ContentHash,
		"markers": count,
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !s.persistenceEnabled(w) {
		return
	}
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	data, ok, err := s.ps.LoadHighlights(r.Context(), sess.ContentHash)
	if err != nil {
		s.log.Error("load highlights failed", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	if !ok {
		jsonError(w, "no saved highlights for this document", http.StatusNotFound)
		return
	}
	s.restore(w, sess.Do, data)
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	if !s.persistenceEnabled(w) {
		return
	}
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if err := s.ps.DeleteHighlights(r.Context(), sess.ContentHash); err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	if !s.persistenceEnabled(w) {
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	keys, err := s.ps.ListDocuments(r.Context(), limit)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": keys})
}

func (s *Server) persistenceEnabled(w http.ResponseWriter) bool {
	if s.ps == nil {
		jsonError(w, "persistence is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}
