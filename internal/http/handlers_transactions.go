package http

import (
	"net/http"

	"smartfinance/internal/core"
)

type listResponse struct {
	Kind  core.Kind          `json:"kind"`
	Items []core.Transaction `json:"items"`
	Count int                `json:"count"`
	Total core.Amount        `json:"total"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	items, err := s.app.Ledger.List(kind)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	total, err := s.app.Ledger.Total(kind)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if items == nil {
		items = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, listResponse{Kind: kind, Items: items, Count: len(items), Total: total})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	t, found, err := s.app.Ledger.Get(kind, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}
	in, err := ParseTransactionInput(p, s.app.Today())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	t, err := s.app.AddTransaction(r.Context(), kind, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}
	in, err := ParseTransactionInput(p, s.app.Today())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	t, found, err := s.app.UpdateTransaction(r.Context(), kind, id, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTransaction answers 200 for unknown ids too; deleted reports
// whether anything was removed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	deleted, err := s.app.DeleteTransaction(r.Context(), kind, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	b, err := s.app.Summary(kind)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	reg, err := core.RegistryFor(kind)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kind":       kind,
		"categories": reg.Categories(),
	})
}
