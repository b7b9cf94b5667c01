package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.app.Dashboard()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.Savings()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	p := parseBody(w, r)
	if p == nil {
		return
	}
	goal, err := ParseAmountField(p, "goal")
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := s.app.Ledger.SetSavingsGoal(r.Context(), goal); err != nil {
		writeAppError(w, r, err)
		return
	}
	s.handleSavings(w, r)
}

func (s *Server) handleWeddingPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.app.WeddingPlan()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleSetWeddingGoal(w http.ResponseWriter, r *http.Request) {
	p := parseBody(w, r)
	if p == nil {
		return
	}
	goal, err := ParseWeddingGoal(p, s.app.Ledger.WeddingGoal())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := s.app.Ledger.SetWeddingGoal(r.Context(), goal); err != nil {
		writeAppError(w, r, err)
		return
	}
	s.handleWeddingPlan(w, r)
}
