package http

import (
	"net/http"

	"smartfinance/internal/identity"
)

type sessionResponse struct {
	Authenticated bool                   `json:"authenticated"`
	Loading       bool                   `json:"loading"`
	User          map[string]interface{} `json:"user,omitempty"`
}

func (s *Server) session() sessionResponse {
	sess := s.app.Identity.Session()
	resp := sessionResponse{Authenticated: sess.Authenticated}
	if sess.User != nil {
		resp.User = publicUser(*sess.User)
	}
	return resp
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session())
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	p := parseBody(w, r)
	if p == nil {
		return
	}

	form := identity.SignupForm{
		Name:            p.Get("name"),
		Email:           p.Get("email"),
		Contact:         p.Get("contact"),
		BankAccount:     p.Get("bankAccount"),
		Password:        p.Raw("password"),
		ConfirmPassword: p.Raw("confirmPassword"),
		Extra:           p.Fields(),
	}

	u, err := s.app.Identity.Signup(r.Context(), form)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, publicUser(u))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p := parseBody(w, r)
	if p == nil {
		return
	}
	if _, err := s.app.Identity.Login(r.Context(), p.Get("email"), p.Raw("password")); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.app.Identity.Logout(r.Context())
	writeJSON(w, http.StatusOK, s.session())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := parseBody(w, r)
	if p == nil {
		return
	}
	upd, err := identity.ProfileUpdateFromMap(p.Fields())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	u, err := s.app.Identity.UpdateProfile(r.Context(), upd)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}
