package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/DD2507/Tripster/internal/auth"
	"github.com/DD2507/Tripster/internal/store"
)

type credentialsIn struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupHandler handles POST /v1/auth/signup.
func (s *Server) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in credentialsIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid signup", "username, email and password are required", r.URL.Path)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Signup failed", err.Error(), r.URL.Path)
		return
	}
	if _, err := s.Store.CreateUser(r.Context(), in.Username, in.Email, hash); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeProblem(w, http.StatusBadRequest, "Signup failed", "username or email is already taken", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Signup failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "User registered successfully!"})
}

// SigninHandler handles POST /v1/auth/signin.
func (s *Server) SigninHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in credentialsIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if in.Username == "" || in.Password == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid signin", "username and password are required", r.URL.Path)
		return
	}

	u, err := s.Store.GetUserByUsername(r.Context(), in.Username)
	if err != nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		writeProblem(w, http.StatusUnauthorized, "Invalid credentials", "invalid username or password", r.URL.Path)
		return
	}
	token, err := s.Auth.IssueToken(u.Username)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Signin failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "accessToken": token})
}
