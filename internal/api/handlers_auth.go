package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/ndthub/internal/auth"
	"github.com/dgallion1/ndthub/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.db.UserByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		s.log.Error("user lookup failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.IsActive {
		jsonError(w, "user inactive", http.StatusForbidden)
		return
	}

	token, err := auth.NewToken()
	if err != nil {
		s.log.Error("token generation failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	entry := store.AuditLog{
		UserID:       user.ID,
		Role:         user.Role,
		ActionType:   store.ActionLogin,
		MetadataJSON: metaJSON(map[string]string{"username": user.Username}),
	}
	if err := s.db.CreateSession(r.Context(), user.ID, token, entry); err != nil {
		s.log.Error("session creation failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	entry := store.AuditLog{
		UserID:       user.ID,
		Role:         user.Role,
		ActionType:   store.ActionLogout,
		MetadataJSON: metaJSON(map[string]string{"username": user.Username}),
	}
	if err := s.db.DeleteSessions(r.Context(), user.ID, entry); err != nil {
		s.log.Error("logout failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
