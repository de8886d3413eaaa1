package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/wannazaw/classroom-client/internal/model"
)

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func userIDFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	email := strings.ToLower(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		writeMessage(w, http.StatusConflict, "An account with this email already exists")
		return
	}

	record := &userRecord{
		user: model.User{
			ID:    s.newID(),
			Name:  req.Name,
			Email: email,
		},
		password: req.Password,
	}
	s.users[record.user.ID] = record
	s.usersByEmail[email] = record

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    record.user.ID,
		"name":  record.user.Name,
		"email": record.user.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	record, exists := s.usersByEmail[strings.ToLower(req.Email)]
	ttl := s.accessTTL
	s.mu.Unlock()

	if !exists || record.password != req.Password {
		writeMessage(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	accessToken, err := s.signToken(record.user.ID, ttl)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	refreshToken, err := s.signToken(record.user.ID, 7*24*time.Hour)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":           record.user.ID,
		"name":         record.user.Name,
		"email":        record.user.Email,
		"profile":      record.user.AvatarURL,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}
