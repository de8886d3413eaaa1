// Package apitest provides an in-memory classroom API server implementing
// the endpoints the client talks to. Integration tests run the real API
// modules against it over httptest; it issues and verifies real HS256
// bearer tokens so authentication behaves like a live deployment.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wannazaw/classroom-client/internal/model"
)

type contextKey int

const userIDKey contextKey = iota

type userRecord struct {
	user     model.User
	password string
}

type classRecord struct {
	class        model.Class
	ownerID      int64
	participants map[int64]model.Role
}

type assignmentRecord struct {
	assignment model.Assignment
	classID    int64
	topicID    int64
}

type materialRecord struct {
	material model.Material
	classID  int64
	topicID  int64
}

// Server is the fake API. All state lives in memory behind one mutex.
type Server struct {
	mu            sync.Mutex
	secret        []byte
	accessTTL     time.Duration
	nextID        int64
	users         map[int64]*userRecord
	usersByEmail  map[string]*userRecord
	classes       map[int64]*classRecord
	classesByCode map[string]*classRecord
	topics        map[int64]model.Topic
	assignments   []*assignmentRecord
	materials     []*materialRecord
	announcements map[int64][]model.Announcement
	notifications map[int64][]model.Notification
	todos         map[int64][]model.Todo
	router        chi.Router
}

func NewServer() *Server {
	s := &Server{
		secret:        []byte("apitest-secret"),
		accessTTL:     time.Hour,
		users:         make(map[int64]*userRecord),
		usersByEmail:  make(map[string]*userRecord),
		classes:       make(map[int64]*classRecord),
		classesByCode: make(map[string]*classRecord),
		topics:        make(map[int64]model.Topic),
		announcements: make(map[int64][]model.Announcement),
		notifications: make(map[int64][]model.Notification),
		todos:         make(map[int64][]model.Todo),
	}

	r := chi.NewRouter()
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/classes", s.handleCreateClass)
		r.Get("/classes/user/{userId}", s.handleListClassesByUser)
		r.Get("/classes/{classId}", s.handleGetClass)
		r.Put("/classes/{classId}", s.handleUpdateClass)
		r.Delete("/classes/{classId}", s.handleArchiveClass)
		r.Post("/classes/{classId}/restore", s.handleRestoreClass)
		r.Delete("/classes/{classId}/actual-delete", s.handleDeleteClass)
		r.Post("/classes/code/{code}/enroll/{studentId}", s.handleEnroll)
		r.Delete("/classes/{classId}/participants/students/{studentId}", s.handleUnenroll)
		r.Get("/classes/{classId}/participants", s.handleParticipants)
		r.Get("/classes/{classId}/topics-with-materials-assignments", s.handleTopicsWithWork)
		r.Get("/classes/{classId}/class-works", s.handleTopicsWithWork)
		r.Get("/classes/{classId}/details", s.handleClassDetails)
		r.Post("/classes/{classId}/assignments", s.handleCreateAssignment)
		r.Post("/classes/{classId}/announcements", s.handleCreateAnnouncement)
		r.Get("/classes/{classId}/announcements", s.handleListAnnouncements)
		r.Post("/topics", s.handleCreateTopic)
		r.Get("/topics", s.handleListTopics)
		r.Get("/notifications/user/{userId}", s.handleListNotifications)
		r.Get("/todos/user/{userId}", s.handleListTodos)
	})

	s.router = r
	return s
}

// Handler returns the router, ready for httptest.NewServer.
func (s *Server) Handler() http.Handler { return s.router }

// SetAccessTTL changes the lifetime of tokens issued by subsequent logins.
// Negative values produce already-expired tokens for 401 tests.
func (s *Server) SetAccessTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTTL = ttl
}

// Token mints a bearer token for the given user with the given lifetime.
func (s *Server) Token(userID int64, ttl time.Duration) (string, error) {
	return s.signToken(userID, ttl)
}

// SeedMaterial files a material under a class topic, for class-work views.
func (s *Server) SeedMaterial(classID, topicID int64, title, description string) model.Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := model.Material{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	s.materials = append(s.materials, &materialRecord{material: m, classID: classID, topicID: topicID})
	return m
}

func (s *Server) signToken(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeMessage(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		var claims jwt.RegisteredClaims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token subject")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

func (s *Server) newID() int64 {
	s.nextID++
	return s.nextID
}

func newClassCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:6]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func urlID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return id, nil
}
