package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/session"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// AuthService signs users up and in. It is, together with the unauthorized
// policy, the only writer of the session store.
type AuthService struct {
	client *transport.Client
	store  *session.Store
	logger *zap.Logger
}

func NewAuthService(client *transport.Client, store *session.Store, logger *zap.Logger) *AuthService {
	return &AuthService{
		client: client,
		store:  store,
		logger: logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is what the server returns for a freshly registered account.
type UserSummary struct {
	ID    int64  `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// AuthResponse is the login payload: tokens plus the profile.
type AuthResponse struct {
	ID           int64  `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Profile      string `json:"profile"`
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Register creates a server-side account. It does not touch session state;
// the caller logs in afterwards.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (UserSummary, error) {
	if err := validate.Struct(req); err != nil {
		return UserSummary{}, fmt.Errorf("validate register request: %w", err)
	}

	var out UserSummary
	if err := s.client.Do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return UserSummary{}, err
	}
	if err := checkResponse(out); err != nil {
		return UserSummary{}, err
	}

	s.logger.Info("Account registered", zap.Int64("user_id", out.ID), zap.String("email", out.Email))
	return out, nil
}

// Login authenticates against the server and, on success, establishes the
// session in the store. Failures leave session state untouched.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (session.Session, error) {
	if err := validate.Struct(req); err != nil {
		return session.Session{}, fmt.Errorf("validate login request: %w", err)
	}

	var out AuthResponse
	if err := s.client.Do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return session.Session{}, err
	}
	if err := checkResponse(out); err != nil {
		return session.Session{}, err
	}

	sess := session.Session{
		User: model.User{
			ID:        out.ID,
			Name:      out.Name,
			Email:     out.Email,
			AvatarURL: out.Profile,
		},
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}
	if err := s.store.Establish(sess); err != nil {
		return session.Session{}, fmt.Errorf("establish session: %w", err)
	}
	return sess, nil
}

// Logout drops the session locally. The server keeps no session state to
// tear down.
func (s *AuthService) Logout() error {
	return s.store.Clear()
}
