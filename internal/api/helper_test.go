package api_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/api"
	"github.com/wannazaw/classroom-client/internal/apitest"
	"github.com/wannazaw/classroom-client/internal/session"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// env wires the real API modules to the fake classroom server the way the
// application wires them to a live one.
type env struct {
	fake        *apitest.Server
	store       *session.Store
	client      *api.Client
	policyCalls int
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{fake: apitest.NewServer()}
	srv := httptest.NewServer(e.fake.Handler())
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	e.store = session.NewStore(session.NewMemoryStorage(), logger)
	policy := transport.UnauthorizedPolicyFunc(func(context.Context) {
		e.policyCalls++
		_ = e.store.Clear()
	})
	tr := transport.New(srv.URL, 5*time.Second, e.store, policy, logger)
	e.client = api.New(tr, e.store, logger)
	return e
}

// signUpAndLogin registers a fresh account and signs in as it, replacing
// whatever session was active before.
func (e *env) signUpAndLogin(t *testing.T, name, email, password string) session.Session {
	t.Helper()
	ctx := context.Background()

	_, err := e.client.Auth.Register(ctx, api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	sess, err := e.client.Auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	return sess
}
