package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wannazaw/classroom-client/internal/api"
	"github.com/wannazaw/classroom-client/internal/transport"
)

func TestRegisterThenLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	summary, err := e.client.Auth.Register(ctx, api.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", summary.Name)
	assert.Equal(t, "alice@x.com", summary.Email)

	// registering alone does not authenticate
	_, ok := e.store.Current()
	assert.False(t, ok)

	sess, err := e.client.Auth.Login(ctx, api.LoginRequest{Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, summary.ID, sess.User.ID)
	assert.Equal(t, "Alice", sess.User.Name)
	assert.Equal(t, "alice@x.com", sess.User.Email)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	current, ok := e.store.Current()
	require.True(t, ok)
	assert.Equal(t, sess, current)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.client.Auth.Register(ctx, api.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	_, err = e.client.Auth.Login(ctx, api.LoginRequest{Email: "alice@x.com", Password: "wrong"})
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	_, ok := e.store.Current()
	assert.False(t, ok)
}

func TestLoginValidatesInputLocally(t *testing.T) {
	e := newEnv(t)

	_, err := e.client.Auth.Login(context.Background(), api.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate login request")
}

func TestDuplicateRegistration(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := api.RegisterRequest{Name: "Alice", Email: "alice@x.com", Password: "secret1"}
	_, err := e.client.Auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = e.client.Auth.Register(ctx, req)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "An account with this email already exists", apiErr.Message)
}

func TestLogoutClearsSession(t *testing.T) {
	e := newEnv(t)
	sess := e.signUpAndLogin(t, "Alice", "alice@x.com", "secret1")

	require.NoError(t, e.client.Auth.Logout())

	_, ok := e.store.Current()
	assert.False(t, ok)
	assert.Empty(t, e.store.Token())

	// the next authenticated call goes out without credentials and bounces
	_, err := e.client.Classes.ListByUser(context.Background(), sess.User.ID)
	require.ErrorIs(t, err, transport.ErrUnauthorized)
}

func TestExpiredTokenForcesLogout(t *testing.T) {
	e := newEnv(t)
	e.fake.SetAccessTTL(-time.Minute)
	sess := e.signUpAndLogin(t, "Alice", "alice@x.com", "secret1")

	_, err := e.client.Classes.ListByUser(context.Background(), sess.User.ID)
	require.ErrorIs(t, err, transport.ErrUnauthorized)

	assert.Equal(t, 1, e.policyCalls)
	_, ok := e.store.Current()
	assert.False(t, ok, "the unauthorized policy must clear the session")
}
