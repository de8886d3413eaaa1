package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(url string, token string, policy UnauthorizedPolicy) *Client {
	return New(url, 5*time.Second, staticToken(token), policy, zap.NewNop())
}

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "the-exact-token", nil)
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/classes/user/1", nil, nil))

	assert.Equal(t, "Bearer the-exact-token", gotAuth)
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "", nil)
	require.NoError(t, client.Do(context.Background(), http.MethodPost, "/auth/login", map[string]string{"email": "a@x.com"}, nil))

	assert.False(t, sawHeader)
}

func TestUnauthorizedInvokesPolicyExactlyOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var calls int
	policy := UnauthorizedPolicyFunc(func(context.Context) { calls++ })
	client := newTestClient(srv.URL, "stale-token", policy)

	err := client.Do(context.Background(), http.MethodGet, "/todos/user/1", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls)

	// a second 401 response triggers the policy again, once
	err = client.Do(context.Background(), http.MethodGet, "/todos/user/1", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 2, calls)
}

func TestServerErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Already enrolled in this class"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "token", nil)
	err := client.Do(context.Background(), http.MethodPost, "/classes/code/ABC123/enroll/1", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Already enrolled in this class", apiErr.Message)
}

func TestServerErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "token", nil)
	err := client.Do(context.Background(), http.MethodGet, "/classes/1", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Message)
}

func TestMalformedBodyIsBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "token", nil)
	var out struct{ ID int64 }
	err := client.Do(context.Background(), http.MethodGet, "/classes/1", nil, &out)

	require.ErrorIs(t, err, ErrBadResponse)
}

func TestRequestBodyAndContentType(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "", nil)
	var out struct {
		ID int64 `json:"id"`
	}
	err := client.Do(context.Background(), http.MethodPost, "/topics", map[string]string{"title": "Algebra"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"title":"Algebra"}`, gotBody)
	assert.Equal(t, int64(1), out.ID)
}

func TestNetworkErrorIsWrapped(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", "", nil)
	err := client.Do(context.Background(), http.MethodGet, "/classes/1", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /classes/1")
}
