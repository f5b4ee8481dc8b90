package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOIDCServer fakes a database that delegates authentication to an
// identity provider served from the same host under /idp
func newOIDCServer(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	r := mux.NewRouter()
	r.HandleFunc("/v1/.well-known/openid-configuration", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, openIDConfiguration{
			Href:     server.URL + "/idp/.well-known/openid-configuration",
			ClientID: "weaviate",
			Scopes:   []string{"openid", "email"},
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/idp/.well-known/openid-configuration", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"issuer":                 server.URL + "/idp",
			"authorization_endpoint": server.URL + "/idp/auth",
			"token_endpoint":         server.URL + "/idp/token",
			"jwks_uri":               server.URL + "/idp/keys",
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/idp/token", func(w http.ResponseWriter, req *http.Request) {
		assert.NoError(t, req.ParseForm())
		assert.Equal(t, "client_credentials", req.PostForm.Get("grant_type"))

		id, secret, ok := req.BasicAuth()
		if !ok {
			id, secret = req.PostForm.Get("client_id"), req.PostForm.Get("client_secret")
		}
		if id != "my-client" || secret != "my-secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "issued-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}).Methods(http.MethodPost)
	r.HandleFunc("/v1/users/own-info", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer issued-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"username": "my-client"})
	}).Methods(http.MethodGet)

	server = httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestClientCredentials(t *testing.T) {
	server := newOIDCServer(t)
	ctx := context.Background()

	conn, err := New(ctx, Config{
		URL: server.URL,
		ClientCredentials: &ClientCredentials{
			ClientID:     "my-client",
			ClientSecret: "my-secret",
		},
	})
	require.NoError(t, err)

	token, err := conn.CurrentBearerToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer issued-token", token)

	var out map[string]string
	require.NoError(t, conn.Do(ctx, http.MethodGet, "/users/own-info", nil, &out))
	assert.Equal(t, "my-client", out["username"])
}

func TestClientCredentialsWrongSecret(t *testing.T) {
	server := newOIDCServer(t)
	ctx := context.Background()

	conn, err := New(ctx, Config{
		URL: server.URL,
		ClientCredentials: &ClientCredentials{
			ClientID:     "my-client",
			ClientSecret: "wrong",
		},
	})
	require.NoError(t, err)

	_, err = conn.CurrentBearerToken(ctx)
	assert.Error(t, err)
}

func TestClientCredentialsWithoutProvider(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := New(context.Background(), Config{
		URL:               server.URL,
		ClientCredentials: &ClientCredentials{ClientID: "id", ClientSecret: "secret"},
	})
	assert.ErrorIs(t, err, ErrOIDCNotConfigured)
}
