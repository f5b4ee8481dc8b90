package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/platinummonkey/weavekit/pkg/httputil"
)

// ErrOIDCNotConfigured is returned when client credentials are supplied but
// the database does not advertise an OpenID Connect provider
var ErrOIDCNotConfigured = errors.New("database has no OIDC provider configured")

const oidcDiscoveryPath = "/.well-known/openid-configuration"

// ClientCredentials authenticates with the OAuth2 client credentials grant
// against the provider the database advertises
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// openIDConfiguration is the database's pointer to its identity provider
type openIDConfiguration struct {
	Href     string   `json:"href"`
	ClientID string   `json:"clientId"`
	Scopes   []string `json:"scopes,omitempty"`
}

// clientCredentialsTokenSource discovers the identity provider through the
// database and returns a refreshing token source for creds.
func clientCredentialsTokenSource(ctx context.Context, client *http.Client, baseURL string, creds ClientCredentials) (oauth2.TokenSource, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodGet, baseURL+apiPrefix+oidcDiscoveryPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OIDC configuration: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrOIDCNotConfigured
	}
	if err := httputil.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("failed to fetch OIDC configuration: %w", err)
	}

	var discovery openIDConfiguration
	if err := httputil.DecodeJSON(resp, &discovery); err != nil {
		return nil, err
	}
	if discovery.Href == "" {
		return nil, ErrOIDCNotConfigured
	}

	issuer := strings.TrimSuffix(discovery.Href, oidcDiscoveryPath)
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = discovery.Scopes
	}

	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     provider.Endpoint().TokenURL,
		Scopes:       scopes,
	}

	// the token source outlives ctx, refreshes must not be cancelled with it
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
	return cfg.TokenSource(tokenCtx), nil
}

// staticToken turns a fixed bearer token into a token source
func staticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}
