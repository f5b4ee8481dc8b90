// Package connection holds the authenticated HTTP connection to a database.
//
// A connection resolves a bearer token from a static API key, a caller
// supplied oauth2.TokenSource, or the OAuth2 client credentials grant against
// the OpenID Connect provider the database advertises at
// /v1/.well-known/openid-configuration.
//
//	conn, err := connection.New(ctx, connection.Config{
//		URL:    "https://my-cluster.weaviate.cloud",
//		APIKey: os.Getenv("WEAVIATE_API_KEY"),
//	})
//
// The rbac client issues its calls through HTTPConnection.Do; the agent and
// gfl clients only need the Connection interface.
package connection
