// Package agents holds what the hosted agent clients share: the default
// host, client options and the authentication headers derived from a
// database connection. The clients themselves live in the query and
// transformation subpackages.
package agents
