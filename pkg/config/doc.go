// Package config loads client configuration from an optional YAML file and
// environment variables.
//
// # Environment
//
// Connection:
//
//	WEAVIATE_URL="https://my-cluster.weaviate.cloud"
//	WEAVIATE_API_KEY="..."
//	WEAVIATE_OIDC_CLIENT_ID="..."       # client credentials, exclusive with the API key
//	WEAVIATE_OIDC_CLIENT_SECRET="..."
//	WEAVIATE_OIDC_SCOPES="openid,email"
//	WEAVIATE_HEADERS="X-OpenAI-Api-Key=sk-..."
//	WEAVIATE_REQUEST_TIMEOUT="30s"
//
// Agents:
//
//	WEAVIATE_AGENTS_HOST="https://api.agents.weaviate.io"
//	WEAVIATE_GFL_HOST="https://gfl.labs.weaviate.io"
//	WEAVIATE_QUERY_TIMEOUT="60s"
//	WEAVIATE_TRANSFORMATION_TIMEOUT="40s"
//	WEAVIATE_AGENTS_CONCURRENCY="1"
//
// Authorization client:
//
//	WEAVIATE_ROLE_CACHE_TTL="1m"  # 0 disables the role cache
//	WEAVIATE_ROLE_CACHE_SIZE="128"
//
// Observability:
//
//	WEAVIATE_LOG_LEVEL="info"  # trace, debug, info, warn, error
//	WEAVIATE_METRICS_ENABLED="true"
//	WEAVIATE_METRICS_PUSH_URL="http://pushgateway:9091"
//	WEAVIATE_OTEL_ENDPOINT="otel-collector:4317"
//	WEAVIATE_OTEL_INSECURE="true"
//
// # File
//
// The YAML file mirrors the Config struct:
//
//	connection:
//	  url: http://localhost:8080
//	  additional_headers:
//	    X-OpenAI-Api-Key: sk-...
//	rbac:
//	  role_cache_ttl: 1m
//
// # Usage Example
//
//	cfg, err := config.Load("weavekit.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	conn, err := connection.New(ctx, cfg.ConnectionOptions(logger, nil))
package config
