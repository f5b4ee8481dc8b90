// Package cli provides the weavekit command-line interface for managing
// database roles and running the hosted agents.
//
// # Commands
//
// Roles:
//
//	weavekit list-roles
//	weavekit get-role -name reader
//	weavekit create-role -name reader -grants reader.yaml
//	weavekit add-permissions -name reader -grants extra.yaml
//	weavekit has-permission -name reader -grants extra.yaml
//	weavekit role-users -name reader
//	weavekit render-permissions -grants reader.yaml
//
// Users:
//
//	weavekit user-roles -user alice
//	weavekit assign-roles -user alice -roles reader,writer
//	weavekit whoami
//
// Agents:
//
//	weavekit query -collections Articles,Authors -q "Who wrote the most articles?"
//	weavekit transform -collection Articles -operations ops.yaml
//	weavekit gfl -collection Articles -property summary -data-type text -instruction "Summarize"
//
// # Grants files
//
// Permissions are described declaratively and expanded with the rbac
// builders:
//
//	cluster:
//	  read: true
//	data:
//	  - collections: [articles]
//	    read: true
//	roles:
//	  - roles: [reader]
//	    manage_scope: match
//
// render-permissions prints the resulting wire permissions without
// contacting a database.
//
// # Configuration
//
// Every command accepts -url, -api-key, -config and -log-level. Anything
// not given as a flag comes from the config file and WEAVIATE_* variables:
//
//	export WEAVIATE_URL="https://my-cluster.weaviate.network"
//	export WEAVIATE_API_KEY="..."
//
// When WEAVIATE_METRICS_PUSH_URL is set, client metrics are pushed to that
// Pushgateway after each command.
package cli
