// Package rbac models the database's role-based access control permissions
// and wraps the authorization API that manages them.
//
// # Actions and Categories
//
// Every permission action belongs to exactly one of eight categories:
//
//	CategoryCluster      read_cluster
//	CategoryUsers        assign_and_revoke_users
//	CategoryCollections  create/read/update/delete/manage_collections
//	CategoryTenants      create/read/update/delete_tenants
//	CategoryRoles        manage_roles, read_roles
//	CategoryData         create/read/update/delete/manage_data
//	CategoryBackups      manage_backups
//	CategoryNodes        read_nodes
//
// CategoryOf resolves an action string to its category.
//
// # Permissions
//
// Permission is implemented by one struct per category. ToWire converts a
// permission to the JSON shape the server expects, upper-casing the first
// letter of collection names. PermissionFromWire goes the other way and
// takes values verbatim.
//
// Builders expand an options struct into a list of permissions, one per
// scoped resource and selected action:
//
//	perms := rbac.DataPermissions(rbac.DataOptions{
//		Collections: []string{"Article", "Author"},
//		Read:        true,
//		Update:      true,
//	})
//	// Article read, Article update, Author read, Author update
//
// An empty Collections slice grants on every collection ("*"). Users and
// roles builders produce nothing without explicit names.
//
// # Roles
//
// Role groups permissions by category. RoleFromWire never fails: a
// permission with an action this package does not know is dropped with a
// warning so that newer servers keep working with older clients.
//
// # Client
//
//	client := rbac.NewClient(conn, rbac.WithRoleCache(128, time.Minute))
//	role, err := client.CreateRole(ctx, "reader", perms...)
//	err = client.AssignRoles(ctx, "alice", "reader")
//
// GetRole returns ErrRoleNotFound for a missing role. Mutating calls evict
// the role from the cache.
package rbac
