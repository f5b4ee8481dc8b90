package rbac

// Category groups actions that share the same resource shape
type Category string

const (
	CategoryCluster     Category = "cluster"
	CategoryUsers       Category = "users"
	CategoryCollections Category = "collections"
	CategoryTenants     Category = "tenants"
	CategoryRoles       Category = "roles"
	CategoryData        Category = "data"
	CategoryBackups     Category = "backups"
	CategoryNodes       Category = "nodes"
)

// Categories returns every category in routing priority order
func Categories() []Category {
	return []Category{
		CategoryCluster,
		CategoryUsers,
		CategoryCollections,
		CategoryTenants,
		CategoryRoles,
		CategoryData,
		CategoryBackups,
		CategoryNodes,
	}
}

// CollectionsAction is an action on collection definitions
type CollectionsAction string

const (
	CollectionsCreate CollectionsAction = "create_collections"
	CollectionsRead   CollectionsAction = "read_collections"
	CollectionsUpdate CollectionsAction = "update_collections"
	CollectionsDelete CollectionsAction = "delete_collections"
	CollectionsManage CollectionsAction = "manage_collections"
)

// TenantsAction is an action on tenants of a collection
type TenantsAction string

const (
	TenantsCreate TenantsAction = "create_tenants"
	TenantsRead   TenantsAction = "read_tenants"
	TenantsUpdate TenantsAction = "update_tenants"
	TenantsDelete TenantsAction = "delete_tenants"
)

// DataAction is an action on objects stored in a collection
type DataAction string

const (
	DataCreate DataAction = "create_data"
	DataRead   DataAction = "read_data"
	DataUpdate DataAction = "update_data"
	DataDelete DataAction = "delete_data"
	DataManage DataAction = "manage_data"
)

// RolesAction is an action on roles
type RolesAction string

const (
	RolesManage RolesAction = "manage_roles"
	RolesRead   RolesAction = "read_roles"
)

// UsersAction is an action on users
type UsersAction string

const (
	UsersAssignAndRevoke UsersAction = "assign_and_revoke_users"
)

// ClusterAction is a cluster-wide action
type ClusterAction string

const (
	ClusterRead ClusterAction = "read_cluster"
)

// NodesAction is an action on node status
type NodesAction string

const (
	NodesRead NodesAction = "read_nodes"
)

// BackupsAction is an action on backups
type BackupsAction string

const (
	BackupsManage BackupsAction = "manage_backups"
)

var registry = map[Category][]string{
	CategoryCollections: {
		string(CollectionsCreate),
		string(CollectionsRead),
		string(CollectionsUpdate),
		string(CollectionsDelete),
		string(CollectionsManage),
	},
	CategoryTenants: {
		string(TenantsCreate),
		string(TenantsRead),
		string(TenantsUpdate),
		string(TenantsDelete),
	},
	CategoryData: {
		string(DataCreate),
		string(DataRead),
		string(DataUpdate),
		string(DataDelete),
		string(DataManage),
	},
	CategoryRoles: {
		string(RolesManage),
		string(RolesRead),
	},
	CategoryUsers: {
		string(UsersAssignAndRevoke),
	},
	CategoryCluster: {
		string(ClusterRead),
	},
	CategoryNodes: {
		string(NodesRead),
	},
	CategoryBackups: {
		string(BackupsManage),
	},
}

// Actions returns the closed set of action strings for a category.
// The returned slice is a copy and may be modified by the caller.
func Actions(category Category) []string {
	actions := registry[category]
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}

// Belongs reports whether action is a member of category
func Belongs(action string, category Category) bool {
	for _, a := range registry[category] {
		if a == action {
			return true
		}
	}
	return false
}

// CategoryOf resolves the category an action belongs to. Categories are
// tested in the order returned by Categories; the first match wins.
func CategoryOf(action string) (Category, bool) {
	for _, category := range Categories() {
		if Belongs(action, category) {
			return category, true
		}
	}
	return "", false
}

// Values returns all collections actions
func (CollectionsAction) Values() []string { return Actions(CategoryCollections) }

// Valid reports whether the action is a known collections action
func (a CollectionsAction) Valid() bool { return Belongs(string(a), CategoryCollections) }

// Values returns all tenants actions
func (TenantsAction) Values() []string { return Actions(CategoryTenants) }

// Valid reports whether the action is a known tenants action
func (a TenantsAction) Valid() bool { return Belongs(string(a), CategoryTenants) }

// Values returns all data actions
func (DataAction) Values() []string { return Actions(CategoryData) }

// Valid reports whether the action is a known data action
func (a DataAction) Valid() bool { return Belongs(string(a), CategoryData) }

// Values returns all roles actions
func (RolesAction) Values() []string { return Actions(CategoryRoles) }

// Valid reports whether the action is a known roles action
func (a RolesAction) Valid() bool { return Belongs(string(a), CategoryRoles) }

// Values returns all users actions
func (UsersAction) Values() []string { return Actions(CategoryUsers) }

// Valid reports whether the action is a known users action
func (a UsersAction) Valid() bool { return Belongs(string(a), CategoryUsers) }

// Values returns all cluster actions
func (ClusterAction) Values() []string { return Actions(CategoryCluster) }

// Valid reports whether the action is a known cluster action
func (a ClusterAction) Valid() bool { return Belongs(string(a), CategoryCluster) }

// Values returns all nodes actions
func (NodesAction) Values() []string { return Actions(CategoryNodes) }

// Valid reports whether the action is a known nodes action
func (a NodesAction) Valid() bool { return Belongs(string(a), CategoryNodes) }

// Values returns all backups actions
func (BackupsAction) Values() []string { return Actions(CategoryBackups) }

// Valid reports whether the action is a known backups action
func (a BackupsAction) Valid() bool { return Belongs(string(a), CategoryBackups) }
