package rbac

// DataOptions selects data permissions for a set of collections. An empty
// Collections slice means every collection.
type DataOptions struct {
	Collections []string `yaml:"collections" json:"collections,omitempty"`
	Create      bool     `yaml:"create" json:"create,omitempty"`
	Read        bool     `yaml:"read" json:"read,omitempty"`
	Update      bool     `yaml:"update" json:"update,omitempty"`
	Delete      bool     `yaml:"delete" json:"delete,omitempty"`
	Manage      bool     `yaml:"manage" json:"manage,omitempty"`
}

// CollectionsOptions selects collection definition permissions. An empty
// Collections slice means every collection.
type CollectionsOptions struct {
	Collections      []string `yaml:"collections" json:"collections,omitempty"`
	CreateCollection bool     `yaml:"create_collection" json:"create_collection,omitempty"`
	ReadConfig       bool     `yaml:"read_config" json:"read_config,omitempty"`
	UpdateConfig     bool     `yaml:"update_config" json:"update_config,omitempty"`
	DeleteCollection bool     `yaml:"delete_collection" json:"delete_collection,omitempty"`
	ManageCollection bool     `yaml:"manage_collection" json:"manage_collection,omitempty"`
}

// TenantsOptions selects tenant permissions. An empty Collections slice
// means every collection.
type TenantsOptions struct {
	Collections []string `yaml:"collections" json:"collections,omitempty"`
	Create      bool     `yaml:"create" json:"create,omitempty"`
	Read        bool     `yaml:"read" json:"read,omitempty"`
	Update      bool     `yaml:"update" json:"update,omitempty"`
	Delete      bool     `yaml:"delete" json:"delete,omitempty"`
}

// RolesOptions selects role permissions. Roles is required: no permission is
// produced for an empty slice. ManageScope takes precedence over Manage.
type RolesOptions struct {
	Roles       []string  `yaml:"roles" json:"roles,omitempty"`
	Read        bool      `yaml:"read" json:"read,omitempty"`
	Manage      bool      `yaml:"manage" json:"manage,omitempty"`
	ManageScope RoleScope `yaml:"manage_scope" json:"manage_scope,omitempty"`
}

// UsersOptions selects user permissions. Users is required: no permission is
// produced for an empty slice.
type UsersOptions struct {
	Users           []string `yaml:"users" json:"users,omitempty"`
	AssignAndRevoke bool     `yaml:"assign_and_revoke" json:"assign_and_revoke,omitempty"`
}

// ClusterOptions selects cluster permissions
type ClusterOptions struct {
	Read bool `yaml:"read" json:"read,omitempty"`
}

// NodesOptions selects node status permissions. Verbosity defaults to
// minimal and an empty Collections slice means every collection.
type NodesOptions struct {
	Collections []string  `yaml:"collections" json:"collections,omitempty"`
	Verbosity   Verbosity `yaml:"verbosity" json:"verbosity,omitempty"`
	Read        bool      `yaml:"read" json:"read,omitempty"`
}

// BackupsOptions selects backup permissions. An empty Collections slice
// means every collection.
type BackupsOptions struct {
	Collections []string `yaml:"collections" json:"collections,omitempty"`
	Manage      bool     `yaml:"manage" json:"manage,omitempty"`
}

// DataPermissions builds data permissions, one per collection and set flag
func DataPermissions(opts DataOptions) []Permission {
	perms := []Permission{}
	for _, c := range scopeOrWildcard(opts.Collections) {
		if opts.Create {
			perms = append(perms, DataPermission{Collection: c, Action: DataCreate})
		}
		if opts.Read {
			perms = append(perms, DataPermission{Collection: c, Action: DataRead})
		}
		if opts.Update {
			perms = append(perms, DataPermission{Collection: c, Action: DataUpdate})
		}
		if opts.Delete {
			perms = append(perms, DataPermission{Collection: c, Action: DataDelete})
		}
		if opts.Manage {
			perms = append(perms, DataPermission{Collection: c, Action: DataManage})
		}
	}
	return perms
}

// CollectionsPermissions builds collection permissions on every tenant
func CollectionsPermissions(opts CollectionsOptions) []Permission {
	perms := []Permission{}
	for _, c := range scopeOrWildcard(opts.Collections) {
		if opts.CreateCollection {
			perms = append(perms, collectionsPermission(c, CollectionsCreate))
		}
		if opts.ReadConfig {
			perms = append(perms, collectionsPermission(c, CollectionsRead))
		}
		if opts.UpdateConfig {
			perms = append(perms, collectionsPermission(c, CollectionsUpdate))
		}
		if opts.DeleteCollection {
			perms = append(perms, collectionsPermission(c, CollectionsDelete))
		}
		if opts.ManageCollection {
			perms = append(perms, collectionsPermission(c, CollectionsManage))
		}
	}
	return perms
}

func collectionsPermission(collection string, action CollectionsAction) CollectionsPermission {
	return CollectionsPermission{Collection: collection, Tenant: Wildcard, Action: action}
}

// TenantsPermissions builds tenant permissions
func TenantsPermissions(opts TenantsOptions) []Permission {
	perms := []Permission{}
	for _, c := range scopeOrWildcard(opts.Collections) {
		if opts.Create {
			perms = append(perms, TenantsPermission{Collection: c, Action: TenantsCreate})
		}
		if opts.Read {
			perms = append(perms, TenantsPermission{Collection: c, Action: TenantsRead})
		}
		if opts.Update {
			perms = append(perms, TenantsPermission{Collection: c, Action: TenantsUpdate})
		}
		if opts.Delete {
			perms = append(perms, TenantsPermission{Collection: c, Action: TenantsDelete})
		}
	}
	return perms
}

// RolesPermissions builds role permissions
func RolesPermissions(opts RolesOptions) []Permission {
	perms := []Permission{}
	for _, r := range opts.Roles {
		if opts.Read {
			perms = append(perms, RolesPermission{Role: r, Action: RolesRead})
		}
		switch {
		case opts.ManageScope != "":
			perms = append(perms, RolesPermission{Role: r, Scope: opts.ManageScope, Action: RolesManage})
		case opts.Manage:
			perms = append(perms, RolesPermission{Role: r, Action: RolesManage})
		}
	}
	return perms
}

// UsersPermissions builds user permissions
func UsersPermissions(opts UsersOptions) []Permission {
	perms := []Permission{}
	for _, u := range opts.Users {
		if opts.AssignAndRevoke {
			perms = append(perms, UsersPermission{Users: u, Action: UsersAssignAndRevoke})
		}
	}
	return perms
}

// ClusterPermissions builds cluster permissions
func ClusterPermissions(opts ClusterOptions) []Permission {
	perms := []Permission{}
	if opts.Read {
		perms = append(perms, ClusterPermission{Action: ClusterRead})
	}
	return perms
}

// NodesPermissions builds node status permissions
func NodesPermissions(opts NodesOptions) []Permission {
	verbosity := opts.Verbosity
	if verbosity == "" {
		verbosity = VerbosityMinimal
	}

	perms := []Permission{}
	for _, c := range scopeOrWildcard(opts.Collections) {
		if opts.Read {
			perms = append(perms, NodesPermission{Collection: c, Verbosity: verbosity, Action: NodesRead})
		}
	}
	return perms
}

// BackupsPermissions builds backup permissions
func BackupsPermissions(opts BackupsOptions) []Permission {
	perms := []Permission{}
	for _, c := range scopeOrWildcard(opts.Collections) {
		if opts.Manage {
			perms = append(perms, BackupsPermission{Collection: c, Action: BackupsManage})
		}
	}
	return perms
}

func scopeOrWildcard(values []string) []string {
	if len(values) == 0 {
		return []string{Wildcard}
	}
	return values
}

// Grants is a declarative bundle of builder options, typically decoded from
// a YAML or JSON grant file
type Grants struct {
	Cluster     *ClusterOptions      `yaml:"cluster" json:"cluster,omitempty"`
	Collections []CollectionsOptions `yaml:"collections" json:"collections,omitempty"`
	Data        []DataOptions        `yaml:"data" json:"data,omitempty"`
	Roles       []RolesOptions       `yaml:"roles" json:"roles,omitempty"`
	Users       []UsersOptions       `yaml:"users" json:"users,omitempty"`
	Backups     []BackupsOptions     `yaml:"backups" json:"backups,omitempty"`
	Nodes       []NodesOptions       `yaml:"nodes" json:"nodes,omitempty"`
	Tenants     []TenantsOptions     `yaml:"tenants" json:"tenants,omitempty"`
}

// Permissions expands the grants in the same category order Role uses
func (g Grants) Permissions() []Permission {
	perms := []Permission{}
	if g.Cluster != nil {
		perms = append(perms, ClusterPermissions(*g.Cluster)...)
	}
	for _, o := range g.Collections {
		perms = append(perms, CollectionsPermissions(o)...)
	}
	for _, o := range g.Data {
		perms = append(perms, DataPermissions(o)...)
	}
	for _, o := range g.Roles {
		perms = append(perms, RolesPermissions(o)...)
	}
	for _, o := range g.Users {
		perms = append(perms, UsersPermissions(o)...)
	}
	for _, o := range g.Backups {
		perms = append(perms, BackupsPermissions(o)...)
	}
	for _, o := range g.Nodes {
		perms = append(perms, NodesPermissions(o)...)
	}
	for _, o := range g.Tenants {
		perms = append(perms, TenantsPermissions(o)...)
	}
	return perms
}
