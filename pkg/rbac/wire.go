package rbac

// WirePermission is the JSON shape the authorization API exchanges for a
// single permission. Exactly one of the resource objects is expected to be
// set, matching the category of Action; cluster permissions set none.
type WirePermission struct {
	Action      string                   `json:"action"`
	Data        *WireDataResource        `json:"data,omitempty"`
	Collections *WireCollectionsResource `json:"collections,omitempty"`
	Tenants     *WireTenantsResource     `json:"tenants,omitempty"`
	Nodes       *WireNodesResource       `json:"nodes,omitempty"`
	Backups     *WireBackupsResource     `json:"backups,omitempty"`
	Roles       *WireRolesResource       `json:"roles,omitempty"`
	Users       *WireUsersResource       `json:"users,omitempty"`
}

// WireDataResource scopes a data permission
type WireDataResource struct {
	Collection string `json:"collection"`
}

// WireCollectionsResource scopes a collections permission
type WireCollectionsResource struct {
	Collection string `json:"collection"`
	Tenant     string `json:"tenant,omitempty"`
}

// WireTenantsResource scopes a tenants permission
type WireTenantsResource struct {
	Collection string `json:"collection"`
	Tenant     string `json:"tenant,omitempty"`
}

// WireNodesResource scopes a nodes permission
type WireNodesResource struct {
	Collection string    `json:"collection,omitempty"`
	Verbosity  Verbosity `json:"verbosity"`
}

// WireBackupsResource scopes a backups permission
type WireBackupsResource struct {
	Collection string `json:"collection"`
}

// WireRolesResource scopes a roles permission
type WireRolesResource struct {
	Role  string `json:"role"`
	Scope string `json:"scope,omitempty"`
}

// WireUsersResource scopes a users permission
type WireUsersResource struct {
	Users string `json:"users"`
}

// WireRole is a role as returned by the authorization API
type WireRole struct {
	Name        string           `json:"name"`
	Permissions []WirePermission `json:"permissions"`
}

// WireUser is the own-info payload describing the authenticated user
type WireUser struct {
	Username string     `json:"username"`
	Roles    []WireRole `json:"roles"`
	Groups   []string   `json:"groups,omitempty"`
}
