package rbac

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Wildcard matches every resource of a kind
const Wildcard = "*"

var (
	// ErrUnknownAction is returned when a wire permission carries an action
	// outside every known category
	ErrUnknownAction = errors.New("unknown permission action")

	// ErrMissingResource is returned when a wire permission's action is known
	// but the resource object for its category is absent
	ErrMissingResource = errors.New("permission resource missing")
)

// RoleScope limits a manage_roles grant
type RoleScope string

const (
	// RoleScopeMatch restricts management to roles whose permissions the
	// holder already has
	RoleScopeMatch RoleScope = "match"
	// RoleScopeAll allows management of every role
	RoleScopeAll RoleScope = "all"
)

// Verbosity is the detail level of a node status read
type Verbosity string

const (
	VerbosityMinimal Verbosity = "minimal"
	VerbosityVerbose Verbosity = "verbose"
)

// Permission is a typed permission. The set of implementations is closed:
// one per Category.
type Permission interface {
	// Category returns the resource category of the permission
	Category() Category
	// ActionName returns the wire action string
	ActionName() string
	// ToWire projects the permission onto its wire representation
	ToWire() WirePermission

	permission()
}

// DataPermission grants an action on the objects of a collection
type DataPermission struct {
	Collection string     `json:"collection"`
	Action     DataAction `json:"action"`
}

// CollectionsPermission grants an action on a collection definition. An
// empty Tenant means every tenant and is sent as the wildcard.
type CollectionsPermission struct {
	Collection string            `json:"collection"`
	Tenant     string            `json:"tenant"`
	Action     CollectionsAction `json:"action"`
}

// TenantsPermission grants an action on the tenants of a collection
type TenantsPermission struct {
	Collection string        `json:"collection"`
	Action     TenantsAction `json:"action"`
}

// RolesPermission grants an action on a role. Scope is empty when unset.
type RolesPermission struct {
	Role   string      `json:"role"`
	Scope  RoleScope   `json:"scope,omitempty"`
	Action RolesAction `json:"action"`
}

// UsersPermission grants an action on a user
type UsersPermission struct {
	Users  string      `json:"users"`
	Action UsersAction `json:"action"`
}

// ClusterPermission grants a cluster-wide action
type ClusterPermission struct {
	Action ClusterAction `json:"action"`
}

// NodesPermission grants a node status read at a verbosity. An empty
// Collection means every collection and an empty Verbosity means minimal;
// both are sent with their default filled in.
type NodesPermission struct {
	Collection string      `json:"collection"`
	Verbosity  Verbosity   `json:"verbosity"`
	Action     NodesAction `json:"action"`
}

// BackupsPermission grants an action on the backups of a collection
type BackupsPermission struct {
	Collection string        `json:"collection"`
	Action     BackupsAction `json:"action"`
}

func (DataPermission) Category() Category        { return CategoryData }
func (CollectionsPermission) Category() Category { return CategoryCollections }
func (TenantsPermission) Category() Category     { return CategoryTenants }
func (RolesPermission) Category() Category       { return CategoryRoles }
func (UsersPermission) Category() Category       { return CategoryUsers }
func (ClusterPermission) Category() Category     { return CategoryCluster }
func (NodesPermission) Category() Category       { return CategoryNodes }
func (BackupsPermission) Category() Category     { return CategoryBackups }

func (p DataPermission) ActionName() string        { return string(p.Action) }
func (p CollectionsPermission) ActionName() string { return string(p.Action) }
func (p TenantsPermission) ActionName() string     { return string(p.Action) }
func (p RolesPermission) ActionName() string       { return string(p.Action) }
func (p UsersPermission) ActionName() string       { return string(p.Action) }
func (p ClusterPermission) ActionName() string     { return string(p.Action) }
func (p NodesPermission) ActionName() string       { return string(p.Action) }
func (p BackupsPermission) ActionName() string     { return string(p.Action) }

func (DataPermission) permission()        {}
func (CollectionsPermission) permission() {}
func (TenantsPermission) permission()     {}
func (RolesPermission) permission()       {}
func (UsersPermission) permission()       {}
func (ClusterPermission) permission()     {}
func (NodesPermission) permission()       {}
func (BackupsPermission) permission()     {}

// ToWire implements Permission
func (p DataPermission) ToWire() WirePermission {
	return WirePermission{
		Action: string(p.Action),
		Data:   &WireDataResource{Collection: capitalizeFirstLetter(p.Collection)},
	}
}

// ToWire implements Permission
func (p CollectionsPermission) ToWire() WirePermission {
	return WirePermission{
		Action: string(p.Action),
		Collections: &WireCollectionsResource{
			Collection: capitalizeFirstLetter(p.Collection),
			Tenant:     orWildcard(p.Tenant),
		},
	}
}

// ToWire implements Permission. Tenant level scoping is not modelled, so
// the wire tenant is always the wildcard.
func (p TenantsPermission) ToWire() WirePermission {
	return WirePermission{
		Action: string(p.Action),
		Tenants: &WireTenantsResource{
			Collection: capitalizeFirstLetter(p.Collection),
			Tenant:     Wildcard,
		},
	}
}

// ToWire implements Permission
func (p RolesPermission) ToWire() WirePermission {
	return WirePermission{
		Action: string(p.Action),
		Roles:  &WireRolesResource{Role: p.Role, Scope: string(p.Scope)},
	}
}

// ToWire implements Permission
func (p UsersPermission) ToWire() WirePermission {
	return WirePermission{
		Action: string(p.Action),
		Users:  &WireUsersResource{Users: p.Users},
	}
}

// ToWire implements Permission
func (p ClusterPermission) ToWire() WirePermission {
	return WirePermission{Action: string(p.Action)}
}

// ToWire implements Permission
func (p NodesPermission) ToWire() WirePermission {
	return WirePermission{
		Action: string(p.Action),
		Nodes: &WireNodesResource{
			Collection: capitalizeFirstLetter(orWildcard(p.Collection)),
			Verbosity:  orMinimal(p.Verbosity),
		},
	}
}

// ToWire implements Permission
func (p BackupsPermission) ToWire() WirePermission {
	return WirePermission{
		Action:  string(p.Action),
		Backups: &WireBackupsResource{Collection: capitalizeFirstLetter(p.Collection)},
	}
}

// ToWire projects a list of permissions in order
func ToWire(perms []Permission) []WirePermission {
	out := make([]WirePermission, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.ToWire())
	}
	return out
}

// PermissionFromWire converts a wire permission into its typed variant.
//
// It returns ErrUnknownAction if the action belongs to no category and
// ErrMissingResource if the category's resource object is absent. Values
// are taken verbatim from the wire; collection names are not re-capitalized.
func PermissionFromWire(wp WirePermission) (Permission, error) {
	category, ok := CategoryOf(wp.Action)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, wp.Action)
	}

	missing := fmt.Errorf("%w: %s permission %q has no %s object", ErrMissingResource, category, wp.Action, category)

	switch category {
	case CategoryCluster:
		return ClusterPermission{Action: ClusterAction(wp.Action)}, nil
	case CategoryUsers:
		if wp.Users == nil {
			return nil, missing
		}
		return UsersPermission{Users: wp.Users.Users, Action: UsersAction(wp.Action)}, nil
	case CategoryCollections:
		if wp.Collections == nil {
			return nil, missing
		}
		return CollectionsPermission{
			Collection: wp.Collections.Collection,
			Tenant:     orWildcard(wp.Collections.Tenant),
			Action:     CollectionsAction(wp.Action),
		}, nil
	case CategoryTenants:
		if wp.Tenants == nil {
			return nil, missing
		}
		return TenantsPermission{Collection: wp.Tenants.Collection, Action: TenantsAction(wp.Action)}, nil
	case CategoryRoles:
		if wp.Roles == nil {
			return nil, missing
		}
		return RolesPermission{
			Role:   wp.Roles.Role,
			Scope:  RoleScope(wp.Roles.Scope),
			Action: RolesAction(wp.Action),
		}, nil
	case CategoryData:
		if wp.Data == nil {
			return nil, missing
		}
		return DataPermission{Collection: wp.Data.Collection, Action: DataAction(wp.Action)}, nil
	case CategoryBackups:
		if wp.Backups == nil {
			return nil, missing
		}
		return BackupsPermission{Collection: wp.Backups.Collection, Action: BackupsAction(wp.Action)}, nil
	case CategoryNodes:
		if wp.Nodes == nil {
			return nil, missing
		}
		return NodesPermission{
			Collection: orWildcard(wp.Nodes.Collection),
			Verbosity:  orMinimal(wp.Nodes.Verbosity),
			Action:     NodesAction(wp.Action),
		}, nil
	}

	// unreachable while Categories and the switch above agree
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, wp.Action)
}

func orWildcard(s string) string {
	if s == "" {
		return Wildcard
	}
	return s
}

func orMinimal(v Verbosity) Verbosity {
	if v == "" {
		return VerbosityMinimal
	}
	return v
}

// capitalizeFirstLetter upper-cases the first rune, matching how the
// server normalizes class names
func capitalizeFirstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
