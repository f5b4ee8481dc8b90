package rbac

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Role is a named bundle of permissions, bucketed by category. A Role is a
// value: nothing in this package mutates one after construction.
type Role struct {
	Name                   string                  `json:"name"`
	ClusterPermissions     []ClusterPermission     `json:"cluster_permissions"`
	CollectionsPermissions []CollectionsPermission `json:"collections_permissions"`
	DataPermissions        []DataPermission        `json:"data_permissions"`
	RolesPermissions       []RolesPermission       `json:"roles_permissions"`
	UsersPermissions       []UsersPermission       `json:"users_permissions"`
	BackupsPermissions     []BackupsPermission     `json:"backups_permissions"`
	NodesPermissions       []NodesPermission       `json:"nodes_permissions"`
	TenantsPermissions     []TenantsPermission     `json:"tenants_permissions"`
}

// NewRole builds a role from a flat list of permissions, keeping the input
// order within each category
func NewRole(name string, perms ...Permission) Role {
	role := emptyRole(name)
	for _, p := range perms {
		role.add(p)
	}
	return role
}

func emptyRole(name string) Role {
	return Role{
		Name:                   name,
		ClusterPermissions:     []ClusterPermission{},
		CollectionsPermissions: []CollectionsPermission{},
		DataPermissions:        []DataPermission{},
		RolesPermissions:       []RolesPermission{},
		UsersPermissions:       []UsersPermission{},
		BackupsPermissions:     []BackupsPermission{},
		NodesPermissions:       []NodesPermission{},
		TenantsPermissions:     []TenantsPermission{},
	}
}

func (r *Role) add(p Permission) {
	switch v := p.(type) {
	case ClusterPermission:
		r.ClusterPermissions = append(r.ClusterPermissions, v)
	case CollectionsPermission:
		r.CollectionsPermissions = append(r.CollectionsPermissions, v)
	case DataPermission:
		r.DataPermissions = append(r.DataPermissions, v)
	case RolesPermission:
		r.RolesPermissions = append(r.RolesPermissions, v)
	case UsersPermission:
		r.UsersPermissions = append(r.UsersPermissions, v)
	case BackupsPermission:
		r.BackupsPermissions = append(r.BackupsPermissions, v)
	case NodesPermission:
		r.NodesPermissions = append(r.NodesPermissions, v)
	case TenantsPermission:
		r.TenantsPermissions = append(r.TenantsPermissions, v)
	}
}

// Permissions flattens the role. Categories are always concatenated in the
// order cluster, collections, data, roles, users, backups, nodes, tenants.
func (r Role) Permissions() []Permission {
	perms := make([]Permission, 0, r.Len())
	for _, p := range r.ClusterPermissions {
		perms = append(perms, p)
	}
	for _, p := range r.CollectionsPermissions {
		perms = append(perms, p)
	}
	for _, p := range r.DataPermissions {
		perms = append(perms, p)
	}
	for _, p := range r.RolesPermissions {
		perms = append(perms, p)
	}
	for _, p := range r.UsersPermissions {
		perms = append(perms, p)
	}
	for _, p := range r.BackupsPermissions {
		perms = append(perms, p)
	}
	for _, p := range r.NodesPermissions {
		perms = append(perms, p)
	}
	for _, p := range r.TenantsPermissions {
		perms = append(perms, p)
	}
	return perms
}

// Len returns the total number of permissions in the role
func (r Role) Len() int {
	return len(r.ClusterPermissions) +
		len(r.CollectionsPermissions) +
		len(r.DataPermissions) +
		len(r.RolesPermissions) +
		len(r.UsersPermissions) +
		len(r.BackupsPermissions) +
		len(r.NodesPermissions) +
		len(r.TenantsPermissions)
}

// ToWire projects the role onto the wire shape used when creating it
func (r Role) ToWire() WireRole {
	return WireRole{
		Name:        r.Name,
		Permissions: ToWire(r.Permissions()),
	}
}

// RoleFromWire builds a typed role from its wire description. It never
// fails: a permission whose resource object is missing is dropped, and a
// permission with an unrecognized action is dropped with a warning on log so
// that newer server-side actions do not break older clients. A nil log uses
// the logrus standard logger.
func RoleFromWire(wr WireRole, log logrus.FieldLogger) Role {
	if log == nil {
		log = logrus.StandardLogger()
	}

	role := emptyRole(wr.Name)
	for _, wp := range wr.Permissions {
		p, err := PermissionFromWire(wp)
		switch {
		case err == nil:
			role.add(p)
		case errors.Is(err, ErrUnknownAction):
			log.WithFields(logrus.Fields{
				"role":       wr.Name,
				"permission": wp,
			}).Warn("Unknown permission encountered, it will be ignored; upgrading the client may add support for it")
		default:
			log.WithFields(logrus.Fields{
				"role":       wr.Name,
				"permission": wp,
			}).WithError(err).Debug("Dropping permission without a resource")
		}
	}
	return role
}

// RolesFromWire parses a list of wire roles keyed by role name. Later roles
// with a duplicate name replace earlier ones.
func RolesFromWire(wrs []WireRole, log logrus.FieldLogger) map[string]Role {
	roles := make(map[string]Role, len(wrs))
	for _, wr := range wrs {
		roles[wr.Name] = RoleFromWire(wr, log)
	}
	return roles
}

// User is a user identifier with the roles assigned to it
type User struct {
	UserID string          `json:"user_id"`
	Roles  map[string]Role `json:"roles"`
}

// UserFromWire builds a User from the own-info payload
func UserFromWire(wu WireUser, log logrus.FieldLogger) User {
	return User{
		UserID: wu.Username,
		Roles:  RolesFromWire(wu.Roles, log),
	}
}
