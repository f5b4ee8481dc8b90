package rbac

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoleBucketsByCategory(t *testing.T) {
	role := NewRole("editor",
		TenantsPermission{Collection: "A", Action: TenantsRead},
		DataPermission{Collection: "A", Action: DataRead},
		ClusterPermission{Action: ClusterRead},
		DataPermission{Collection: "B", Action: DataUpdate},
		NodesPermission{Collection: "*", Verbosity: VerbosityMinimal, Action: NodesRead},
	)

	assert.Equal(t, "editor", role.Name)
	assert.Len(t, role.DataPermissions, 2)
	assert.Len(t, role.ClusterPermissions, 1)
	assert.Len(t, role.TenantsPermissions, 1)
	assert.Len(t, role.NodesPermissions, 1)
	assert.Empty(t, role.UsersPermissions)
	assert.NotNil(t, role.UsersPermissions)
	assert.Equal(t, 5, role.Len())

	assert.Equal(t, []Permission{
		ClusterPermission{Action: ClusterRead},
		DataPermission{Collection: "A", Action: DataRead},
		DataPermission{Collection: "B", Action: DataUpdate},
		NodesPermission{Collection: "*", Verbosity: VerbosityMinimal, Action: NodesRead},
		TenantsPermission{Collection: "A", Action: TenantsRead},
	}, role.Permissions())
}

func TestRoleFlattenOrder(t *testing.T) {
	role := NewRole("all",
		TenantsPermission{Collection: "*", Action: TenantsCreate},
		NodesPermission{Collection: "*", Verbosity: VerbosityMinimal, Action: NodesRead},
		BackupsPermission{Collection: "*", Action: BackupsManage},
		UsersPermission{Users: "u", Action: UsersAssignAndRevoke},
		RolesPermission{Role: "r", Action: RolesRead},
		DataPermission{Collection: "*", Action: DataRead},
		CollectionsPermission{Collection: "*", Tenant: "*", Action: CollectionsRead},
		ClusterPermission{Action: ClusterRead},
	)

	categories := make([]Category, 0, role.Len())
	for _, p := range role.Permissions() {
		categories = append(categories, p.Category())
	}
	assert.Equal(t, []Category{
		CategoryCluster,
		CategoryCollections,
		CategoryData,
		CategoryRoles,
		CategoryUsers,
		CategoryBackups,
		CategoryNodes,
		CategoryTenants,
	}, categories)
}

func TestRoleToWire(t *testing.T) {
	role := NewRole("viewer", DataPermission{Collection: "article", Action: DataRead})
	wr := role.ToWire()

	assert.Equal(t, "viewer", wr.Name)
	require.Len(t, wr.Permissions, 1)
	assert.Equal(t, "Article", wr.Permissions[0].Data.Collection)
}

func TestRoleFromWire(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	wr := WireRole{
		Name: "mixed",
		Permissions: []WirePermission{
			{Action: "read_data", Data: &WireDataResource{Collection: "Article"}},
			{Action: "read_cluster"},
			{Action: "read_future_thing"},
			{Action: "read_collections"},
			{Action: "read_roles", Roles: &WireRolesResource{Role: "viewer"}},
			{Action: "read_data", Data: &WireDataResource{Collection: "Book"}},
		},
	}

	role := RoleFromWire(wr, logger)

	assert.Equal(t, "mixed", role.Name)
	assert.Equal(t, []DataPermission{
		{Collection: "Article", Action: DataRead},
		{Collection: "Book", Action: DataRead},
	}, role.DataPermissions)
	assert.Equal(t, []ClusterPermission{{Action: ClusterRead}}, role.ClusterPermissions)
	assert.Equal(t, []RolesPermission{{Role: "viewer", Action: RolesRead}}, role.RolesPermissions)
	assert.Empty(t, role.CollectionsPermissions)
	assert.Equal(t, 4, role.Len())

	var warnings, debugs []*logrus.Entry
	for i := range hook.Entries {
		entry := &hook.Entries[i]
		switch entry.Level {
		case logrus.WarnLevel:
			warnings = append(warnings, entry)
		case logrus.DebugLevel:
			debugs = append(debugs, entry)
		}
	}

	require.Len(t, warnings, 1)
	assert.Equal(t, "mixed", warnings[0].Data["role"])
	assert.Equal(t, WirePermission{Action: "read_future_thing"}, warnings[0].Data["permission"])
	assert.Contains(t, warnings[0].Message, "Unknown permission")

	require.Len(t, debugs, 1)
	assert.Equal(t, WirePermission{Action: "read_collections"}, debugs[0].Data["permission"])
}

func TestRoleFromWireNilLogger(t *testing.T) {
	role := RoleFromWire(WireRole{Name: "r", Permissions: []WirePermission{{Action: "nope"}}}, nil)
	assert.Equal(t, 0, role.Len())
}

func TestRoleRoundTripThroughWire(t *testing.T) {
	original := NewRole("editor",
		CollectionsPermission{Collection: "Article", Tenant: "*", Action: CollectionsManage},
		RolesPermission{Role: "viewer", Scope: RoleScopeMatch, Action: RolesManage},
		UsersPermission{Users: "bob", Action: UsersAssignAndRevoke},
		BackupsPermission{Collection: "Article", Action: BackupsManage},
	)

	logger, hook := test.NewNullLogger()
	parsed := RoleFromWire(original.ToWire(), logger)

	assert.Equal(t, original, parsed)
	assert.Empty(t, hook.Entries)
}

func TestUserFromWire(t *testing.T) {
	logger, _ := test.NewNullLogger()

	user := UserFromWire(WireUser{
		Username: "alice",
		Roles: []WireRole{
			{Name: "viewer", Permissions: []WirePermission{{Action: "read_cluster"}}},
			{Name: "empty"},
		},
		Groups: []string{"staff"},
	}, logger)

	assert.Equal(t, "alice", user.UserID)
	require.Len(t, user.Roles, 2)
	assert.Equal(t, 1, user.Roles["viewer"].Len())
	assert.Equal(t, 0, user.Roles["empty"].Len())
	assert.NotNil(t, user.Roles["empty"].DataPermissions)
}
