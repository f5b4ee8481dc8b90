package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDataPermissionsFanOut(t *testing.T) {
	perms := DataPermissions(DataOptions{
		Collections: []string{"A", "B"},
		Create:      true,
		Read:        true,
	})

	assert.Equal(t, []Permission{
		DataPermission{Collection: "A", Action: DataCreate},
		DataPermission{Collection: "A", Action: DataRead},
		DataPermission{Collection: "B", Action: DataCreate},
		DataPermission{Collection: "B", Action: DataRead},
	}, perms)
}

func TestBuildersDefaultToWildcard(t *testing.T) {
	assert.Equal(t, []Permission{
		DataPermission{Collection: "*", Action: DataManage},
	}, DataPermissions(DataOptions{Manage: true}))

	assert.Equal(t, []Permission{
		CollectionsPermission{Collection: "*", Tenant: "*", Action: CollectionsCreate},
		CollectionsPermission{Collection: "*", Tenant: "*", Action: CollectionsManage},
	}, CollectionsPermissions(CollectionsOptions{CreateCollection: true, ManageCollection: true}))

	assert.Equal(t, []Permission{
		TenantsPermission{Collection: "*", Action: TenantsRead},
		TenantsPermission{Collection: "*", Action: TenantsDelete},
	}, TenantsPermissions(TenantsOptions{Read: true, Delete: true}))

	assert.Equal(t, []Permission{
		BackupsPermission{Collection: "*", Action: BackupsManage},
	}, BackupsPermissions(BackupsOptions{Manage: true}))

	assert.Equal(t, []Permission{
		NodesPermission{Collection: "*", Verbosity: VerbosityMinimal, Action: NodesRead},
	}, NodesPermissions(NodesOptions{Read: true}))
}

func TestBuildersWithoutFlags(t *testing.T) {
	results := map[string][]Permission{
		"data":        DataPermissions(DataOptions{Collections: []string{"A"}}),
		"collections": CollectionsPermissions(CollectionsOptions{}),
		"tenants":     TenantsPermissions(TenantsOptions{}),
		"roles":       RolesPermissions(RolesOptions{Roles: []string{"r"}}),
		"users":       UsersPermissions(UsersOptions{Users: []string{"u"}}),
		"cluster":     ClusterPermissions(ClusterOptions{}),
		"nodes":       NodesPermissions(NodesOptions{Verbosity: VerbosityVerbose}),
		"backups":     BackupsPermissions(BackupsOptions{}),
	}

	for name, perms := range results {
		assert.NotNil(t, perms, name)
		assert.Empty(t, perms, name)
	}
}

func TestCollectionsPermissionsOrder(t *testing.T) {
	perms := CollectionsPermissions(CollectionsOptions{
		Collections:      []string{"Article"},
		CreateCollection: true,
		ReadConfig:       true,
		UpdateConfig:     true,
		DeleteCollection: true,
		ManageCollection: true,
	})

	actions := make([]string, 0, len(perms))
	for _, p := range perms {
		actions = append(actions, p.ActionName())
	}
	assert.Equal(t, CollectionsAction("").Values(), actions)
}

func TestRolesPermissions(t *testing.T) {
	t.Run("read then manage", func(t *testing.T) {
		perms := RolesPermissions(RolesOptions{Roles: []string{"a", "b"}, Read: true, Manage: true})
		assert.Equal(t, []Permission{
			RolesPermission{Role: "a", Action: RolesRead},
			RolesPermission{Role: "a", Action: RolesManage},
			RolesPermission{Role: "b", Action: RolesRead},
			RolesPermission{Role: "b", Action: RolesManage},
		}, perms)
	})

	t.Run("scope wins over flag", func(t *testing.T) {
		perms := RolesPermissions(RolesOptions{Roles: []string{"a"}, Manage: true, ManageScope: RoleScopeMatch})
		assert.Equal(t, []Permission{
			RolesPermission{Role: "a", Scope: RoleScopeMatch, Action: RolesManage},
		}, perms)
	})

	t.Run("scope alone", func(t *testing.T) {
		perms := RolesPermissions(RolesOptions{Roles: []string{"a"}, ManageScope: RoleScopeAll})
		assert.Equal(t, []Permission{
			RolesPermission{Role: "a", Scope: RoleScopeAll, Action: RolesManage},
		}, perms)
	})

	t.Run("no roles", func(t *testing.T) {
		perms := RolesPermissions(RolesOptions{Read: true, Manage: true})
		assert.NotNil(t, perms)
		assert.Empty(t, perms)
	})
}

func TestUsersPermissions(t *testing.T) {
	assert.Equal(t, []Permission{
		UsersPermission{Users: "alice", Action: UsersAssignAndRevoke},
		UsersPermission{Users: "bob", Action: UsersAssignAndRevoke},
	}, UsersPermissions(UsersOptions{Users: []string{"alice", "bob"}, AssignAndRevoke: true}))

	perms := UsersPermissions(UsersOptions{AssignAndRevoke: true})
	assert.NotNil(t, perms)
	assert.Empty(t, perms)
}

func TestClusterPermissions(t *testing.T) {
	assert.Equal(t, []Permission{ClusterPermission{Action: ClusterRead}}, ClusterPermissions(ClusterOptions{Read: true}))
}

func TestNodesPermissionsVerbosity(t *testing.T) {
	perms := NodesPermissions(NodesOptions{Collections: []string{"A"}, Verbosity: VerbosityVerbose, Read: true})
	assert.Equal(t, []Permission{
		NodesPermission{Collection: "A", Verbosity: VerbosityVerbose, Action: NodesRead},
	}, perms)
}

func TestGrantsFromYAML(t *testing.T) {
	raw := `
cluster:
  read: true
data:
  - collections: [Article]
    read: true
  - create: true
roles:
  - roles: [viewer]
    manage_scope: match
nodes:
  - verbosity: verbose
    read: true
tenants:
  - collections: [Article]
    update: true
`
	var grants Grants
	require.NoError(t, yaml.Unmarshal([]byte(raw), &grants))

	assert.Equal(t, []Permission{
		ClusterPermission{Action: ClusterRead},
		DataPermission{Collection: "Article", Action: DataRead},
		DataPermission{Collection: "*", Action: DataCreate},
		RolesPermission{Role: "viewer", Scope: RoleScopeMatch, Action: RolesManage},
		NodesPermission{Collection: "*", Verbosity: VerbosityVerbose, Action: NodesRead},
		TenantsPermission{Collection: "Article", Action: TenantsUpdate},
	}, grants.Permissions())
}

func TestEmptyGrants(t *testing.T) {
	perms := Grants{}.Permissions()
	assert.NotNil(t, perms)
	assert.Empty(t, perms)
}
