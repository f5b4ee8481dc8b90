package rbac

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWire(t *testing.T) {
	tests := []struct {
		name     string
		perm     Permission
		expected string
	}{
		{
			name:     "data capitalizes collection",
			perm:     DataPermission{Collection: "article", Action: DataRead},
			expected: `{"action":"read_data","data":{"collection":"Article"}}`,
		},
		{
			name:     "collections keeps tenant",
			perm:     CollectionsPermission{Collection: "article", Tenant: "t1", Action: CollectionsUpdate},
			expected: `{"action":"update_collections","collections":{"collection":"Article","tenant":"t1"}}`,
		},
		{
			name:     "collections defaults tenant",
			perm:     CollectionsPermission{Collection: "*", Action: CollectionsRead},
			expected: `{"action":"read_collections","collections":{"collection":"*","tenant":"*"}}`,
		},
		{
			name:     "tenants always wildcard tenant",
			perm:     TenantsPermission{Collection: "article", Action: TenantsCreate},
			expected: `{"action":"create_tenants","tenants":{"collection":"Article","tenant":"*"}}`,
		},
		{
			name:     "roles without scope",
			perm:     RolesPermission{Role: "viewer", Action: RolesRead},
			expected: `{"action":"read_roles","roles":{"role":"viewer"}}`,
		},
		{
			name:     "roles with scope",
			perm:     RolesPermission{Role: "*", Scope: RoleScopeMatch, Action: RolesManage},
			expected: `{"action":"manage_roles","roles":{"role":"*","scope":"match"}}`,
		},
		{
			name:     "users",
			perm:     UsersPermission{Users: "alice", Action: UsersAssignAndRevoke},
			expected: `{"action":"assign_and_revoke_users","users":{"users":"alice"}}`,
		},
		{
			name:     "cluster has no resource",
			perm:     ClusterPermission{Action: ClusterRead},
			expected: `{"action":"read_cluster"}`,
		},
		{
			name:     "nodes",
			perm:     NodesPermission{Collection: "article", Verbosity: VerbosityVerbose, Action: NodesRead},
			expected: `{"action":"read_nodes","nodes":{"collection":"Article","verbosity":"verbose"}}`,
		},
		{
			name:     "backups",
			perm:     BackupsPermission{Collection: "élan", Action: BackupsManage},
			expected: `{"action":"manage_backups","backups":{"collection":"Élan"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.perm.ToWire())
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(got))
		})
	}
}

func TestToWireKeepsOrder(t *testing.T) {
	perms := []Permission{
		ClusterPermission{Action: ClusterRead},
		DataPermission{Collection: "a", Action: DataCreate},
	}
	wire := ToWire(perms)
	require.Len(t, wire, 2)
	assert.Equal(t, "read_cluster", wire[0].Action)
	assert.Equal(t, "create_data", wire[1].Action)

	assert.NotNil(t, ToWire(nil))
}

func TestPermissionFromWireRoundTrip(t *testing.T) {
	perms := []Permission{
		DataPermission{Collection: "Article", Action: DataManage},
		CollectionsPermission{Collection: "Article", Tenant: "t1", Action: CollectionsDelete},
		TenantsPermission{Collection: "Article", Action: TenantsDelete},
		RolesPermission{Role: "viewer", Action: RolesRead},
		RolesPermission{Role: "*", Scope: RoleScopeAll, Action: RolesManage},
		UsersPermission{Users: "alice", Action: UsersAssignAndRevoke},
		ClusterPermission{Action: ClusterRead},
		NodesPermission{Collection: "Article", Verbosity: VerbosityMinimal, Action: NodesRead},
		BackupsPermission{Collection: "*", Action: BackupsManage},
	}

	for _, p := range perms {
		t.Run(p.ActionName(), func(t *testing.T) {
			got, err := PermissionFromWire(p.ToWire())
			require.NoError(t, err)
			assert.Equal(t, p, got)
			assert.Equal(t, p.Category(), got.Category())
		})
	}
}

func TestPermissionZeroValuesRoundTripToDefaults(t *testing.T) {
	tests := []struct {
		perm     Permission
		expected Permission
	}{
		{
			perm:     CollectionsPermission{Collection: "Article", Action: CollectionsRead},
			expected: CollectionsPermission{Collection: "Article", Tenant: "*", Action: CollectionsRead},
		},
		{
			perm:     NodesPermission{Action: NodesRead},
			expected: NodesPermission{Collection: "*", Verbosity: VerbosityMinimal, Action: NodesRead},
		},
	}

	for _, tt := range tests {
		t.Run(tt.perm.ActionName(), func(t *testing.T) {
			wire := tt.perm.ToWire()
			assert.Equal(t, tt.expected.ToWire(), wire)

			got, err := PermissionFromWire(wire)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	got, err := PermissionFromWire(WirePermission{Action: "read_nodes", Nodes: &WireNodesResource{Collection: "Article"}})
	require.NoError(t, err)
	assert.Equal(t, VerbosityMinimal, got.(NodesPermission).Verbosity)
}

func TestPermissionFromWireDoesNotRecapitalize(t *testing.T) {
	wire := DataPermission{Collection: "foo", Action: DataRead}.ToWire()
	assert.Equal(t, "Foo", wire.Data.Collection)

	got, err := PermissionFromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, DataPermission{Collection: "Foo", Action: DataRead}, got)

	got, err = PermissionFromWire(WirePermission{Action: "read_data", Data: &WireDataResource{Collection: "lower"}})
	require.NoError(t, err)
	assert.Equal(t, "lower", got.(DataPermission).Collection)
}

func TestPermissionFromWireDefaults(t *testing.T) {
	t.Run("collections tenant", func(t *testing.T) {
		got, err := PermissionFromWire(WirePermission{
			Action:      "read_collections",
			Collections: &WireCollectionsResource{Collection: "Article"},
		})
		require.NoError(t, err)
		assert.Equal(t, CollectionsPermission{Collection: "Article", Tenant: "*", Action: CollectionsRead}, got)
	})

	t.Run("nodes collection", func(t *testing.T) {
		got, err := PermissionFromWire(WirePermission{
			Action: "read_nodes",
			Nodes:  &WireNodesResource{Verbosity: VerbosityVerbose},
		})
		require.NoError(t, err)
		assert.Equal(t, NodesPermission{Collection: "*", Verbosity: VerbosityVerbose, Action: NodesRead}, got)
	})

	t.Run("roles scope unset", func(t *testing.T) {
		got, err := PermissionFromWire(WirePermission{
			Action: "manage_roles",
			Roles:  &WireRolesResource{Role: "admin"},
		})
		require.NoError(t, err)
		assert.Equal(t, RolesPermission{Role: "admin", Action: RolesManage}, got)
	})

	t.Run("cluster ignores resources", func(t *testing.T) {
		got, err := PermissionFromWire(WirePermission{
			Action: "read_cluster",
			Data:   &WireDataResource{Collection: "Article"},
		})
		require.NoError(t, err)
		assert.Equal(t, ClusterPermission{Action: ClusterRead}, got)
	})
}

func TestPermissionFromWireErrors(t *testing.T) {
	_, err := PermissionFromWire(WirePermission{Action: "manage_everything"})
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Contains(t, err.Error(), "manage_everything")

	missing := []WirePermission{
		{Action: "read_data"},
		{Action: "read_collections"},
		{Action: "read_tenants"},
		{Action: "read_roles"},
		{Action: "assign_and_revoke_users"},
		{Action: "read_nodes"},
		{Action: "manage_backups"},
		{Action: "read_data", Collections: &WireCollectionsResource{Collection: "Article"}},
	}
	for _, wp := range missing {
		_, err := PermissionFromWire(wp)
		assert.ErrorIs(t, err, ErrMissingResource, wp.Action)
	}
}

func TestWirePermissionJSON(t *testing.T) {
	raw := `{"action":"update_tenants","tenants":{"collection":"Article","tenant":"t1"}}`

	var wp WirePermission
	require.NoError(t, json.Unmarshal([]byte(raw), &wp))
	require.NotNil(t, wp.Tenants)
	assert.Nil(t, wp.Data)

	got, err := PermissionFromWire(wp)
	require.NoError(t, err)
	assert.Equal(t, TenantsPermission{Collection: "Article", Action: TenantsUpdate}, got)
}

func TestCapitalizeFirstLetter(t *testing.T) {
	assert.Equal(t, "", capitalizeFirstLetter(""))
	assert.Equal(t, "*", capitalizeFirstLetter("*"))
	assert.Equal(t, "Foo", capitalizeFirstLetter("foo"))
	assert.Equal(t, "FOO", capitalizeFirstLetter("FOO"))
	assert.Equal(t, "Ärger", capitalizeFirstLetter("ärger"))
}
