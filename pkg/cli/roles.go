package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/platinummonkey/weavekit/pkg/rbac"
)

func newListRolesCommand() *Command {
	cmd := &Command{
		Name:        "list-roles",
		Description: "List every role and its permissions",
		Flags:       flag.NewFlagSet("list-roles", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			roles, err := rt.rbac().ListRoles(ctx)
			if err != nil {
				return err
			}
			return writeJSON(roles)
		})
	}
	return cmd
}

func newGetRoleCommand() *Command {
	cmd := &Command{
		Name:        "get-role",
		Description: "Show a role and its permissions",
		Flags:       flag.NewFlagSet("get-role", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	name := cmd.Flags.String("name", "", "Role name")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("name is required")
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			role, err := rt.rbac().GetRole(ctx, *name)
			if err != nil {
				return err
			}
			return writeJSON(role)
		})
	}
	return cmd
}

func newCreateRoleCommand() *Command {
	cmd := &Command{
		Name:        "create-role",
		Description: "Create a role from a grants file",
		Flags:       flag.NewFlagSet("create-role", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	name := cmd.Flags.String("name", "", "Role name")
	grants := cmd.Flags.String("grants", "", "YAML file describing the permissions to grant")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("name is required")
		}
		perms, err := loadGrants(*grants)
		if err != nil {
			return err
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			role, err := rt.rbac().CreateRole(ctx, *name, perms...)
			if err != nil {
				return err
			}
			return writeJSON(role)
		})
	}
	return cmd
}

func newDeleteRoleCommand() *Command {
	cmd := &Command{
		Name:        "delete-role",
		Description: "Delete a role",
		Flags:       flag.NewFlagSet("delete-role", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	name := cmd.Flags.String("name", "", "Role name")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("name is required")
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			if err := rt.rbac().DeleteRole(ctx, *name); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted role %s\n", *name)
			return nil
		})
	}
	return cmd
}

func newAddPermissionsCommand() *Command {
	return newChangePermissionsCommand("add-permissions", "Grant the permissions in a grants file to a role",
		func(ctx context.Context, c *rbac.Client, role string, perms []rbac.Permission) error {
			return c.AddPermissions(ctx, role, perms...)
		})
}

func newRemovePermissionsCommand() *Command {
	return newChangePermissionsCommand("remove-permissions", "Revoke the permissions in a grants file from a role",
		func(ctx context.Context, c *rbac.Client, role string, perms []rbac.Permission) error {
			return c.RemovePermissions(ctx, role, perms...)
		})
}

func newChangePermissionsCommand(name, description string, change func(context.Context, *rbac.Client, string, []rbac.Permission) error) *Command {
	cmd := &Command{
		Name:        name,
		Description: description,
		Flags:       flag.NewFlagSet(name, flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	role := cmd.Flags.String("name", "", "Role name")
	grants := cmd.Flags.String("grants", "", "YAML file describing the permissions")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *role == "" {
			return fmt.Errorf("name is required")
		}
		perms, err := loadGrants(*grants)
		if err != nil {
			return err
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			client := rt.rbac()
			if err := change(ctx, client, *role, perms); err != nil {
				return err
			}
			updated, err := client.GetRole(ctx, *role)
			if err != nil {
				return err
			}
			return writeJSON(updated)
		})
	}
	return cmd
}

func newHasPermissionCommand() *Command {
	cmd := &Command{
		Name:        "has-permission",
		Description: "Check whether a role holds each permission in a grants file",
		Flags:       flag.NewFlagSet("has-permission", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	role := cmd.Flags.String("name", "", "Role name")
	grants := cmd.Flags.String("grants", "", "YAML file describing the permissions")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *role == "" {
			return fmt.Errorf("name is required")
		}
		perms, err := loadGrants(*grants)
		if err != nil {
			return err
		}

		type result struct {
			Permission rbac.WirePermission `json:"permission"`
			Granted    bool                `json:"granted"`
		}

		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			client := rt.rbac()
			results := make([]result, 0, len(perms))
			for _, p := range perms {
				ok, err := client.HasPermission(ctx, *role, p)
				if err != nil {
					return err
				}
				results = append(results, result{Permission: p.ToWire(), Granted: ok})
			}
			return writeJSON(results)
		})
	}
	return cmd
}

func newRoleUsersCommand() *Command {
	cmd := &Command{
		Name:        "role-users",
		Description: "List the users assigned a role",
		Flags:       flag.NewFlagSet("role-users", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	role := cmd.Flags.String("name", "", "Role name")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *role == "" {
			return fmt.Errorf("name is required")
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			users, err := rt.rbac().AssignedUsers(ctx, *role)
			if err != nil {
				return err
			}
			return writeJSON(users)
		})
	}
	return cmd
}

func newRenderPermissionsCommand() *Command {
	cmd := &Command{
		Name:        "render-permissions",
		Description: "Print the wire permissions a grants file expands to",
		Flags:       flag.NewFlagSet("render-permissions", flag.ContinueOnError),
	}
	grants := cmd.Flags.String("grants", "", "YAML file describing the permissions")
	name := cmd.Flags.String("name", "", "Render as a role with this name")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		perms, err := loadGrants(*grants)
		if err != nil {
			return err
		}
		if *name != "" {
			return writeJSON(rbac.NewRole(*name, perms...).ToWire())
		}
		return writeJSON(rbac.ToWire(perms))
	}
	return cmd
}
