package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/platinummonkey/weavekit/pkg/rbac"
)

func newUserRolesCommand() *Command {
	cmd := &Command{
		Name:        "user-roles",
		Description: "List the roles assigned to a user",
		Flags:       flag.NewFlagSet("user-roles", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	user := cmd.Flags.String("user", "", "User id")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *user == "" {
			return fmt.Errorf("user is required")
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			roles, err := rt.rbac().UserRoles(ctx, *user)
			if err != nil {
				return err
			}
			return writeJSON(roles)
		})
	}
	return cmd
}

func newAssignRolesCommand() *Command {
	return newChangeRolesCommand("assign-roles", "Assign roles to a user", "Assigned",
		func(ctx context.Context, c *rbac.Client, user string, roles []string) error {
			return c.AssignRoles(ctx, user, roles...)
		})
}

func newRevokeRolesCommand() *Command {
	return newChangeRolesCommand("revoke-roles", "Revoke roles from a user", "Revoked",
		func(ctx context.Context, c *rbac.Client, user string, roles []string) error {
			return c.RevokeRoles(ctx, user, roles...)
		})
}

func newChangeRolesCommand(name, description, verb string, change func(context.Context, *rbac.Client, string, []string) error) *Command {
	cmd := &Command{
		Name:        name,
		Description: description,
		Flags:       flag.NewFlagSet(name, flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	user := cmd.Flags.String("user", "", "User id")
	roles := cmd.Flags.String("roles", "", "Comma separated role names")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		names := splitList(*roles)
		if *user == "" || len(names) == 0 {
			return fmt.Errorf("user and roles are required")
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			if err := change(ctx, rt.rbac(), *user, names); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s %d role(s) for user %s\n", verb, len(names), *user)
			return nil
		})
	}
	return cmd
}

func newWhoamiCommand() *Command {
	cmd := &Command{
		Name:        "whoami",
		Description: "Show the authenticated user and its roles",
		Flags:       flag.NewFlagSet("whoami", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			user, err := rt.rbac().CurrentUser(ctx)
			if err != nil {
				return err
			}
			return writeJSON(user)
		})
	}
	return cmd
}
