package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// stdout receives command output
var stdout io.Writer = os.Stdout

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// NewRootCommand creates the root command
func NewRootCommand() *Command {
	root := &Command{
		Name:        "weavekit",
		Description: "weavekit - roles, permissions and agents for a Weaviate database",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("weavekit", flag.ContinueOnError),
	}

	// Roles
	root.add(newListRolesCommand())
	root.add(newGetRoleCommand())
	root.add(newCreateRoleCommand())
	root.add(newDeleteRoleCommand())
	root.add(newAddPermissionsCommand())
	root.add(newRemovePermissionsCommand())
	root.add(newHasPermissionCommand())
	root.add(newRoleUsersCommand())
	root.add(newRenderPermissionsCommand())

	// Users
	root.add(newUserRolesCommand())
	root.add(newAssignRolesCommand())
	root.add(newRevokeRolesCommand())
	root.add(newWhoamiCommand())

	// Agents
	root.add(newQueryCommand())
	root.add(newTransformCommand())
	root.add(newGFLCommand())

	return root
}

func (c *Command) add(sub *Command) {
	c.Subcommands[sub.Name] = sub
}

// Execute runs the command with the process arguments
func (c *Command) Execute() error {
	return c.ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the command with args
func (c *Command) ExecuteArgs(args []string) error {
	if len(args) == 0 {
		return c.usage()
	}

	// Check for help flag
	if help := strings.ToLower(args[0]); help == "-h" || help == "--help" || help == "help" {
		return c.usage()
	}

	// Check for subcommand
	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(stdout, "Usage: %s <command> [args]\n\n", c.Name)
	fmt.Fprintf(stdout, "Commands:\n")
	for _, name := range names {
		fmt.Fprintf(stdout, "  %-20s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}
