package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/weavekit/pkg/agents/query"
	"github.com/platinummonkey/weavekit/pkg/agents/transformation"
	"github.com/platinummonkey/weavekit/pkg/gfl"
	"github.com/platinummonkey/weavekit/pkg/schema"
)

func newQueryCommand() *Command {
	cmd := &Command{
		Name:        "query",
		Description: "Ask the query agent a question about some collections",
		Flags:       flag.NewFlagSet("query", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	collections := cmd.Flags.String("collections", "", "Comma separated collection names")
	question := cmd.Flags.String("q", "", "Question to ask")
	viewProperties := cmd.Flags.String("view-properties", "", "Comma separated properties the agent may read")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		names := splitList(*collections)
		if len(names) == 0 || *question == "" {
			return fmt.Errorf("collections and q are required")
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			agent := query.New(rt.conn, query.Collections(names...), rt.agentOptions(rt.cfg.Agents.QueryTimeout)...)
			resp, err := agent.Run(ctx, *question, query.RunOptions{ViewProperties: splitList(*viewProperties)})
			if err != nil {
				return err
			}
			return writeJSON(resp)
		})
	}
	return cmd
}

func newTransformCommand() *Command {
	cmd := &Command{
		Name:        "transform",
		Description: "Run the transformation agent over a collection",
		Flags:       flag.NewFlagSet("transform", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	collection := cmd.Flags.String("collection", "", "Collection to transform")
	operations := cmd.Flags.String("operations", "", "YAML file listing the operations")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *collection == "" {
			return fmt.Errorf("collection is required")
		}
		steps, err := loadOperations(*operations)
		if err != nil {
			return err
		}
		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			agent := transformation.New(rt.conn, *collection, steps, rt.agentOptions(rt.cfg.Agents.TransformationTimeout)...)
			resp, err := agent.UpdateAll(ctx)
			if err != nil {
				return err
			}
			return writeJSON(resp)
		})
	}
	return cmd
}

// loadOperations reads a YAML list of transformation operations
func loadOperations(path string) ([]transformation.Step, error) {
	if path == "" {
		return nil, fmt.Errorf("operations file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read operations: %w", err)
	}

	var ops []transformation.Operation
	if err := yaml.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("failed to parse operations %s: %w", path, err)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("operations file %s is empty", path)
	}

	steps := make([]transformation.Step, 0, len(ops))
	for _, op := range ops {
		steps = append(steps, op)
	}
	return steps, nil
}

func newGFLCommand() *Command {
	cmd := &Command{
		Name:        "gfl",
		Description: "Start a GFL job that generates or rewrites properties",
		Flags:       flag.NewFlagSet("gfl", flag.ContinueOnError),
	}
	conn := addConnectionFlags(cmd.Flags)
	collection := cmd.Flags.String("collection", "", "Collection to modify")
	property := cmd.Flags.String("property", "", "Property to create")
	dataType := cmd.Flags.String("data-type", "", "Data type of the created property")
	instruction := cmd.Flags.String("instruction", "", "Instruction for the model")
	viewProperties := cmd.Flags.String("view-properties", "", "Comma separated properties the model may read")
	update := cmd.Flags.Bool("update", false, "Rewrite existing properties instead of creating one")
	onProperties := cmd.Flags.String("on-properties", "", "Comma separated properties to rewrite with -update")
	tenant := cmd.Flags.String("tenant", "", "Tenant to modify")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *collection == "" || *instruction == "" {
			return fmt.Errorf("collection and instruction are required")
		}
		if !*update {
			if dt := schema.DataType(*dataType); !dt.Valid() {
				return fmt.Errorf("invalid data type %q", *dataType)
			}
		}

		return withRuntime(conn, func(ctx context.Context, rt *runtime) error {
			client := gfl.New(rt.conn, *collection, rt.metrics,
				gfl.WithHost(rt.cfg.Agents.GFLHost),
				gfl.WithLogger(rt.log),
			)

			if *update {
				err := client.Update(ctx, gfl.UpdateRequest{
					Instruction:    *instruction,
					ViewProperties: splitList(*viewProperties),
					OnProperties:   splitList(*onProperties),
					Tenant:         *tenant,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Started update job on %s\n", *collection)
				return nil
			}

			err := client.Create(ctx, gfl.CreateRequest{
				PropertyName:   *property,
				DataType:       schema.DataType(*dataType),
				ViewProperties: splitList(*viewProperties),
				Instruction:    *instruction,
				Tenant:         *tenant,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Started create job for %s.%s\n", *collection, *property)
			return nil
		})
	}
	return cmd
}
