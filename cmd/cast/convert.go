package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vito/cast/pkg/cast"
	"github.com/vito/cast/pkg/ioctx"
)

func convertCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert --to json|yaml file",
		Short: "Convert a serialized tree between JSON and YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), args[0], to)
		},
	}

	cmd.Flags().StringVar(&to, "to", "yaml", "Output format (json or yaml)")

	return cmd
}

func runConvert(ctx context.Context, path, to string) error {
	node, err := loadTree(path)
	if err != nil {
		return err
	}

	var out []byte
	switch to {
	case "json":
		out, err = cast.MarshalJSON(node)
		if err == nil {
			out = append(out, '\n')
		}
	case "yaml":
		out, err = cast.MarshalYAML(node)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", to)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	_, err = ioctx.StdoutFromContext(ctx).Write(out)
	return err
}
