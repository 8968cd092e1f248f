package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/vito/cast/pkg/cast"
	"github.com/vito/cast/pkg/ioctx"
)

var (
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	labelStyle    = lipgloss.NewStyle()
	implicitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	nestedStyle   = lipgloss.NewStyle().Faint(true)
)

func treeCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "tree [flags] file",
		Short: "Print the structure of a serialized tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), args[0], raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Dump the Go values instead of an outline")

	return cmd
}

func runTree(ctx context.Context, path string, raw bool) error {
	node, err := loadTree(path)
	if err != nil {
		return err
	}

	stdout := ioctx.StdoutFromContext(ctx)
	if raw {
		_, err := fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(node))
		return err
	}

	entries, err := cast.Outline(node)
	if err != nil {
		return err
	}
	return writeOutline(stdout, entries)
}

func writeOutline(w io.Writer, entries []cast.OutlineEntry) error {
	for _, e := range entries {
		line := strings.Repeat("  ", e.Depth) + kindStyle.Render(string(e.Kind))
		if e.Label != "" {
			line += " " + labelStyle.Render(e.Label)
		}
		if e.Implicit {
			line += " " + implicitStyle.Render("(implicit)")
		}
		if e.Nested {
			line += " " + nestedStyle.Render("(nested)")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
