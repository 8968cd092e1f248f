package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"
	"github.com/vito/cast/pkg/cast"
	"github.com/vito/cast/pkg/ioctx"
	"golang.org/x/sync/errgroup"
)

type renderFlags struct {
	write    bool
	output   string
	indent   int
	strategy string
	guard    bool
}

func renderCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [flags] file...",
		Short: "Render serialized trees as C source",
		Long: `Render decodes each tree (.json, .yaml or .yml) and prints the C source.

Defaults for indentation, strategy and include guards come from the nearest
cast.toml; flags override them.`,
		Example: `  # Print C source
  cast render tree.json

  # Write tree.h with an include guard
  cast render --guard -o tree.h tree.json

  # Write a .c file next to every input
  cast render -w ./trees/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("indent") {
				cfg.IndentSize = flags.indent
			}
			if cmd.Flags().Changed("strategy") {
				cfg.Strategy = flags.strategy
			}
			if cmd.Flags().Changed("guard") {
				cfg.Guard = flags.guard
			}
			return runRender(cmd.Context(), args, flags, cfg)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "Write each result next to its input instead of stdout")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the result to this file (single input only)")
	cmd.Flags().IntVar(&flags.indent, "indent", 2, "Spaces per indent level")
	cmd.Flags().StringVar(&flags.strategy, "strategy", string(cast.StrategyWriter), "Render strategy (writer or compose)")
	cmd.Flags().BoolVar(&flags.guard, "guard", false, "Wrap the output in an include guard")

	return cmd
}

func runRender(ctx context.Context, paths []string, flags renderFlags, cfg cast.RenderConfig) error {
	if flags.output != "" && len(paths) != 1 {
		return fmt.Errorf("--output requires exactly one input, got %d", len(paths))
	}
	if flags.output != "" && flags.write {
		return fmt.Errorf("--output and --write are mutually exclusive")
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	dests := make([]string, len(paths))
	claimed := map[string]string{}
	for i, path := range paths {
		dests[i] = outputPath(path, flags, cfg.Guard)
		if dests[i] == "" {
			continue
		}
		dest := filepath.Clean(dests[i])
		if prev, ok := claimed[dest]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, path, dest)
		}
		claimed[dest] = path
	}

	logger := ioctx.LoggerFromContext(ctx)

	results := make([]string, len(paths))
	eg := new(errgroup.Group)
	for i, path := range paths {
		eg.Go(func() error {
			dest := dests[i]

			src, err := renderFile(path, dest, cfg.Guard, opts)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", path, err)
			}

			if dest == "" {
				results[i] = src
				return nil
			}
			if err := os.WriteFile(dest, []byte(src), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			logger.Debug("rendered", "input", path, "output", dest)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	stdout := ioctx.StdoutFromContext(ctx)
	for _, src := range results {
		if _, err := io.WriteString(stdout, src); err != nil {
			return err
		}
	}
	return nil
}

// outputPath returns where a rendered input goes, or "" for stdout.
func outputPath(path string, flags renderFlags, guard bool) string {
	switch {
	case flags.output != "":
		return flags.output
	case flags.write:
		ext := ".c"
		if guard {
			ext = ".h"
		}
		return strings.TrimSuffix(path, filepath.Ext(path)) + ext
	default:
		return ""
	}
}

func renderFile(path, dest string, guard bool, opts []cast.RenderOption) (string, error) {
	node, err := loadTree(path)
	if err != nil {
		return "", err
	}

	src, err := cast.Render(node, opts...)
	if err != nil {
		return "", err
	}

	if guard {
		name := dest
		if name == "" {
			name = strings.TrimSuffix(path, filepath.Ext(path)) + ".h"
		}
		src = includeGuard(name, src)
	}
	return src, nil
}

// includeGuard wraps src in an #ifndef guard named after the file, e.g.
// "net/http-client.h" becomes HTTP_CLIENT_H.
func includeGuard(file, src string) string {
	macro := strcase.ToScreamingSnake(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	macro += "_" + strcase.ToScreamingSnake(strings.TrimPrefix(filepath.Ext(file), "."))
	macro = strings.TrimSuffix(macro, "_")

	var b strings.Builder
	b.WriteString("#ifndef " + macro + "\n")
	b.WriteString("#define " + macro + "\n\n")
	b.WriteString(src)
	b.WriteString("\n#endif\n")
	return b.String()
}
