package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/vito/cast/pkg/cast"
	"github.com/vito/cast/pkg/ioctx"
)

// Config holds the application configuration
type Config struct {
	Debug bool
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "cast",
		Short: "Render serialized C source trees",
		Long: `cast renders trees built with the github.com/vito/cast/pkg/cast builder
and saved as JSON or YAML back into formatted C source.`,
		Example: `  # Render a tree to stdout
  cast render hello.json

  # Render next to the input, as hello.c
  cast render -w hello.json

  # Show the structure of a tree
  cast tree hello.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(treeCmd())
	rootCmd.AddCommand(convertCmd())

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, cfg Config) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(ioctx.StderrFromContext(cmd.Context()), &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	cmd.SetContext(ioctx.LoggerToContext(cmd.Context(), logger))
}

// loadTree decodes a serialized tree, picking the codec by extension.
func loadTree(path string) (cast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var node cast.Node
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		node, err = cast.UnmarshalYAML(data)
	case ".json":
		node, err = cast.UnmarshalJSON(data)
	default:
		return nil, fmt.Errorf("unsupported input %s: expected .json, .yaml or .yml", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return node, nil
}

// loadConfig finds cast.toml above the working directory.
func loadConfig(ctx context.Context) (cast.RenderConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return cast.RenderConfig{}, err
	}
	path, config, err := cast.FindProjectConfig(cwd)
	if err != nil {
		return cast.RenderConfig{}, err
	}
	if config == nil {
		return cast.RenderConfig{}, nil
	}
	ioctx.LoggerFromContext(ctx).Debug("loaded project config", "path", path)
	return config.Render, nil
}
