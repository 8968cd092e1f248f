package cast

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the project configuration file looked up by
// FindProjectConfig.
const ConfigFileName = "cast.toml"

// ProjectConfig represents a cast.toml project configuration file.
type ProjectConfig struct {
	Render RenderConfig `toml:"render"`
}

// RenderConfig holds rendering defaults. Zero values fall back to the
// renderer's own defaults.
type RenderConfig struct {
	// IndentSize is the number of spaces per indent level.
	IndentSize int `toml:"indent_size,omitempty"`

	// Strategy is "writer" or "compose".
	Strategy string `toml:"strategy,omitempty"`

	// Guard wraps rendered files in an include guard derived from the
	// output file name.
	Guard bool `toml:"guard,omitempty"`
}

// Options converts the config into render options.
func (c RenderConfig) Options() ([]RenderOption, error) {
	var opts []RenderOption
	if c.IndentSize != 0 {
		if c.IndentSize < 0 {
			return nil, fmt.Errorf("indent_size must be positive, got %d", c.IndentSize)
		}
		opts = append(opts, WithIndent(c.IndentSize))
	}
	strategy, err := ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	return append(opts, WithStrategy(strategy)), nil
}

// LoadProjectConfig loads a cast.toml file from the given path.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	var config ProjectConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, err := config.Render.Options(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &config, nil
}

// FindProjectConfig looks for cast.toml in dir and its ancestors, nearest
// first. The search ends at the enclosing repository root, which is still
// checked itself. A directory named cast.toml is not a config. Returns
// ("", nil, nil) if not found.
func FindProjectConfig(dir string) (string, *ProjectConfig, error) {
	dirs, err := configSearchPath(dir)
	if err != nil {
		return "", nil, err
	}
	for _, d := range dirs {
		path := filepath.Join(d, ConfigFileName)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		if info.IsDir() {
			continue
		}
		config, err := LoadProjectConfig(path)
		if err != nil {
			return "", nil, err
		}
		return path, config, nil
	}
	return "", nil, nil
}

// configSearchPath lists dir followed by its ancestors up to the first one
// holding a .git entry, or up to the filesystem root.
func configSearchPath(dir string) ([]string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for {
		dirs = append(dirs, dir)
		if isRepoRoot(dir) {
			return dirs, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dirs, nil
		}
		dir = parent
	}
}

// isRepoRoot treats both a .git directory and a worktree's .git file as a
// repository root.
func isRepoRoot(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil
}
