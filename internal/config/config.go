package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rsxdalv/srt-tools/internal/batch"
	"github.com/rsxdalv/srt-tools/internal/logging"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	// DefaultOutputDirName is the output directory created next to the
	// executable when output.default_dir is blank.
	DefaultOutputDirName = "processed_srt"

	projectConfigName = "srt-tools.toml"
)

// ErrExists is returned by CreateSample when it would replace a file.
var ErrExists = errors.New("config file already exists")

// Output contains output directory configuration.
type Output struct {
	Dir        string `toml:"dir"`
	DefaultDir string `toml:"default_dir"`
}

// Batch contains configuration for batch runs.
type Batch struct {
	Lock               bool `toml:"lock"`
	LockTimeoutSeconds int  `toml:"lock_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for srt-tools.
type Config struct {
	Output  Output  `toml:"output"`
	Batch   Batch   `toml:"batch"`
	Logging Logging `toml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Batch: Batch{
			Lock:               true,
			LockTimeoutSeconds: 10,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/srt-tools/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// resolved path and whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	if c.Batch.LockTimeoutSeconds < 0 {
		return errors.New("batch.lock_timeout_seconds must be zero or positive")
	}
	return nil
}

// LockTimeout returns the output directory lock wait as a duration.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Batch.LockTimeoutSeconds) * time.Second
}

// BatchOptions builds processor options; a non-blank outputDir overrides
// output.dir.
func (c *Config) BatchOptions(outputDir string) batch.Options {
	dir := c.Output.Dir
	if strings.TrimSpace(outputDir) != "" {
		dir = outputDir
	}
	return batch.Options{
		OutputDir:   dir,
		DefaultDir:  c.Output.DefaultDir,
		Lock:        c.Batch.Lock,
		LockTimeout: c.LockTimeout(),
	}
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// InitPath returns where `config init` writes: path expanded, or the user
// config location when path is blank.
func InitPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfigPath()
	}
	return expandPath(strings.TrimSpace(path))
}

// CreateSample writes the embedded sample configuration to path. An existing
// file is left alone and reported as ErrExists unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		exists, err := isFile(path)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = ""
	} else if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}

	if strings.TrimSpace(c.Output.DefaultDir) == "" {
		c.Output.DefaultDir = filepath.Join(executableDir(), DefaultOutputDirName)
	}
	if c.Output.DefaultDir, err = expandPath(c.Output.DefaultDir); err != nil {
		return fmt.Errorf("output.default_dir: %w", err)
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

// resolveConfigPath returns the explicit path when one is given, otherwise
// the first existing candidate. With nothing on disk the user path is
// reported so that callers can point at where a file would be read from.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		return expanded, exists, err
	}

	candidates, err := searchPaths()
	if err != nil {
		return "", false, err
	}
	for _, candidate := range candidates {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return candidates[0], false, nil
}

func searchPaths() ([]string, error) {
	userPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return nil, err
	}
	return []string{userPath, projectPath}, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// expandPath resolves a leading "~" or "~/" against the home directory and
// makes the result absolute.
func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
