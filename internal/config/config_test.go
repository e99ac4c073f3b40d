package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rsxdalv/srt-tools/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !strings.HasSuffix(resolved, filepath.Join(".config", "srt-tools", "config.toml")) {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Output.Dir != "" {
		t.Fatalf("expected blank output dir, got %q", cfg.Output.Dir)
	}
	if filepath.Base(cfg.Output.DefaultDir) != config.DefaultOutputDirName {
		t.Fatalf("unexpected default dir: %q", cfg.Output.DefaultDir)
	}
	if !filepath.IsAbs(cfg.Output.DefaultDir) {
		t.Fatalf("expected absolute default dir, got %q", cfg.Output.DefaultDir)
	}
	if !cfg.Batch.Lock {
		t.Fatal("expected lock enabled by default")
	}
	if cfg.LockTimeout() != 10*time.Second {
		t.Fatalf("unexpected lock timeout: %v", cfg.LockTimeout())
	}
}

func TestLoadFromFileExpandsPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[output]
dir = "~/subs/json"
default_dir = "~/fallback"

[batch]
lock = false
lock_timeout_seconds = 3

[logging]
level = "DEBUG"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Output.Dir != filepath.Join(home, "subs", "json") {
		t.Fatalf("unexpected output dir: %q", cfg.Output.Dir)
	}
	if cfg.Output.DefaultDir != filepath.Join(home, "fallback") {
		t.Fatalf("unexpected default dir: %q", cfg.Output.DefaultDir)
	}
	if cfg.Batch.Lock {
		t.Fatal("expected lock disabled")
	}
	if cfg.LockTimeout() != 3*time.Second {
		t.Fatalf("unexpected lock timeout: %v", cfg.LockTimeout())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"lock timeout", "[batch]\nlock_timeout_seconds = -1\n", "lock_timeout_seconds"},
		{"unknown key", "[output]\ndirectory = \"x\"\n", "parse config"},
		{"bad toml", "[output\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Batch.LockTimeoutSeconds != config.Default().Batch.LockTimeoutSeconds {
		t.Fatalf("sample lock timeout differs from default: %d", cfg.Batch.LockTimeoutSeconds)
	}
}

func TestCreateSampleKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("# mine\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := config.CreateSample(path, false); !errors.Is(err, config.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != "# mine\n" {
		t.Fatalf("existing file was modified: %q", data)
	}

	if err := config.CreateSample(path, true); err != nil {
		t.Fatalf("CreateSample with overwrite returned error: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("Load overwritten sample: %v", err)
	}
}

func TestInitPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"blank uses user config", "  ", filepath.Join(home, ".config", "srt-tools", "config.toml")},
		{"tilde", "~/conf/srt.toml", filepath.Join(home, "conf", "srt.toml")},
		{"bare tilde", "~", home},
		{"absolute", "/etc/srt-tools.toml", "/etc/srt-tools.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.InitPath(tt.in)
			if err != nil {
				t.Fatalf("InitPath returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("InitPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBatchOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = "/from/config"
	cfg.Output.DefaultDir = "/fallback"
	cfg.Batch.LockTimeoutSeconds = 2

	opts := cfg.BatchOptions("")
	if opts.OutputDir != "/from/config" || opts.DefaultDir != "/fallback" {
		t.Fatalf("unexpected dirs: %+v", opts)
	}
	if !opts.Lock || opts.LockTimeout != 2*time.Second {
		t.Fatalf("unexpected lock options: %+v", opts)
	}

	if got := cfg.BatchOptions("/from/flag").OutputDir; got != "/from/flag" {
		t.Fatalf("expected flag to override config, got %q", got)
	}
	if got := cfg.BatchOptions("   ").OutputDir; got != "/from/config" {
		t.Fatalf("expected blank flag to be ignored, got %q", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = "/tmp/out"

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != cfg {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, cfg)
	}
}
