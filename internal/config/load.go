package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/reelbox/config.toml
//  2. ~/.config/reelbox/config.toml
//  3. /etc/reelbox/config.toml
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. Files ending
// in .yaml or .yml are decoded as YAML, anything else as TOML.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return LoadFromReader(f)
	}
}

// LoadFromReader reads TOML configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadYAML reads YAML configuration from an io.Reader.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// DefaultConfig returns the configuration of the reference appliance.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "/"
	}
	return &Config{
		Root: home,
		Display: DisplayConfig{
			Device: "/dev/fb1",
			Width:  320,
			Height: 240,
			FPS:    24,
			BGR:    true,
		},
		Status: StatusConfig{
			Buses:  []string{"/dev/i2c-1", "/dev/i2c-2"},
			Width:  128,
			Height: 32,
		},
		Buttons: ButtonsConfig{
			Select:          "GPIO19",
			Escape:          "GPIO26",
			Up:              "GPIO13",
			Down:            "GPIO6",
			SampleInterval:  Duration{10 * time.Millisecond},
			DebounceSamples: 4,
		},
		Media: MediaConfig{
			Text:     []string{"*.txt", "*.bashrc", "*.rs", "*.sh"},
			Video:    []string{"*.rgb", "*.raw", "*.rgb565", "*.mp4"},
			Playable: []string{"*.raw", "*.rgb565"},
		},
		Clock: ClockConfig{Interval: Duration{time.Second}},
		Queue: QueueConfig{Events: 128, Render: 128},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REELBOX_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("REELBOX_FRAMEBUFFER"); v != "" {
		cfg.Display.Device = v
	}
	if v := os.Getenv("REELBOX_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REELBOX_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "reelbox", "config.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "reelbox", "config.toml"))
	}
	return append(paths, "/etc/reelbox/config.toml")
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
