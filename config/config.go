package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerLaunchpadX    ControllerType = "launchpad-x"
	ControllerLaunchpadMini ControllerType = "launchpad-mini"
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// GestureConfig converts terminal drags into swipe distances
type GestureConfig struct {
	Threshold      float64 `json:"threshold,omitempty"`
	UnitsPerColumn float64 `json:"unitsPerColumn,omitempty"` // one terminal column
	UnitsPerRow    float64 `json:"unitsPerRow,omitempty"`    // one terminal row
}

// WorkspaceConfig tunes the mixing screen
type WorkspaceConfig struct {
	VibeRevertMs int     `json:"vibeRevertMs,omitempty"`
	OrbitRadius  float64 `json:"orbitRadius,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Gesture     GestureConfig      `json:"gesture"`
	Workspace   WorkspaceConfig    `json:"workspace"`
	CatalogPath string             `json:"catalogPath,omitempty"` // empty: built-in loops
	PalettePath string             `json:"palettePath,omitempty"` // empty: built-in palette
	MIDIEnabled *bool              `json:"midiEnabled,omitempty"`
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	Debug       bool               `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	midi := true
	return &Config{
		Gesture: GestureConfig{
			Threshold:      100,
			UnitsPerColumn: 8,
			UnitsPerRow:    16,
		},
		Workspace: WorkspaceConfig{
			VibeRevertMs: 3000,
			OrbitRadius:  100,
		},
		MIDIEnabled: &midi,
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpadX,
				AutoConnect: true,
			},
		},
	}
}

// withDefaults fills fields a partial config file left out
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	if c.Gesture.Threshold <= 0 {
		c.Gesture.Threshold = def.Gesture.Threshold
	}
	if c.Gesture.UnitsPerColumn <= 0 {
		c.Gesture.UnitsPerColumn = def.Gesture.UnitsPerColumn
	}
	if c.Gesture.UnitsPerRow <= 0 {
		c.Gesture.UnitsPerRow = def.Gesture.UnitsPerRow
	}
	if c.Workspace.VibeRevertMs <= 0 {
		c.Workspace.VibeRevertMs = def.Workspace.VibeRevertMs
	}
	if c.Workspace.OrbitRadius <= 0 {
		c.Workspace.OrbitRadius = def.Workspace.OrbitRadius
	}
	if c.MIDIEnabled == nil {
		c.MIDIEnabled = def.MIDIEnabled
	}
	return c
}

// VibeRevert is the auto-mix label lifetime
func (c *Config) VibeRevert() time.Duration {
	return time.Duration(c.Workspace.VibeRevertMs) * time.Millisecond
}

// UseMIDI reports whether controller hot-plug should run
func (c *Config) UseMIDI() bool {
	return c.MIDIEnabled == nil || *c.MIDIEnabled
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vibeloop"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, or returns defaults if it does not exist
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg.withDefaults(), nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AutoConnectControllers returns controllers with autoConnect enabled
func (c *Config) AutoConnectControllers() []ControllerConfig {
	var result []ControllerConfig
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl)
		}
	}
	return result
}
