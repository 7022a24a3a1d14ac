package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Package config provides persistence for the fence layout and typed access to user options.

// FenceConfig is the persisted state of a single fence. Geometry is in logical (DPI independent) units.
type FenceConfig struct {
	Name              string  `json:"name"`
	FolderPath        string  `json:"folder_path"`
	Left              float64 `json:"left"`
	Top               float64 `json:"top"`
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	Collapsed         bool    `json:"collapsed"`
	BackgroundOpacity float64 `json:"background_opacity"`
}

// Default fence geometry and appearance.
const (
	DefaultFenceName    = "Fence"
	DefaultFenceWidth   = 400.0
	DefaultFenceHeight  = 240.0
	DefaultFenceOpacity = 0.92
)

// NewFenceConfig returns a fence record populated with the default size and opacity.
func NewFenceConfig(name, folder string) FenceConfig {
	return FenceConfig{
		Name:              name,
		FolderPath:        folder,
		Width:             DefaultFenceWidth,
		Height:            DefaultFenceHeight,
		BackgroundOpacity: DefaultFenceOpacity,
	}
}

// Config holds every fence the user has created.
type Config struct {
	Fences []FenceConfig `json:"fences"`

	mu   sync.Mutex
	path string
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config, loaded from the user's config file.
func GetConfig() *Config {
	once.Do(func() {
		instance = Load(GetFilename())
	})
	return instance
}

// GetPath returns the path to the user's config directory.
func GetPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			log.Fatalf("Error getting user config directory: %v", err)
		}
		return filepath.Join(home, LogSubDir)
	}
	return filepath.Join(dir, AppName)
}

// GetFilename returns the path to the user's config file.
func GetFilename() string {
	return filepath.Join(GetPath(), "config.json")
}

// Load reads the configuration at path. A missing or unreadable file yields an empty configuration
// bound to the same path, so a later Save recreates it.
func Load(path string) *Config {
	c := &Config{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Config] Error reading %s: %v", path, err)
		}
		return c
	}
	if err := c.decode(data); err != nil {
		log.Printf("[Config] Error decoding %s, starting empty: %v", path, err)
		c.Fences = nil
	}
	c.normalize()
	return c
}

// decode accepts both the current object form and the legacy form, which was a bare array of fences.
func (c *Config) decode(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		var legacy []FenceConfig
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return fmt.Errorf("legacy fence list: %w", err)
		}
		c.Fences = legacy
		return nil
	}
	return json.Unmarshal(trimmed, c)
}

// normalize fills in defaults for records written by older versions.
func (c *Config) normalize() {
	for i := range c.Fences {
		f := &c.Fences[i]
		if f.Name == "" {
			f.Name = DefaultFenceName
		}
		if f.Width <= 0 {
			f.Width = DefaultFenceWidth
		}
		if f.Height <= 0 {
			f.Height = DefaultFenceHeight
		}
		if f.BackgroundOpacity <= 0 || f.BackgroundOpacity > 1 {
			f.BackgroundOpacity = DefaultFenceOpacity
		}
	}
}

// Snapshot returns a copy of the fence list.
func (c *Config) Snapshot() []FenceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]FenceConfig(nil), c.Fences...)
}

// Update replaces the fence list and saves it.
func (c *Config) Update(fences []FenceConfig) error {
	c.mu.Lock()
	c.Fences = append([]FenceConfig(nil), fences...)
	c.mu.Unlock()
	return c.Save()
}

// Save writes the configuration to disk, replacing the previous file atomically.
func (c *Config) Save() error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c, "", "  ")
	path := c.path
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}
