// Package config loads the jpdfview configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the jpdfview.yaml configuration
type Config struct {
	// Zoom configuration
	Zoom *ZoomConfig `yaml:"zoom,omitempty"`

	// View configuration
	View *ViewConfig `yaml:"view,omitempty"`

	// Follow-mode server configuration
	Follow *FollowConfig `yaml:"follow,omitempty"`

	// Raster cache configuration
	Cache *CacheConfig `yaml:"cache,omitempty"`
}

// ZoomConfig contains zoom-related configuration
type ZoomConfig struct {
	// Lower scale bound
	MinScale float64 `yaml:"minScale,omitempty"`

	// Upper scale bound
	MaxScale float64 `yaml:"maxScale,omitempty"`
}

// ViewConfig contains viewing defaults
type ViewConfig struct {
	// Scroll axis: "vertical" or "horizontal"
	Axis string `yaml:"axis,omitempty"`

	// Initial page, 1-based as users count pages
	Page int `yaml:"page,omitempty"`

	// Color mode: normal, inverted, grayscale, sepia, night
	ColorMode string `yaml:"colorMode,omitempty"`

	// Whether the surface settles on page boundaries
	PageSnapping *bool `yaml:"pageSnapping,omitempty"`

	// Watch the file source and reload on change
	Watch bool `yaml:"watch,omitempty"`
}

// FollowConfig contains the follow-mode server configuration
type FollowConfig struct {
	// Whether follow mode is enabled
	Enabled bool `yaml:"enabled"`

	// Listen address, e.g. ":8417"
	Addr string `yaml:"addr,omitempty"`
}

// CacheConfig bounds the raster cache
type CacheConfig struct {
	// Maximum cache size in megabytes
	MaxMB int `yaml:"maxMB,omitempty"`

	// Maximum number of cached rasters
	MaxEntries int `yaml:"maxEntries,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	snapping := true
	return &Config{
		Zoom: &ZoomConfig{MinScale: 1.0, MaxScale: 4.0},
		View: &ViewConfig{
			Axis:         "vertical",
			Page:         1,
			ColorMode:    "normal",
			PageSnapping: &snapping,
		},
		Follow: &FollowConfig{Addr: ":8417"},
		Cache:  &CacheConfig{MaxMB: 256, MaxEntries: 64},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "jpdfview", "config.yaml")
}

// Load reads path and merges it over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.merge(&file)
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Zoom != nil {
		if o.Zoom.MinScale > 0 {
			c.Zoom.MinScale = o.Zoom.MinScale
		}
		if o.Zoom.MaxScale > 0 {
			c.Zoom.MaxScale = o.Zoom.MaxScale
		}
	}
	if o.View != nil {
		if o.View.Axis != "" {
			c.View.Axis = o.View.Axis
		}
		if o.View.Page > 0 {
			c.View.Page = o.View.Page
		}
		if o.View.ColorMode != "" {
			c.View.ColorMode = o.View.ColorMode
		}
		if o.View.PageSnapping != nil {
			c.View.PageSnapping = o.View.PageSnapping
		}
		if o.View.Watch {
			c.View.Watch = true
		}
	}
	if o.Follow != nil {
		if o.Follow.Enabled {
			c.Follow.Enabled = true
		}
		if o.Follow.Addr != "" {
			c.Follow.Addr = o.Follow.Addr
		}
	}
	if o.Cache != nil {
		if o.Cache.MaxMB > 0 {
			c.Cache.MaxMB = o.Cache.MaxMB
		}
		if o.Cache.MaxEntries > 0 {
			c.Cache.MaxEntries = o.Cache.MaxEntries
		}
	}
}
