// Package config loads the YAML configuration for the acequia tools: the
// series inventory, engine options, summary storage and the REST server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// SeriesData describes one groundwater-head series source.
type SeriesData struct {
	Name    string  `yaml:"name"`    // display name, defaults to the file base name
	File    string  `yaml:"file"`    // path to a two-column CSV (date, head in m+datum)
	Surface float64 `yaml:"surface"` // surface elevation in m+datum, 0 treated as given
}

// EngineData holds the GxG engine options.
type EngineData struct {
	MaxLag    int    `yaml:"max_lag,omitempty"`     // canonical resampling lag in days
	VGRefDate string `yaml:"vg_ref_date,omitempty"` // apr1, apr15 or mar15
	VGMaxLag  int    `yaml:"vg_max_lag,omitempty"`  // spring-level lag in days
	RefLevel  string `yaml:"ref_level,omitempty"`   // datum or surface
	Minimal   bool   `yaml:"minimal,omitempty"`
	Strict    bool   `yaml:"strict,omitempty"`
	Workers   int    `yaml:"workers,omitempty"` // parallel series workers
}

// StorageData holds the summary store settings.
type StorageData struct {
	SQLite string `yaml:"sqlite,omitempty"` // path to the SQLite summary store
}

// ServerData holds the REST server settings.
type ServerData struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// Config is the complete tool configuration.
type Config struct {
	Series  []SeriesData `yaml:"series"`
	Engine  EngineData   `yaml:"engine,omitempty"`
	Storage StorageData  `yaml:"storage,omitempty"`
	Server  ServerData   `yaml:"server,omitempty"`
}

// Load reads and validates a YAML configuration file.
func Load(filename string) (*Config, error) {
	cfgFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(cfgFile, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", filename, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.Workers <= 0 {
		c.Engine.Workers = 4
	}
	if c.Engine.RefLevel == "" {
		c.Engine.RefLevel = "datum"
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
}

func (c *Config) validate() error {
	if len(c.Series) == 0 {
		return fmt.Errorf("no series configured")
	}
	for i, sd := range c.Series {
		if sd.File == "" {
			return fmt.Errorf("series %d: missing file", i)
		}
	}
	if c.Engine.RefLevel != "datum" && c.Engine.RefLevel != "surface" {
		return fmt.Errorf("invalid ref_level %q (valid: datum, surface)", c.Engine.RefLevel)
	}
	return nil
}
