// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Snapshot formats understood by the loader.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SnapshotFormat selects the dataset source: csv, json or postgres.
	SnapshotFormat string `koanf:"snapshot_format"`

	// SnapshotPath is the csv/json snapshot file.
	SnapshotPath string `koanf:"snapshot_path"`

	// PostgresDSN and PostgresTable locate a snapshot table.
	PostgresDSN   string `koanf:"postgres_dsn"`
	PostgresTable string `koanf:"postgres_table"`

	// PriorityWeight multiplies the priority-stat delta.
	PriorityWeight float64 `koanf:"priority_weight"`

	// PriorityMode is "subtract" (default) or "add".
	PriorityMode string `koanf:"priority_mode"`

	// SimilarTolerance is the relative market value band of the similar bucket.
	SimilarTolerance float64 `koanf:"similar_tolerance"`

	// RadarFeatures lists the 7 statistics drawn on the radar chart.
	RadarFeatures []string `koanf:"radar_features"`

	// ResultCacheSize bounds the memoized recommendation results; 0 disables.
	ResultCacheSize int `koanf:"result_cache_size"`

	// WarmupWorkers precompute every selectable athlete at startup; 0 disables.
	WarmupWorkers int `koanf:"warmup_workers"`

	// MCPEnabled mounts the MCP tool endpoint at MCPPath.
	MCPEnabled bool   `koanf:"mcp_enabled"`
	MCPPath    string `koanf:"mcp_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		SnapshotFormat:   FormatCSV,
		SnapshotPath:     "data/recommender_snapshot.csv",
		PostgresTable:    "athlete_snapshot",
		PriorityWeight:   2.0,
		PriorityMode:     "subtract",
		SimilarTolerance: 0.25,
		RadarFeatures: []string{
			"npxG/90", "xA/90", "KeyPass/90", "Touches/90", "PassCmp%", "DribPast/90", "TklW/90",
		},
		ResultCacheSize: 1024,
		WarmupWorkers:   4,
		MCPEnabled:      true,
		MCPPath:         "/mcp",
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.SnapshotFormat {
	case FormatCSV, FormatJSON:
		if strings.TrimSpace(c.SnapshotPath) == "" {
			return fmt.Errorf("%w: snapshot_path must not be empty for %s", ErrInvalidConfig, c.SnapshotFormat)
		}
	case FormatPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" || strings.TrimSpace(c.PostgresTable) == "" {
			return fmt.Errorf("%w: postgres_dsn and postgres_table are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown snapshot_format %q", ErrInvalidConfig, c.SnapshotFormat)
	}
	if c.PriorityWeight < 0 {
		return fmt.Errorf("%w: priority_weight must be >= 0", ErrInvalidConfig)
	}
	if c.PriorityMode != "subtract" && c.PriorityMode != "add" {
		return fmt.Errorf("%w: priority_mode must be subtract or add", ErrInvalidConfig)
	}
	if c.SimilarTolerance < 0 {
		return fmt.Errorf("%w: similar_tolerance must be >= 0", ErrInvalidConfig)
	}
	if len(c.RadarFeatures) != 7 {
		return fmt.Errorf("%w: radar_features needs 7 entries, got %d", ErrInvalidConfig, len(c.RadarFeatures))
	}
	if c.ResultCacheSize < 0 {
		return fmt.Errorf("%w: result_cache_size must be >= 0", ErrInvalidConfig)
	}
	if c.WarmupWorkers < 0 {
		return fmt.Errorf("%w: warmup_workers must be >= 0", ErrInvalidConfig)
	}
	if c.MCPEnabled && !strings.HasPrefix(c.MCPPath, "/") {
		return fmt.Errorf("%w: mcp_path must start with /", ErrInvalidConfig)
	}
	return nil
}
