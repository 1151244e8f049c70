// Package config provides environment-driven defaults for the plotdmg CLI.
// Flags override whatever is set here.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the CLI defaults, read from PLOTDMG_* variables.
type Config struct {
	// Env selects the logger profile: development or production.
	Env string `envconfig:"ENV" default:"development"`

	// RankDir is the rendering direction: LR, TB, BT, or RL.
	RankDir string `envconfig:"RANKDIR" default:"LR"`

	// Output is the output base path; empty derives it from the input file.
	Output string `envconfig:"OUTPUT"`

	// StyleFile points to an optional YAML render-style file.
	StyleFile string `envconfig:"STYLE"`

	// SnapshotDB, when set, receives a SQLite snapshot of the built graph.
	SnapshotDB string `envconfig:"SNAPSHOT_DB"`

	// ColorNames makes node and edge labels follow their line colors.
	ColorNames bool `envconfig:"COLOR_NAMES"`
}

var validDirs = map[string]bool{"LR": true, "TB": true, "BT": true, "RL": true}

// NormalizeDir uppercases and validates a rendering direction.
func NormalizeDir(dir string) (string, error) {
	dir = strings.ToUpper(strings.TrimSpace(dir))
	if !validDirs[dir] {
		return "", fmt.Errorf("invalid rank direction %q (want LR, TB, BT, or RL)", dir)
	}
	return dir, nil
}

// Load reads the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("plotdmg", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	dir, err := NormalizeDir(cfg.RankDir)
	if err != nil {
		return nil, err
	}
	cfg.RankDir = dir
	return &cfg, nil
}
