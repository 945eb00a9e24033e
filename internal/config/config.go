// SPDX-License-Identifier: GPL-3.0

// Package config loads simulator run parameters from TOML files, with
// defaults sourced from the rp/np/scheduler packages and overridable from
// the command line.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/rdmasim/dcqcnsim/internal/np"
	"github.com/rdmasim/dcqcnsim/internal/rp"
	"github.com/rdmasim/dcqcnsim/internal/scheduler"
)

// DCQCN holds everything needed to run the Reaction Point / Notification
// Point pipeline, as read from a TOML run file.
type DCQCN struct {
	RP        rp.Config `toml:"rp"`
	NP        np.Config `toml:"np"`
	EndOfTime int       `toml:"end_of_time"`
	RateFile  string    `toml:"rate_file"`
	PacketCSV string    `toml:"packet_csv"`
	LogLevel  string    `toml:"log_level"`
	Track     bool      `toml:"track"`
}

// DefaultDCQCN returns the reference run defaults, wrapped for a
// standalone run.
func DefaultDCQCN() DCQCN {
	return DCQCN{
		RP:        rp.DefaultConfig(),
		NP:        np.DefaultConfig(),
		EndOfTime: 10_000,
		LogLevel:  "info",
	}
}

// LoadDCQCN reads a TOML file into a DCQCN config seeded with defaults, so a
// run file only needs to name the fields it overrides.
func LoadDCQCN(path string) (DCQCN, error) {
	cfg := DefaultDCQCN()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Scheduler holds everything needed to run the calendar scheduler, as read
// from a TOML run file.
type Scheduler struct {
	scheduler.Config
	FlowGroupsFile string `toml:"flow_groups_file"`
	Seed           int64  `toml:"seed"`
	Ticks          int    `toml:"ticks"`
	LogLevel       string `toml:"log_level"`
}

// DefaultScheduler returns the reference run defaults.
func DefaultScheduler() Scheduler {
	return Scheduler{
		Config:   scheduler.DefaultConfig(),
		Seed:     1,
		Ticks:    1_000_000,
		LogLevel: "info",
	}
}

// LoadScheduler reads a TOML file into a Scheduler config seeded with
// defaults.
func LoadScheduler(path string) (Scheduler, error) {
	cfg := DefaultScheduler()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
