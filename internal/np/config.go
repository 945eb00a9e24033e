// SPDX-License-Identifier: GPL-3.0

// Package np implements the DCQCN Notification Point: the downstream
// queue model that detects congestion and emits a rate-limited CNP
// delivery signal back to the Reaction Point.
package np

import "github.com/rdmasim/dcqcnsim/internal/units"

// Config holds the recognized NP options.
type Config struct {
	N            units.Clock `toml:"n"`             // max CNP arrival frequency (ticks)
	CNPDelay     units.Clock `toml:"cnp_delay"`     // detection-to-delivery lag (ticks)
	CNPThreshold units.Bytes `toml:"cnp_threshold"` // output-buffer congestion trigger (bytes)
	OutputRate   units.Bytes `toml:"output_rate"`   // NP drain rate (bytes/tick)
}

// DefaultConfig returns the reference NP constants.
func DefaultConfig() Config {
	return Config{
		N:            50,
		CNPDelay:     6,
		CNPThreshold: 2000,
		OutputRate:   129,
	}
}
