// SPDX-License-Identifier: GPL-3.0

// Package rp implements the DCQCN Reaction Point: the closed-loop rate
// controller that owns Rc, Rt, alpha and the three RP timers, and reacts
// to CNP delivery and timer expiry each tick.
package rp

import "github.com/rdmasim/dcqcnsim/internal/units"

// Config holds the recognized RP options.
type Config struct {
	RCInit    units.Bytes `toml:"rc_init"`    // RC_INIT: initial Rc and Rt (bytes/tick)
	AlphaInit float64     `toml:"alpha_init"` // ALPHA_INIT
	G         float64     `toml:"g"`          // weight factor for alpha EWMA, in (0,1)
	K         units.Clock `toml:"k"`          // period (ticks) of alpha decay / recovery step
	F         int         `toml:"f"`          // fast-recovery halvings before additive increase
	RAI       units.Bytes `toml:"rai"`        // additive rate increase (bytes/tick) in active recovery
	TXDelay   units.Clock `toml:"tx_delay"`   // ticks from RP departure to NP arrival
}

// DefaultConfig returns the reference RP constants.
func DefaultConfig() Config {
	return Config{
		RCInit:    135,
		AlphaInit: 0.5,
		G:         0.3,
		K:         55,
		F:         5,
		RAI:       2,
		TXDelay:   7,
	}
}
