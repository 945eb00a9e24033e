// SPDX-License-Identifier: GPL-3.0

// Package scheduler implements the calendar-queue packet scheduler: a
// circular time wheel that paces per-flow transmission opportunities for
// hundreds of thousands of flows at nanosecond resolution, and the
// per-flow rate update run on every packet send.
package scheduler

import "github.com/rdmasim/dcqcnsim/internal/units"

// OffsetPolicy selects the strict-vs-lenient behavior when a computed
// calendar offset reaches or exceeds the number of slots.
type OffsetPolicy int

const (
	// OffsetStrict aborts with a configuration error naming the flow id
	// and computed offset.
	OffsetStrict OffsetPolicy = iota
	// OffsetLenient saturates the offset to S-1 and counts the clamp.
	OffsetLenient
)

// Config holds the recognized scheduler options.
type Config struct {
	MTUSizeBits          float64       `toml:"mtu_size_bits"`          // MTU_SIZE: fixed packet size in bits
	CalendarInterval     units.Clock   `toml:"calendar_interval"`      // slot duration, in ns
	CalendarWindow       units.Clock   `toml:"calendar_window"`        // total wheel duration, in ns
	ActiveIncreaseFactor float64       `toml:"active_increase_factor"` // per-packet multiplicative increase
	CNPOccurrenceProb    float64       `toml:"cnp_occurrence_prob"`    // probability of a congestion decrease draw
	CNPMeanDecrease      float64       `toml:"cnp_mean_decrease"`      // mean decrease, as a fraction of init rate
	CNPStdDev            float64       `toml:"cnp_std_dev"`            // std dev of decrease, as a fraction of init rate
	CongestionThreshold  float64       `toml:"congestion_threshold"`   // multiple of init rate that triggers a decrease draw
	MinRate              units.Bitrate `toml:"min_rate"`
	NumGroups            int           `toml:"num_groups"`
	NumFlowsPerGroup     int           `toml:"num_flows_per_group"`
	OffsetPolicy         OffsetPolicy  `toml:"offset_policy"`
}

// Slots returns S = CALENDAR_WINDOW / CALENDAR_INTERVAL.
func (c Config) Slots() int {
	return int(c.CalendarWindow / c.CalendarInterval)
}

// DefaultConfig returns the reference scheduler constants.
func DefaultConfig() Config {
	return Config{
		MTUSizeBits:          12_000,
		CalendarInterval:     500,
		CalendarWindow:       60_000_000,
		ActiveIncreaseFactor: 0.03,
		CNPOccurrenceProb:    0.7,
		CNPMeanDecrease:      0.3,
		CNPStdDev:            0.1,
		CongestionThreshold:  1.3,
		MinRate:              220_000,
		NumGroups:            256,
		NumFlowsPerGroup:     1000,
		OffsetPolicy:         OffsetLenient,
	}
}
