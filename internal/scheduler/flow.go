// SPDX-License-Identifier: GPL-3.0

package scheduler

import (
	"math"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// FlowID identifies a flow. IDs are assigned contiguously from 1 so they
// can index directly into the flat per-flow arrays.
type FlowID uint64

// computeOffsetSlots returns the number of calendar slots between now and
// the next transmission opportunity for a flow sending at rate (bits/sec),
// given a fixed MTU in bits:
//
//	ipg_ns = MTU * 1e9 / r
//	offset_slots = max(1, round(ipg_ns)) / CALENDAR_INTERVAL
//
// The offset is floored at 1 slot to guarantee forward progress even at
// rates so high the IPG would round to zero slots.
func computeOffsetSlots(rate units.Bitrate, mtuBits float64, interval units.Clock) int {
	if rate <= 0 {
		return 1
	}
	ipgNS := mtuBits * 1e9 / float64(rate)
	ipgNS = math.Max(1, math.Round(ipgNS))
	offset := int(ipgNS) / int(interval)
	if offset < 1 {
		offset = 1
	}
	return offset
}
