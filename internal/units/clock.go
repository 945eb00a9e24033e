// SPDX-License-Identifier: GPL-3.0

// Package units holds the typed scalar values shared by both simulators:
// a discrete tick counter and byte/bitrate quantities.
package units

import (
	"fmt"
	"math"
)

// Clock is a discrete simulation tick. The DCQCN pipeline counts
// microseconds; the calendar scheduler counts nanoseconds. A Clock value is
// never meaningful across the two models.
type Clock uint64

// ClockInfinity is the maximum representable Clock value, used as the
// sentinel "never" deadline.
const ClockInfinity = Clock(math.MaxUint64)

// String implements fmt.Stringer.
func (c Clock) String() string {
	return fmt.Sprintf("%d", uint64(c))
}

// Mod reports c modulo m, for integer timer-period checks like
// "fr_timer mod K == 0".
func (c Clock) Mod(m Clock) Clock {
	return c % m
}
