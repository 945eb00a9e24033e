// SPDX-License-Identifier: GPL-3.0

// Package workload supplies the external, narrow-interface collaborators
// the core consumes: piecewise-constant application rate samples and
// ordered packet streams.
package workload

import "github.com/rdmasim/dcqcnsim/internal/units"

// Packet is an immutable unit of application-layer traffic, ordered by
// ArrivalTick and consumed once.
type Packet struct {
	ArrivalTick units.Clock
	Size        units.Bytes
	SeqNumber   uint64
}

// RateChangePoint is a piecewise-constant application rate sample: the app
// rate holds at Rate from Tick until the next RateChangePoint.
type RateChangePoint struct {
	Tick units.Clock
	Rate units.Bytes
}

// RateAt returns the application rate in effect at tick t, given points
// sorted ascending by Tick with points[0].Tick == 0.
func RateAt(points []RateChangePoint, t units.Clock) units.Bytes {
	rate := units.Bytes(0)
	for _, p := range points {
		if p.Tick > t {
			break
		}
		rate = p.Rate
	}
	return rate
}
