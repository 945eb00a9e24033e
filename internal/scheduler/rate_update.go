// SPDX-License-Identifier: GPL-3.0

package scheduler

import (
	"math"
	"math/rand"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// updateRate implements the per-flow rate update run on every packet send:
// an active-increase step, followed by a probabilistic congestion-decrease
// draw once the rate exceeds cnpThreshold. rng is explicitly threaded
// rather than touching the package-level generator.
func updateRate(rng *rand.Rand, cfg Config, rate, initRate, cnpThreshold units.Bitrate) units.Bitrate {
	rate = rate * units.Bitrate(1+cfg.ActiveIncreaseFactor)

	if rate > cnpThreshold && rng.Float64() < cfg.CNPOccurrenceProb {
		mean := cfg.CNPMeanDecrease * float64(initRate)
		stddev := cfg.CNPStdDev * float64(initRate)
		decrease := mean + stddev*rng.NormFloat64()
		decrease = math.Max(0, decrease)
		rate -= units.Bitrate(decrease)
	}

	if rate < cfg.MinRate {
		rate = cfg.MinRate
	}
	return rate
}
