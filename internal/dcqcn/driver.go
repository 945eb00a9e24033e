// SPDX-License-Identifier: GPL-3.0

// Package dcqcn wires the Reaction Point and Notification Point together
// into the per-tick simulation driver: for every tick, advance the
// workload, step the RP input, tick the NP, then update the RP rate — in
// that fixed order, since the CNP observed at NP-tick time feeds the RP
// update of the very same tick.
package dcqcn

import (
	"github.com/rdmasim/dcqcnsim/internal/np"
	"github.com/rdmasim/dcqcnsim/internal/rp"
	"github.com/rdmasim/dcqcnsim/internal/telemetry"
	"github.com/rdmasim/dcqcnsim/internal/units"
	"github.com/rdmasim/dcqcnsim/internal/workload"
)

// Config bundles the RP, NP and run-length configuration.
type Config struct {
	RP        rp.Config
	NP        np.Config
	EndOfTime units.Clock // END_OF_TIME: simulation horizon
}

// Driver runs the scalar-input-buffer DCQCN pipeline: the application
// layer is modeled as a piecewise-constant byte rate rather than a packet
// stream.
type Driver struct {
	cfg Config
	RP  *rp.ReactionPoint
	NP  *np.NotificationPoint

	metrics *telemetry.DCQCNMetrics
	log     *telemetry.Logger
}

// New returns a new Driver.
func New(cfg Config, metrics *telemetry.DCQCNMetrics, log *telemetry.Logger) *Driver {
	return &Driver{
		cfg:     cfg,
		RP:      rp.New(cfg.RP),
		NP:      np.New(cfg.NP),
		metrics: metrics,
		log:     log,
	}
}

// Run executes the simulation from tick 0 to EndOfTime exclusive, sourcing
// the application rate from points at each tick.
func (d *Driver) Run(points []workload.RateChangePoint) {
	for t := units.Clock(0); t < d.cfg.EndOfTime; t++ {
		appRate := workload.RateAt(points, t)

		d.RP.ProcessInput(t, appRate, d.NP)
		eventFlag := d.NP.Tick(t)
		d.RP.Update(eventFlag)

		if d.metrics != nil {
			d.metrics.Rc.Set(float64(d.RP.Rc))
			d.metrics.Alpha.Set(d.RP.Alpha())
			d.metrics.InputBuffer.Set(float64(d.RP.InputBuffer))
			d.metrics.OutputBuffer.Set(float64(d.NP.OutputBuffer))
			d.metrics.AppRate.Set(float64(appRate))
			if eventFlag {
				d.metrics.CNPEventTotal.Inc()
			}
		}
		if eventFlag && d.log != nil {
			d.log.Tickf(t, "rp", "CNP delivered, Rc=%s alpha=%.4f", d.RP.Rc, d.RP.Alpha())
		}
	}
}
