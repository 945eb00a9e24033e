// SPDX-License-Identifier: GPL-3.0

package dcqcn

import (
	"github.com/rdmasim/dcqcnsim/internal/np"
	"github.com/rdmasim/dcqcnsim/internal/rp"
	"github.com/rdmasim/dcqcnsim/internal/telemetry"
	"github.com/rdmasim/dcqcnsim/internal/units"
	"github.com/rdmasim/dcqcnsim/internal/workload"
)

// PacketDriver runs the packet-queue-input-buffer DCQCN pipeline, admitting
// packets from an ordered stream as their ArrivalTick is reached.
type PacketDriver struct {
	cfg Config
	RP  *rp.PacketReactionPoint
	NP  *np.NotificationPoint

	metrics *telemetry.DCQCNMetrics
	log     *telemetry.Logger
}

// NewPacketDriver returns a new PacketDriver.
func NewPacketDriver(cfg Config, metrics *telemetry.DCQCNMetrics, log *telemetry.Logger) *PacketDriver {
	return &PacketDriver{
		cfg:     cfg,
		RP:      rp.NewPacketReactionPoint(cfg.RP),
		NP:      np.New(cfg.NP),
		metrics: metrics,
		log:     log,
	}
}

// Run executes the simulation over an ascending-by-ArrivalTick packet
// stream.
func (d *PacketDriver) Run(packets []workload.Packet) {
	next := 0
	for t := units.Clock(0); t < d.cfg.EndOfTime; t++ {
		for next < len(packets) && packets[next].ArrivalTick <= t {
			d.RP.Admit(packets[next])
			next++
		}

		d.RP.ProcessInput(t, d.NP)
		eventFlag := d.NP.Tick(t)
		d.RP.Update(eventFlag)

		if d.metrics != nil {
			d.metrics.Rc.Set(float64(d.RP.Rc))
			d.metrics.Alpha.Set(d.RP.Alpha())
			d.metrics.InputBuffer.Set(float64(d.RP.InputBufferBytes()))
			d.metrics.OutputBuffer.Set(float64(d.NP.OutputBuffer))
			if eventFlag {
				d.metrics.CNPEventTotal.Inc()
			}
		}
		if eventFlag && d.log != nil {
			d.log.Tickf(t, "rp", "CNP delivered, Rc=%s alpha=%.4f", d.RP.Rc, d.RP.Alpha())
		}
	}
}
