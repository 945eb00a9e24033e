// SPDX-License-Identifier: GPL-3.0

package rp

import (
	"github.com/rdmasim/dcqcnsim/internal/units"
	"github.com/rdmasim/dcqcnsim/internal/workload"
)

// PacketReactionPoint is the packet-queue-input-buffer Reaction Point. It
// shares the same rate-state-machine Update with ReactionPoint; only the
// input buffer's shape and the departure-pacing logic differ.
type PacketReactionPoint struct {
	rateMachine

	queue         []workload.Packet
	departureTick units.Clock // next tick at which a packet may depart

	TimeHistory        []units.Clock
	InputBufferHistory []units.Bytes
}

// NewPacketReactionPoint returns a new PacketReactionPoint.
func NewPacketReactionPoint(cfg Config) *PacketReactionPoint {
	return &PacketReactionPoint{rateMachine: newRateMachine(cfg)}
}

// Admit appends a packet that has arrived, in arrival order.
func (r *PacketReactionPoint) Admit(pkt workload.Packet) {
	r.queue = append(r.queue, pkt)
}

// InputBufferBytes returns the total bytes currently queued, for history
// recording.
func (r *PacketReactionPoint) InputBufferBytes() units.Bytes {
	var total units.Bytes
	for _, p := range r.queue {
		total += p.Size
	}
	return total
}

// ProcessInput is the packet-queue analogue of ReactionPoint.ProcessInput:
// if the head-of-queue packet's departure gap (computed from the current
// Rc) has elapsed, dequeue it and hand it to sink dated t+TX_DELAY.
func (r *PacketReactionPoint) ProcessInput(t units.Clock, sink TransmissionSink) {
	r.TimeHistory = append(r.TimeHistory, t)

	if len(r.queue) > 0 && t >= r.departureTick {
		pkt := r.queue[0]
		r.queue = r.queue[1:]
		sink.Enqueue(t+r.cfg.TXDelay, pkt.Size)
		r.departureTick = t + r.ipg(pkt.Size)
	}

	r.InputBufferHistory = append(r.InputBufferHistory, r.InputBufferBytes())
}

// ipg computes the inter-packet gap, in ticks, enforced by the current Rc,
// floored at 1 to guarantee forward progress.
func (r *PacketReactionPoint) ipg(size units.Bytes) units.Clock {
	if r.Rc <= 0 {
		return 1
	}
	ticks := units.Clock(float64(size) / float64(r.Rc))
	if ticks < 1 {
		return 1
	}
	return ticks
}

// Update applies the per-tick rate update.
func (r *PacketReactionPoint) Update(eventFlag bool) {
	r.update(eventFlag)
}
