// SPDX-License-Identifier: GPL-3.0

package rp

import "github.com/rdmasim/dcqcnsim/internal/units"

// TransmissionSink receives bytes departing the RP for delayed delivery to
// the Notification Point. The Notification Point implements this.
type TransmissionSink interface {
	Enqueue(deliverTick units.Clock, bytes units.Bytes)
}

// ReactionPoint is the scalar-input-buffer Reaction Point: the application
// layer is modeled as a piecewise-constant byte rate, not a packet stream.
type ReactionPoint struct {
	rateMachine

	InputBuffer units.Bytes

	TimeHistory        []units.Clock
	AppRateHistory     []units.Bytes
	InputBufferHistory []units.Bytes
}

// New returns a new ReactionPoint.
func New(cfg Config) *ReactionPoint {
	return &ReactionPoint{rateMachine: newRateMachine(cfg)}
}

// ProcessInput credits appRate bytes to the input buffer, debits
// min(Rc, input_buffer), and hands the departing bytes to sink dated
// t+TX_DELAY.
func (r *ReactionPoint) ProcessInput(t units.Clock, appRate units.Bytes, sink TransmissionSink) {
	r.TimeHistory = append(r.TimeHistory, t)
	r.AppRateHistory = append(r.AppRateHistory, appRate)

	r.InputBuffer += appRate
	d := r.Rc
	if r.InputBuffer < d {
		d = r.InputBuffer
	}
	r.InputBuffer -= d

	sink.Enqueue(t+r.cfg.TXDelay, d)
	r.InputBufferHistory = append(r.InputBufferHistory, r.InputBuffer)
}

// Update applies the per-tick rate update, given the event flag observed
// at the Notification Point this tick.
func (r *ReactionPoint) Update(eventFlag bool) {
	r.update(eventFlag)
}
