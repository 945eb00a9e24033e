// SPDX-License-Identifier: GPL-3.0

package np

import "github.com/rdmasim/dcqcnsim/internal/units"

// delivery is a transmission-queue entry: bytes dated to arrive at the
// output buffer no earlier than DeliverTick.
type delivery struct {
	DeliverTick units.Clock
	Bytes       units.Bytes
}

// NotificationPoint owns the output buffer, the delayed-delivery
// transmission queue, and the rate-limited CNP generator. Both queues are
// FIFO ordered non-decreasing by delivery tick; producers only ever append
// a delivery tick that is >= the last appended, so no insertion sort is
// needed.
type NotificationPoint struct {
	cfg Config

	OutputBuffer units.Bytes

	cnpTimer    units.Clock
	cnpTimerEna bool

	transmissionQueue []delivery
	cnpQueue          []units.Clock

	OutputBufferHistory []units.Bytes
	CNPEvents           []CNPEvent
}

// CNPEvent records a congestion-notification detection.
type CNPEvent struct {
	Tick         units.Clock
	OutputBuffer units.Bytes
}

// New returns a new NotificationPoint with cnp_timer initialized to 1, so
// a CNP can fire on the very first window.
func New(cfg Config) *NotificationPoint {
	return &NotificationPoint{cfg: cfg, cnpTimer: 1}
}

// Enqueue implements rp.TransmissionSink: it appends a byte delivery
// dated deliverTick to the transmission queue.
func (n *NotificationPoint) Enqueue(deliverTick units.Clock, bytes units.Bytes) {
	n.transmissionQueue = append(n.transmissionQueue, delivery{deliverTick, bytes})
}

// Tick delivers due transmission-queue entries, drains at OUTPUT_RATE,
// detects congestion, delivers any CNP due this tick, and advances the
// CNP rate-limit timer. It returns the event flag the Reaction Point
// consumes this same tick.
func (n *NotificationPoint) Tick(t units.Clock) (eventFlag bool) {
	for len(n.transmissionQueue) > 0 && n.transmissionQueue[0].DeliverTick <= t {
		n.OutputBuffer += n.transmissionQueue[0].Bytes
		n.transmissionQueue = n.transmissionQueue[1:]
	}

	n.OutputBuffer -= n.cfg.OutputRate
	if n.OutputBuffer < 0 {
		n.OutputBuffer = 0
	}

	if n.OutputBuffer > n.cfg.CNPThreshold && !n.cnpTimerEna && n.cnpTimer == 1 {
		n.cnpTimerEna = true
		n.CNPEvents = append(n.CNPEvents, CNPEvent{t, n.OutputBuffer})
		n.cnpQueue = append(n.cnpQueue, t+n.cfg.CNPDelay+1)
	}

	if len(n.cnpQueue) > 0 && n.cnpQueue[0] == t {
		n.cnpQueue = n.cnpQueue[1:]
		eventFlag = true
	}

	if n.cnpTimerEna {
		n.cnpTimer++
		if n.cnpTimer > n.cfg.N {
			n.cnpTimer = 1
			n.cnpTimerEna = false
		}
	}

	n.OutputBufferHistory = append(n.OutputBufferHistory, n.OutputBuffer)
	return
}
