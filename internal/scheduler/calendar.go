// SPDX-License-Identifier: GPL-3.0

package scheduler

import (
	"fmt"
	"math/rand"

	"github.com/rdmasim/dcqcnsim/internal/telemetry"
	"github.com/rdmasim/dcqcnsim/internal/units"
)

// Scheduler owns the calendar wheel and all per-flow rate memory. Its
// slots are a flat slice of small slices rather than a hashmap, since S is
// typically 10^5-10^6.
type Scheduler struct {
	cfg Config

	calendar [][]FlowID
	slotPtr  int

	// flat per-flow arrays, indexed directly by FlowID (dense from 1;
	// index 0 is unused).
	rcMemory      []units.Bitrate
	initRates     []units.Bitrate
	cnpThresholds []units.Bitrate

	admission []FlowID // initial round-robin admission queue, one flow per Step

	rng *rand.Rand

	OutputStats []units.Bytes // total bytes sent per flow, indexed by FlowID

	tracked map[FlowID]*trackedFlow

	// occupancyCounts[k] counts how many slot-steps found exactly k flows
	// in the slot; grown lazily as larger occupancies are observed.
	occupancyCounts []int64

	metrics *telemetry.SchedulerMetrics
	log     *telemetry.Logger
}

// trackedFlow records the sliding window of send timestamps used to
// derive a measured rate for explicitly tracked flows.
type trackedFlow struct {
	timestamps []units.Clock
	RealRates  []float64 // bits/sec, one entry per send; 0 until 4 samples exist
	RcSamples  []units.Bitrate
	SampleTick []units.Clock
}

// New returns a new Scheduler. rcMemory and initRates cover the dense flow
// population, are 1-indexed (index 0 unused) and are owned by the Scheduler
// from this point on.
func New(cfg Config, rcMemory, initRates []units.Bitrate, admission []FlowID, rng *rand.Rand, metrics *telemetry.SchedulerMetrics, log *telemetry.Logger) *Scheduler {
	s := len(rcMemory)
	cnpThresholds := make([]units.Bitrate, s)
	for id := 1; id < s; id++ {
		cnpThresholds[id] = units.Bitrate(cfg.CongestionThreshold) * initRates[id]
	}

	return &Scheduler{
		cfg:           cfg,
		calendar:      make([][]FlowID, cfg.Slots()),
		rcMemory:      rcMemory,
		initRates:     initRates,
		cnpThresholds: cnpThresholds,
		admission:     admission,
		rng:           rng,
		OutputStats:   make([]units.Bytes, s),
		tracked:       make(map[FlowID]*trackedFlow),
		metrics:       metrics,
		log:           log,
	}
}

// TrackFlow begins recording send timestamps and derived rates for id.
func (s *Scheduler) TrackFlow(id FlowID) {
	s.tracked[id] = &trackedFlow{}
}

// Tracked returns the recorded samples for a tracked flow, if any.
func (s *Scheduler) Tracked(id FlowID) (*trackedFlow, bool) {
	t, ok := s.tracked[id]
	return t, ok
}

// Step executes one slot-step: admit one newly-initialized flow, record
// the occupancy histogram, process every flow in the current slot, then
// advance the slot pointer. t is the current tick (in the scheduler's
// nanosecond units), used only for tracked-flow timestamping.
func (s *Scheduler) Step(t units.Clock) error {
	if len(s.admission) > 0 {
		id := s.admission[0]
		s.admission = s.admission[1:]
		if err := s.schedule(id, s.rcMemory[id], s.slotPtr); err != nil {
			return err
		}
	}

	cur := s.calendar[s.slotPtr]
	s.recordOccupancy(len(cur))
	if s.metrics != nil {
		s.metrics.Occupancy.Observe(float64(len(cur)))
	}

	for _, id := range cur {
		if err := s.send(id, t); err != nil {
			return err
		}
	}

	s.calendar[s.slotPtr] = cur[:0]
	s.slotPtr = (s.slotPtr + 1) % len(s.calendar)
	return nil
}

// recordOccupancy counts one more slot-step at occupancy k, growing the
// histogram as larger occupancies are observed.
func (s *Scheduler) recordOccupancy(k int) {
	for len(s.occupancyCounts) <= k {
		s.occupancyCounts = append(s.occupancyCounts, 0)
	}
	s.occupancyCounts[k]++
}

// OccupancyStats returns the empty-slot ratio (occupancy[0] / total
// slot-steps observed) and the largest occupancy bucket with at least one
// observation, the two headline quality metrics for a scheduler run.
func (s *Scheduler) OccupancyStats() (emptySlotRatio float64, maxOccupancy int) {
	var total int64
	for k, c := range s.occupancyCounts {
		total += c
		if c > 0 {
			maxOccupancy = k
		}
	}
	if total == 0 {
		return 0, 0
	}
	return float64(s.occupancyCounts[0]) / float64(total), maxOccupancy
}

// send credits one MTU, updates the flow's rate, and reschedules it. It
// returns the OffsetStrict error when the new offset does not fit the wheel.
func (s *Scheduler) send(id FlowID, t units.Clock) error {
	s.OutputStats[id] += units.Bytes(s.cfg.MTUSizeBits / 8)
	if s.metrics != nil {
		s.metrics.PacketsSent.Inc()
	}

	if tf, ok := s.tracked[id]; ok {
		s.recordTrack(tf, t, s.rcMemory[id])
	}

	newRate := updateRate(s.rng, s.cfg, s.rcMemory[id], s.initRates[id], s.cnpThresholds[id])
	s.rcMemory[id] = newRate

	return s.schedule(id, newRate, s.slotPtr)
}

// schedule computes id's offset from rate and appends it to the target
// slot, applying the configured OffsetPolicy when offset >= S.
func (s *Scheduler) schedule(id FlowID, rate units.Bitrate, fromSlot int) error {
	n := len(s.calendar)
	offset := computeOffsetSlots(rate, s.cfg.MTUSizeBits, s.cfg.CalendarInterval)
	if offset >= n {
		switch s.cfg.OffsetPolicy {
		case OffsetStrict:
			return fmt.Errorf("scheduler: flow %d computed offset %d exceeds calendar slots %d at rate %s",
				id, offset, n, rate)
		default:
			offset = n - 1
			if s.metrics != nil {
				s.metrics.OffsetClamps.Inc()
			}
		}
	}
	target := (fromSlot + offset) % n
	s.calendar[target] = append(s.calendar[target], id)
	return nil
}

// recordTrack appends a send timestamp and a measured real rate derived
// from the first and fourth of the last four timestamps; the rate entry is
// 0 until 4 samples exist.
func (s *Scheduler) recordTrack(tf *trackedFlow, t units.Clock, rc units.Bitrate) {
	tf.timestamps = append(tf.timestamps, t)
	if len(tf.timestamps) > 4 {
		tf.timestamps = tf.timestamps[len(tf.timestamps)-4:]
	}
	tf.SampleTick = append(tf.SampleTick, t)
	tf.RcSamples = append(tf.RcSamples, rc)

	if len(tf.timestamps) >= 4 {
		dt := float64(tf.timestamps[3]-tf.timestamps[0]) / 1e9 // ns -> s
		if dt > 0 {
			tf.RealRates = append(tf.RealRates, 3*s.cfg.MTUSizeBits/dt)
			return
		}
	}
	tf.RealRates = append(tf.RealRates, 0)
}

// MaxSlot returns the number of calendar slots, S.
func (s *Scheduler) MaxSlot() int { return len(s.calendar) }
