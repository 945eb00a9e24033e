// SPDX-License-Identifier: GPL-3.0

package rp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// fakeSink records enqueued departures for assertion.
type fakeSink struct {
	deliverTicks []units.Clock
	bytes        []units.Bytes
}

func (f *fakeSink) Enqueue(deliverTick units.Clock, b units.Bytes) {
	f.deliverTicks = append(f.deliverTicks, deliverTick)
	f.bytes = append(f.bytes, b)
}

func TestProcessInputConservesBytes(t *testing.T) {
	cfg := DefaultConfig()
	r := New(cfg)
	sink := &fakeSink{}

	r.ProcessInput(0, 50, sink)
	r.ProcessInput(1, 300, sink)

	require.Len(t, sink.bytes, 2)
	// mass conservation: input buffer + departed == total credited
	var departed units.Bytes
	for _, b := range sink.bytes {
		departed += b
	}
	assert.Equal(t, units.Bytes(350), departed+r.InputBuffer)
	assert.GreaterOrEqual(t, r.InputBuffer, units.Bytes(0))
}

func TestProcessInputDeliveryTickIsDelayed(t *testing.T) {
	cfg := DefaultConfig()
	r := New(cfg)
	sink := &fakeSink{}

	r.ProcessInput(10, 50, sink)
	require.Len(t, sink.deliverTicks, 1)
	assert.Equal(t, units.Clock(10+cfg.TXDelay), sink.deliverTicks[0])
}

func TestUpdateZeroWorkloadDriftsUpward(t *testing.T) {
	cfg := DefaultConfig()
	r := New(cfg)
	sink := &fakeSink{}

	for tick := units.Clock(0); tick < cfg.K*units.Clock(cfg.F+2); tick++ {
		r.ProcessInput(tick, 0, sink)
		r.Update(false)
	}

	assert.GreaterOrEqual(t, r.Rc, cfg.RCInit)
	assert.Equal(t, units.Bytes(0), r.InputBuffer)
}

func TestUpdateCNPHalvesRateAndResetsTimers(t *testing.T) {
	cfg := DefaultConfig()
	r := New(cfg)

	priorRc := r.Rc
	r.Update(true)

	expectedAlpha := (1-cfg.G)*cfg.AlphaInit + cfg.G
	assert.InDelta(t, expectedAlpha, r.Alpha(), 1e-9)
	assert.Equal(t, priorRc, r.Rt)
	assert.InDelta(t, float64(priorRc)*(1-expectedAlpha/2), float64(r.Rc), 1e-9)
	assert.Equal(t, units.Clock(2), r.frTimer)
	assert.Equal(t, units.Clock(2), r.alphaTimer)
	assert.Equal(t, 1, r.fCnt)
}

func TestUpdateInvariantsHoldOverRun(t *testing.T) {
	cfg := DefaultConfig()
	r := New(cfg)
	sink := &fakeSink{}

	for tick := units.Clock(0); tick < 3000; tick++ {
		r.ProcessInput(tick, 200, sink)
		event := tick == 500 // single synthetic CNP
		r.Update(event)

		assert.GreaterOrEqual(t, r.InputBuffer, units.Bytes(0))
		assert.GreaterOrEqual(t, r.Rc, units.Bytes(0))
		assert.GreaterOrEqual(t, r.Alpha(), 0.0)
		assert.LessOrEqual(t, r.Alpha(), 1.0)
	}
}
