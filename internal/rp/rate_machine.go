// SPDX-License-Identifier: GPL-3.0

package rp

import "github.com/rdmasim/dcqcnsim/internal/units"

// rateMachine is the rate-state-machine core shared by the scalar-buffer
// ReactionPoint and the packet-queue PacketReactionPoint.
type rateMachine struct {
	cfg Config

	Rc units.Bytes
	Rt units.Bytes

	alpha float64

	frTimer    units.Clock
	fCnt       int
	alphaTimer units.Clock

	RateHistory  []units.Bytes
	AlphaHistory []float64
}

func newRateMachine(cfg Config) rateMachine {
	return rateMachine{
		cfg:        cfg,
		Rc:         cfg.RCInit,
		Rt:         cfg.RCInit,
		alpha:      cfg.AlphaInit,
		frTimer:    1,
		fCnt:       1,
		alphaTimer: 1,
	}
}

// Alpha returns the current smoothed congestion estimate.
func (m *rateMachine) Alpha() float64 { return m.alpha }

// update applies the per-tick rate update. The CNP branch always runs
// first and resets both timers to 1, so same-tick timer expiry is
// suppressed the tick a CNP lands.
func (m *rateMachine) update(eventFlag bool) {
	if eventFlag {
		m.alpha = (1-m.cfg.G)*m.alpha + m.cfg.G
		m.Rt = m.Rc
		m.Rc = m.Rc * units.Bytes(1-m.alpha/2)
		m.frTimer = 1
		m.fCnt = 1
		m.alphaTimer = 1
	}

	if m.alphaTimer.Mod(m.cfg.K) == 0 {
		m.alpha = (1 - m.cfg.G) * m.alpha
	}

	if m.frTimer.Mod(m.cfg.K) == 0 {
		if m.fCnt <= m.cfg.F {
			m.Rc = (m.Rt + m.Rc) / 2
			m.fCnt++
		} else {
			m.Rt += m.cfg.RAI
			m.Rc = (m.Rt + m.Rc) / 2
		}
	}

	m.frTimer++
	m.alphaTimer++

	if m.Rc < 0 {
		m.Rc = 0
	}

	m.RateHistory = append(m.RateHistory, m.Rc)
	m.AlphaHistory = append(m.AlphaHistory, m.alpha)
}
