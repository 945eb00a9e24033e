// SPDX-License-Identifier: GPL-3.0

package units

import (
	"strconv"
	"strings"
)

// Bitrate is a rate in bits per second, used throughout the calendar
// scheduler (flow rates, congestion thresholds, MIN_RATE).
type Bitrate float64

const (
	Bps  Bitrate = 1
	Kbps         = 1000 * Bps
	Mbps         = 1000 * Kbps
	Gbps         = 1000 * Mbps
)

// Bps returns b in bits per second.
func (b Bitrate) Bps() float64 { return float64(b) }

// Mbps returns b in megabits per second.
func (b Bitrate) Mbps() float64 { return float64(b) / float64(Mbps) }

// Gbps returns b in gigabits per second.
func (b Bitrate) Gbps() float64 { return float64(b) / float64(Gbps) }

func (b Bitrate) String() string {
	switch {
	case b < 1*Kbps:
		return trimFloat(float64(b), 0) + "bps"
	case b < 1*Mbps:
		return trimFloat(b.Bps()/1000, 3) + "Kbps"
	case b < 1*Gbps:
		return trimFloat(b.Mbps(), 3) + "Mbps"
	default:
		return trimFloat(b.Gbps(), 3) + "Gbps"
	}
}

func trimFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if prec > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
