// SPDX-License-Identifier: GPL-3.0

package workload

import (
	"math"
	"math/rand"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// GenerateRandomPackets builds a synthetic packet stream with Gaussian
// inter-arrival times and sizes. rng is the single explicitly-threaded
// PRNG.
func GenerateRandomPackets(rng *rand.Rand, count int, meanInterarrival, varInterarrival, meanSize, varSize float64) []Packet {
	packets := make([]Packet, count)
	sdInter := math.Sqrt(varInterarrival)
	sdSize := math.Sqrt(varSize)
	var timestamp units.Clock
	for i := 0; i < count; i++ {
		gap := math.Max(1, math.Round(meanInterarrival+sdInter*rng.NormFloat64()))
		size := math.Max(64, math.Round(meanSize+sdSize*rng.NormFloat64()))
		timestamp += units.Clock(gap)
		packets[i] = Packet{ArrivalTick: timestamp, Size: units.Bytes(size), SeqNumber: uint64(i + 1)}
	}
	return packets
}
