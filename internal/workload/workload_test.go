// SPDX-License-Identifier: GPL-3.0

package workload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

func TestLoadRateChangePoints(t *testing.T) {
	points, err := LoadRateChangePoints(strings.NewReader("0 50\n\n500 300\n1500 50\n"), "test.txt")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, units.Clock(500), points[1].Tick)
	assert.Equal(t, units.Bytes(300), points[1].Rate)
}

func TestLoadRateChangePointsRejectsNonZeroFirstTick(t *testing.T) {
	_, err := LoadRateChangePoints(strings.NewReader("5 50\n"), "test.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.txt:1")
}

func TestLoadRateChangePointsRejectsNonAscending(t *testing.T) {
	_, err := LoadRateChangePoints(strings.NewReader("0 50\n0 60\n"), "test.txt")
	require.Error(t, err)
}

func TestRateAt(t *testing.T) {
	points := []RateChangePoint{{0, 50}, {500, 300}, {1500, 50}}
	assert.Equal(t, units.Bytes(50), RateAt(points, 0))
	assert.Equal(t, units.Bytes(50), RateAt(points, 499))
	assert.Equal(t, units.Bytes(300), RateAt(points, 500))
	assert.Equal(t, units.Bytes(50), RateAt(points, 2000))
}

func TestLoadRateTrace(t *testing.T) {
	points, err := LoadRateTrace(strings.NewReader("0 1000000000.5\n\n12000 950000000.25\n"), "trace.txt")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, units.Clock(12000), points[1].Tick)
	assert.InDelta(t, 950000000.25, points[1].Rate, 1e-6)
}

func TestLoadRateTraceRejectsNonAscending(t *testing.T) {
	_, err := LoadRateTrace(strings.NewReader("0 100.0\n0 200.0\n"), "trace.txt")
	require.Error(t, err)
}

func TestRateAtTrace(t *testing.T) {
	points := []RateTracePoint{{Tick: 0, Rate: 100.5}, {Tick: 12000, Rate: 95.25}}
	assert.InDelta(t, 100.5, RateAtTrace(points, 0), 1e-9)
	assert.InDelta(t, 100.5, RateAtTrace(points, 11999), 1e-9)
	assert.InDelta(t, 95.25, RateAtTrace(points, 12000), 1e-9)
}

func TestLoadPackets(t *testing.T) {
	csv := "timestamp,size,seq_number\n0,1500,1\n1000,1400,2\n"
	packets, err := LoadPackets(strings.NewReader(csv), "packets.csv")
	require.NoError(t, err)
	require.Len(t, packets, 2)
	assert.Equal(t, units.Clock(1000), packets[1].ArrivalTick)
	assert.Equal(t, units.Bytes(1400), packets[1].Size)
}

func TestLoadFlowGroups(t *testing.T) {
	csv := "group_id,rate\n1,320000\n2,450000.5\n"
	groups, err := LoadFlowGroups(strings.NewReader(csv), "groups.csv")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, units.Bitrate(450000.5), groups[1].Rate)
}

func TestGenerateFlowsRoundRobinOrder(t *testing.T) {
	groups := []FlowGroup{{GroupID: 1, Rate: 100}, {GroupID: 2, Rate: 200}, {GroupID: 3, Rate: 300}}
	admission, flows := GenerateFlows(groups, 2)

	require.Len(t, flows, 6)
	require.Len(t, admission, 6)
	// round robin: group1[0], group2[0], group3[0], group1[1], group2[1], group3[1]
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{admission[0].GroupID, admission[1].GroupID, admission[2].GroupID})
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{admission[3].GroupID, admission[4].GroupID, admission[5].GroupID})
}
