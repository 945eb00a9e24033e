// SPDX-License-Identifier: GPL-3.0

package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// FlowGroup is a group_id/rate pair loaded from the flow-group CSV; flows
// within a group all start at the group's rate.
type FlowGroup struct {
	GroupID uint64
	Rate    units.Bitrate
}

// Flow is a scheduler-population entry: identity plus current target
// rate, grouped for rate-distribution generation. Once admitted to the
// scheduler, only ID and Rate matter.
type Flow struct {
	ID      uint64
	Rate    units.Bitrate
	GroupID uint64
}

// LoadFlowGroups reads the flow-group CSV: header "group_id,rate", rows
// (positive integer group id, floating rate bps).
func LoadFlowGroups(r io.Reader, filename string) ([]FlowGroup, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", filename, err)
	}
	if len(header) != 2 || header[0] != "group_id" || header[1] != "rate" {
		return nil, fmt.Errorf("%s:1: expected header \"group_id,rate\", got %v", filename, header)
	}

	var groups []FlowGroup
	line := 1
	for {
		line++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%s:%d: invalid group_id %q", filename, line, rec[0])
		}
		rate, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid rate %q: %w", filename, line, rec[1], err)
		}
		groups = append(groups, FlowGroup{GroupID: id, Rate: units.Bitrate(rate)})
	}
	return groups, nil
}

// GenerateFlowGroups draws num group rates from a Gaussian(mean, sqrt(var))
// clipped at minRate. rng is the single explicitly-threaded PRNG.
func GenerateFlowGroups(rng *rand.Rand, num int, mean, variance float64, minRate units.Bitrate) []FlowGroup {
	groups := make([]FlowGroup, num)
	stddev := math.Sqrt(variance)
	for i := 0; i < num; i++ {
		rate := mean + stddev*rng.NormFloat64()
		if rate < float64(minRate) {
			rate = float64(minRate)
		}
		groups[i] = FlowGroup{GroupID: uint64(i + 1), Rate: units.Bitrate(rate)}
	}
	return groups
}

// WriteFlowGroups writes groups to the flow-group CSV format.
func WriteFlowGroups(w io.Writer, groups []FlowGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"group_id", "rate"}); err != nil {
		return err
	}
	for _, g := range groups {
		if err := cw.Write([]string{
			strconv.FormatUint(g.GroupID, 10),
			strconv.FormatFloat(float64(g.Rate), 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenerateFlows builds the dense flow population from flow groups and
// interleaves initial admission round-robin across groups: for i in
// [0, flowsPerGroup), emit one flow from each group in group-id order.
// Flow IDs are assigned contiguously from 1.
func GenerateFlows(groups []FlowGroup, flowsPerGroup int) (admission []Flow, flows []Flow) {
	byGroup := make([][]Flow, len(groups))
	nextID := uint64(1)
	for gi, g := range groups {
		for j := 0; j < flowsPerGroup; j++ {
			f := Flow{ID: nextID, Rate: g.Rate, GroupID: g.GroupID}
			byGroup[gi] = append(byGroup[gi], f)
			flows = append(flows, f)
			nextID++
		}
	}
	for j := 0; j < flowsPerGroup; j++ {
		for gi := range groups {
			admission = append(admission, byGroup[gi][j])
		}
	}
	return
}
