// SPDX-License-Identifier: GPL-3.0

// Package report formats end-of-run summaries for both simulators: a short
// human-readable digest on stdout and a structured JSON dump of the run
// summary, for offline analysis.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/rdmasim/dcqcnsim/internal/scheduler"
	"github.com/rdmasim/dcqcnsim/internal/units"
)

// DCQCNEndState is the subset of RP/NP state a run digest reports, common
// to both the scalar-buffer and packet-queue drivers.
type DCQCNEndState struct {
	Rc           units.Bytes
	Alpha        float64
	InputBuffer  units.Bytes
	OutputBuffer units.Bytes
}

// DCQCNSummary is the JSON-serializable record of one DCQCN run.
type DCQCNSummary struct {
	RunID        string        `json:"run_id"`
	EndOfTime    int           `json:"end_of_time"`
	RcHistory    []units.Bytes `json:"rc_history"`
	AlphaHistory []float64     `json:"alpha_history"`
	CNPCount     int           `json:"cnp_count"`
}

// WriteDCQCNText writes a short human-readable digest of a completed run.
func WriteDCQCNText(w io.Writer, runID string, end DCQCNEndState, rcHistory []units.Bytes) {
	fmt.Fprintf(w, "run %s complete\n", runID)
	fmt.Fprintf(w, "  final Rc:        %s / tick\n", humanize.Bytes(uint64(end.Rc)))
	fmt.Fprintf(w, "  final alpha:     %.4f\n", end.Alpha)
	fmt.Fprintf(w, "  input buffer:    %s\n", humanize.Bytes(uint64(end.InputBuffer)))
	fmt.Fprintf(w, "  output buffer:   %s\n", humanize.Bytes(uint64(end.OutputBuffer)))
	fmt.Fprintf(w, "  rate samples:    %s\n", humanize.Comma(int64(len(rcHistory))))
}

// WriteDCQCNJSON dumps the run summary, including the per-tick Rc and
// alpha histories, as JSON.
func WriteDCQCNJSON(w io.Writer, s DCQCNSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SchedulerSummary is the JSON-serializable record of one scheduler run.
type SchedulerSummary struct {
	RunID          string  `json:"run_id"`
	Ticks          int     `json:"ticks"`
	TotalFlows     int     `json:"total_flows"`
	TotalBytesSent int64   `json:"total_bytes_sent"`
	OffsetClamps   float64 `json:"offset_clamps,omitempty"`
	EmptySlotRatio float64 `json:"empty_slot_ratio"`
	MaxOccupancy   int     `json:"max_occupancy"`
}

// WriteSchedulerText writes a short human-readable digest of a completed
// scheduler run, including the occupancy histogram's two headline quality
// metrics: the empty-slot ratio and the largest observed slot occupancy.
func WriteSchedulerText(w io.Writer, runID string, ticks int, s *scheduler.Scheduler) {
	var total units.Bytes
	for _, b := range s.OutputStats {
		total += b
	}
	emptyRatio, maxOccupancy := s.OccupancyStats()
	fmt.Fprintf(w, "run %s complete\n", runID)
	fmt.Fprintf(w, "  ticks:           %s\n", humanize.Comma(int64(ticks)))
	fmt.Fprintf(w, "  flows tracked:   %s\n", humanize.Comma(int64(len(s.OutputStats)-1)))
	fmt.Fprintf(w, "  total bytes out: %s\n", humanize.Bytes(uint64(total)))
	fmt.Fprintf(w, "  empty slot ratio: %.4f\n", emptyRatio)
	fmt.Fprintf(w, "  max occupancy:    %d\n", maxOccupancy)
}

// WriteSchedulerJSON dumps the scheduler run summary as JSON.
func WriteSchedulerJSON(w io.Writer, s SchedulerSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
