// SPDX-License-Identifier: GPL-3.0

package scheduler

import (
	"github.com/rdmasim/dcqcnsim/internal/units"
	"github.com/rdmasim/dcqcnsim/internal/workload"
)

// BuildPopulation converts a workload-generated flow population into the
// dense, 1-indexed rate-memory arrays and admission-order FlowID queue the
// Scheduler operates on.
func BuildPopulation(admission, flows []workload.Flow) (rcMemory, initRates []units.Bitrate, admissionIDs []FlowID) {
	var maxID uint64
	for _, f := range flows {
		if f.ID > maxID {
			maxID = f.ID
		}
	}
	rcMemory = make([]units.Bitrate, maxID+1)
	initRates = make([]units.Bitrate, maxID+1)
	for _, f := range flows {
		rcMemory[f.ID] = f.Rate
		initRates[f.ID] = f.Rate
	}
	admissionIDs = make([]FlowID, len(admission))
	for i, f := range admission {
		admissionIDs[i] = FlowID(f.ID)
	}
	return
}
