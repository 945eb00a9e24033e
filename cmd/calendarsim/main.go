// SPDX-License-Identifier: GPL-3.0

// Command calendarsim drives the calendar-queue packet scheduler across a
// population of flows grouped by initial rate, optionally exposing a
// prometheus scrape endpoint for the run's duration.
package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rdmasim/dcqcnsim/internal/config"
	"github.com/rdmasim/dcqcnsim/internal/report"
	"github.com/rdmasim/dcqcnsim/internal/scheduler"
	"github.com/rdmasim/dcqcnsim/internal/telemetry"
	"github.com/rdmasim/dcqcnsim/internal/units"
	"github.com/rdmasim/dcqcnsim/internal/workload"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath     string
		flowGroupsFile string
		jsonOut        string
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "calendarsim",
		Short: "Run the calendar-queue packet scheduler over a flow population",
		Long: `calendarsim paces per-flow transmission opportunities for a large flow
population through a circular time wheel, applying the per-flow active
increase / congestion decrease rate update on every send.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(cmd, configPath, flowGroupsFile, jsonOut, metricsAddr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "TOML run configuration file (optional; defaults used otherwise)")
	flags.StringVar(&flowGroupsFile, "flow-groups", "", "flow-group CSV (group_id,rate); generated if omitted")
	flags.StringVar(&jsonOut, "json-out", "", "write a JSON run summary to this path")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address for the run's duration (e.g. :9090)")

	return cmd
}

func runScheduler(cmd *cobra.Command, configPath, flowGroupsFile, jsonOut, metricsAddr string) error {
	cfg := config.DefaultScheduler()
	if configPath != "" {
		var err error
		cfg, err = config.LoadScheduler(configPath)
		if err != nil {
			return err
		}
	}
	if flowGroupsFile != "" {
		cfg.FlowGroupsFile = flowGroupsFile
	}

	log, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	metrics := telemetry.NewSchedulerMetrics(cfg.NumFlowsPerGroup * cfg.NumGroups)
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler()}
		go func() {
			_ = srv.ListenAndServe()
		}()
		defer srv.Close()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var groups []workload.FlowGroup
	if cfg.FlowGroupsFile != "" {
		f, err := os.Open(cfg.FlowGroupsFile)
		if err != nil {
			return err
		}
		defer f.Close()
		groups, err = workload.LoadFlowGroups(f, cfg.FlowGroupsFile)
		if err != nil {
			return err
		}
	} else {
		groups = workload.GenerateFlowGroups(rng, cfg.NumGroups, float64(cfg.MinRate)*2, float64(cfg.MinRate)*float64(cfg.MinRate), cfg.MinRate)
	}

	admissionFlows, allFlows := workload.GenerateFlows(groups, cfg.NumFlowsPerGroup)
	rcMemory, initRates, admission := scheduler.BuildPopulation(admissionFlows, allFlows)

	s := scheduler.New(cfg.Config, rcMemory, initRates, admission, rng, metrics, log)

	runID := uuid.NewString()
	progressEvery := cfg.Ticks / 100
	for tick := 0; tick < cfg.Ticks; tick++ {
		if err := s.Step(units.Clock(tick) * cfg.CalendarInterval); err != nil {
			return fmt.Errorf("run %s: %w", runID, err)
		}
		if progressEvery > 0 && tick%progressEvery == 0 {
			log.Tickf(units.Clock(tick), "scheduler", "run %s: %d%% complete", runID, tick/progressEvery)
		}
	}

	report.WriteSchedulerText(cmd.OutOrStdout(), runID, cfg.Ticks, s)

	if jsonOut != "" {
		f, err := os.Create(jsonOut)
		if err != nil {
			return err
		}
		defer f.Close()

		var total int64
		for _, b := range s.OutputStats {
			total += int64(b)
		}
		emptyRatio, maxOccupancy := s.OccupancyStats()
		summary := report.SchedulerSummary{
			RunID:          runID,
			Ticks:          cfg.Ticks,
			TotalFlows:     len(allFlows),
			TotalBytesSent: total,
			EmptySlotRatio: emptyRatio,
			MaxOccupancy:   maxOccupancy,
		}
		if err := report.WriteSchedulerJSON(f, summary); err != nil {
			return err
		}
	}
	return nil
}
