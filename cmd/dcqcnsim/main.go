// SPDX-License-Identifier: GPL-3.0

// Command dcqcnsim drives the scalar- or packet-input DCQCN Reaction
// Point / Notification Point pipeline for a single flow, optionally
// exposing a prometheus scrape endpoint for the run's duration.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rdmasim/dcqcnsim/internal/config"
	"github.com/rdmasim/dcqcnsim/internal/dcqcn"
	"github.com/rdmasim/dcqcnsim/internal/report"
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
		configPath  string
		rateFile    string
		packetCSV   string
		jsonOut     string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "dcqcnsim",
		Short: "Run the DCQCN Reaction Point / Notification Point pipeline",
		Long: `dcqcnsim simulates the DCQCN congestion control loop for a single flow:
a Reaction Point that owns the rate state machine, and a Notification Point
that detects congestion and delivers rate-limited CNPs back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDCQCN(cmd, configPath, rateFile, packetCSV, jsonOut, metricsAddr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "TOML run configuration file (optional; defaults used otherwise)")
	flags.StringVar(&rateFile, "rate-file", "", "application rate-change-point file (scalar-input mode)")
	flags.StringVar(&packetCSV, "packet-csv", "", "packet arrival CSV (packet-input mode; takes precedence over --rate-file)")
	flags.StringVar(&jsonOut, "json-out", "", "write a JSON run summary to this path")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address for the run's duration (e.g. :9090)")

	return cmd
}

func runDCQCN(cmd *cobra.Command, configPath, rateFile, packetCSV, jsonOut, metricsAddr string) error {
	cfg := config.DefaultDCQCN()
	if configPath != "" {
		var err error
		cfg, err = config.LoadDCQCN(configPath)
		if err != nil {
			return err
		}
	}
	if rateFile != "" {
		cfg.RateFile = rateFile
	}
	if packetCSV != "" {
		cfg.PacketCSV = packetCSV
	}

	log, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	metrics := telemetry.NewDCQCNMetrics()
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler()}
		go func() {
			_ = srv.ListenAndServe()
		}()
		defer srv.Close()
	}

	runID := uuid.NewString()
	driverCfg := dcqcn.Config{RP: cfg.RP, NP: cfg.NP, EndOfTime: units.Clock(cfg.EndOfTime)}

	var rcHistory []units.Bytes
	var alphaHistory []float64
	var cnpCount int
	if cfg.PacketCSV != "" {
		f, err := os.Open(cfg.PacketCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		packets, err := workload.LoadPackets(f, cfg.PacketCSV)
		if err != nil {
			return err
		}
		d := dcqcn.NewPacketDriver(driverCfg, metrics, log)
		d.Run(packets)
		rcHistory = d.RP.RateHistory
		alphaHistory = d.RP.AlphaHistory
		cnpCount = len(d.NP.CNPEvents)
		end := report.DCQCNEndState{Rc: d.RP.Rc, Alpha: d.RP.Alpha(), InputBuffer: d.RP.InputBufferBytes(), OutputBuffer: d.NP.OutputBuffer}
		report.WriteDCQCNText(cmd.OutOrStdout(), runID, end, rcHistory)
	} else {
		var points []workload.RateChangePoint
		if cfg.RateFile != "" {
			f, err := os.Open(cfg.RateFile)
			if err != nil {
				return err
			}
			defer f.Close()
			points, err = workload.LoadRateChangePoints(f, cfg.RateFile)
			if err != nil {
				return err
			}
		} else {
			points = []workload.RateChangePoint{{Tick: 0, Rate: cfg.RP.RCInit}}
		}

		d := dcqcn.New(driverCfg, metrics, log)
		d.Run(points)
		rcHistory = d.RP.RateHistory
		alphaHistory = d.RP.AlphaHistory
		cnpCount = len(d.NP.CNPEvents)
		end := report.DCQCNEndState{Rc: d.RP.Rc, Alpha: d.RP.Alpha(), InputBuffer: d.RP.InputBuffer, OutputBuffer: d.NP.OutputBuffer}
		report.WriteDCQCNText(cmd.OutOrStdout(), runID, end, rcHistory)
	}

	if jsonOut != "" {
		f, err := os.Create(jsonOut)
		if err != nil {
			return err
		}
		defer f.Close()
		summary := report.DCQCNSummary{
			RunID:        runID,
			EndOfTime:    cfg.EndOfTime,
			RcHistory:    rcHistory,
			AlphaHistory: alphaHistory,
			CNPCount:     cnpCount,
		}
		if err := report.WriteDCQCNJSON(f, summary); err != nil {
			return err
		}
	}
	return nil
}
