// SPDX-License-Identifier: GPL-3.0

package workload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// LoadRateChangePoints reads the application-rate timestamp file: one
// "<tick> <rate>" record per line, rate as an ascii decimal integer,
// ascending by tick, blank lines ignored, first record's tick required to
// be 0.
func LoadRateChangePoints(r io.Reader, filename string) ([]RateChangePoint, error) {
	scanner := bufio.NewScanner(r)
	var points []RateChangePoint
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: expected \"<tick> <rate>\", got %q", filename, lineNo, line)
		}
		tick, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid tick %q: %w", filename, lineNo, fields[0], err)
		}
		rate, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid rate %q: %w", filename, lineNo, fields[1], err)
		}
		p := RateChangePoint{Tick: units.Clock(tick), Rate: units.Bytes(rate)}
		if len(points) > 0 && p.Tick <= points[len(points)-1].Tick {
			return nil, fmt.Errorf("%s:%d: tick %d is not strictly ascending", filename, lineNo, tick)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: no records", filename)
	}
	if points[0].Tick != 0 {
		return nil, fmt.Errorf("%s:1: first record's tick must be 0, got %d", filename, points[0].Tick)
	}
	return points, nil
}

// RateTracePoint is a target-rate sample for the scheduler's single-flow
// rate-enforcement model: the flow's target rate holds at Rate (bits/sec)
// from Tick until the next RateTracePoint.
type RateTracePoint struct {
	Tick units.Clock
	Rate float64
}

// LoadRateTrace reads the scheduler-variant rate-trace file: one
// "<tick> <rate>" record per line, rate as a float, ascending by tick,
// blank lines ignored.
func LoadRateTrace(r io.Reader, filename string) ([]RateTracePoint, error) {
	scanner := bufio.NewScanner(r)
	var points []RateTracePoint
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: expected \"<tick> <rate>\", got %q", filename, lineNo, line)
		}
		tick, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid tick %q: %w", filename, lineNo, fields[0], err)
		}
		rate, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid rate %q: %w", filename, lineNo, fields[1], err)
		}
		p := RateTracePoint{Tick: units.Clock(tick), Rate: rate}
		if len(points) > 0 && p.Tick <= points[len(points)-1].Tick {
			return nil, fmt.Errorf("%s:%d: tick %d is not strictly ascending", filename, lineNo, tick)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: no records", filename)
	}
	return points, nil
}

// RateAtTrace returns the target rate in effect at tick t, given points
// sorted ascending by Tick.
func RateAtTrace(points []RateTracePoint, t units.Clock) float64 {
	rate := 0.0
	for _, p := range points {
		if p.Tick > t {
			break
		}
		rate = p.Rate
	}
	return rate
}
