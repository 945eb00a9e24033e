// SPDX-License-Identifier: GPL-3.0

package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// LoadPackets reads the packet-CSV workload file: header
// "timestamp,size,seq_number", rows ascending by timestamp.
func LoadPackets(r io.Reader, filename string) ([]Packet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", filename, err)
	}
	if len(header) != 3 || header[0] != "timestamp" || header[1] != "size" || header[2] != "seq_number" {
		return nil, fmt.Errorf("%s:1: expected header \"timestamp,size,seq_number\", got %v", filename, header)
	}

	var packets []Packet
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
		arrival, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid timestamp %q: %w", filename, line, rec[0], err)
		}
		size, err := strconv.ParseUint(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid size %q: %w", filename, line, rec[1], err)
		}
		seq, err := strconv.ParseUint(rec[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid seq_number %q: %w", filename, line, rec[2], err)
		}
		p := Packet{ArrivalTick: units.Clock(arrival), Size: units.Bytes(size), SeqNumber: seq}
		if len(packets) > 0 && p.ArrivalTick < packets[len(packets)-1].ArrivalTick {
			return nil, fmt.Errorf("%s:%d: timestamp %d is not ascending", filename, line, arrival)
		}
		packets = append(packets, p)
	}
	return packets, nil
}
