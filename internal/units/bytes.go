// SPDX-License-Identifier: GPL-3.0

package units

import "strconv"

// Bytes is a quantity of bytes. Buffers, packet sizes and byte-denominated
// rates (bytes/tick) all use this type.
type Bytes float64

const (
	Byte     Bytes = 1
	Kilobyte       = 1000 * Byte
	Megabyte       = 1000 * Kilobyte
	Gigabyte       = 1000 * Megabyte
)

// Kilobytes returns b in kilobytes.
func (b Bytes) Kilobytes() float64 { return float64(b) / float64(Kilobyte) }

// Megabytes returns b in megabytes.
func (b Bytes) Megabytes() float64 { return float64(b) / float64(Megabyte) }

func (b Bytes) String() string {
	return strconv.FormatFloat(float64(b), 'f', -1, 64)
}
