// SPDX-License-Identifier: GPL-3.0

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockMod(t *testing.T) {
	assert.Equal(t, Clock(0), Clock(55).Mod(55))
	assert.Equal(t, Clock(10), Clock(65).Mod(55))
}

func TestBitrateString(t *testing.T) {
	assert.Equal(t, "500bps", Bitrate(500).String())
	assert.Equal(t, "1Gbps", Bitrate(1*Gbps).String())
}

func TestBytesString(t *testing.T) {
	assert.Equal(t, "1500", Bytes(1500).String())
}
