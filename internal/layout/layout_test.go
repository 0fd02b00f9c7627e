package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign8(t *testing.T) {
	assert.Equal(t, 0, Align8(0))
	assert.Equal(t, 8, Align8(1))
	assert.Equal(t, 8, Align8(8))
	assert.Equal(t, 16, Align8(9))
}

func TestAlignDown(t *testing.T) {
	assert.Equal(t, 24, AlignDown(29, 12))
	assert.Equal(t, 24, AlignDown(24, 12))
	assert.Equal(t, 0, AlignDown(11, 12))
}

func TestAlignOffset(t *testing.T) {
	buf := make([]byte, 64)
	off := AlignOffset(buf, 1, 8)
	assert.GreaterOrEqual(t, off, 1)
	assert.Less(t, off, 9)
	// The resulting region must start on the requested boundary.
	region := buf[off:]
	assert.NoError(t, checkAligned(region, 8))
}

func checkAligned(region []byte, align int) error {
	_, err := Overlay[uint64](region, 1)
	return err
}

type slot struct {
	a uint32
	b uint32
}

func TestOverlay_RoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	slots, err := Overlay[slot](buf, 4)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	slots[2] = slot{a: 0xDEADBEEF, b: 7}
	again, err := Overlay[slot](buf, 4)
	require.NoError(t, err)
	assert.Equal(t, slots[2], again[2], "overlays alias the same memory")
}

func TestOverlay_TooSmall(t *testing.T) {
	buf := make([]byte, 8)
	_, err := Overlay[slot](buf, 2)
	assert.ErrorIs(t, err, ErrTooSmall)
}

func TestOverlay_ZeroCount(t *testing.T) {
	slots, err := Overlay[slot](nil, 0)
	assert.NoError(t, err)
	assert.Nil(t, slots)
}

func TestZero(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	Zero(buf, 3)
	assert.Equal(t, []byte{0, 0, 0, 4}, buf)
}
