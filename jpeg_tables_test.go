package jpegquality_test

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vearutop/jpegquality"
)

func TestQuantTables_naturalOrder(t *testing.T) {
	data := syntheticJPEG(dqtSegment(0, annexKLuminance))

	tables, err := jpegquality.QuantTables(data)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, annexKLuminance, tables[0])
}

func TestQuantTables_multipleAndWide(t *testing.T) {
	luma := uniformTable(64, 4)
	chroma := uniformTable(64, 9)
	wide := make([]int, 64)
	for i := range wide {
		wide[i] = 300 + i // does not fit in 8 bits
	}
	data := syntheticJPEG(
		dqtSegment(0, luma),
		dqtSegment(1, chroma),
		dqtSegment16(2, wide),
	)

	tables, err := jpegquality.QuantTables(data)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, luma, tables[0])
	assert.Equal(t, chroma, tables[1])
	assert.Equal(t, wide, tables[2])
}

func TestQuantTables_combinedSegment(t *testing.T) {
	// One DQT segment carrying two sub-tables back to back.
	seg := dqtSegment(0, uniformTable(64, 8))
	sub := dqtSegment(1, uniformTable(64, 16))[4:] // strip marker and length
	seg = append(seg, sub...)
	seg[2] = 0
	seg[3] = byte(len(seg) - 2) // fix segment length

	tables, err := jpegquality.QuantTables(syntheticJPEG(seg))
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, uniformTable(64, 8), tables[0])
	assert.Equal(t, uniformTable(64, 16), tables[1])
}

func TestQuantTables_stdlibEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradientImage(32, 32), &jpeg.Options{Quality: 50}))

	tables, err := jpegquality.QuantTables(buf.Bytes())
	require.NoError(t, err)
	require.Contains(t, tables, 0)
	require.Len(t, tables[0], 64)
	for i, v := range tables[0] {
		assert.Positive(t, v, "entry %d", i)
	}
}

func TestQuantTables_malformed(t *testing.T) {
	_, err := jpegquality.QuantTables([]byte{0x89, 0x50, 0x4e, 0x47})
	assert.ErrorIs(t, err, jpegquality.ErrUnreadableImage)

	// DQT segment length pointing past the end of the buffer.
	_, err = jpegquality.QuantTables([]byte{0xff, 0xd8, 0xff, 0xdb, 0xff, 0xff, 0x00})
	assert.ErrorIs(t, err, jpegquality.ErrUnreadableImage)

	// Truncated sub-table payload.
	_, err = jpegquality.QuantTables([]byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x04, 0x00, 0x01})
	assert.ErrorIs(t, err, jpegquality.ErrUnreadableImage)
}
