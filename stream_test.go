package jpegquality_test

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vearutop/jpegquality"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestEstimateFile_jpeg(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradientImage(48, 48), &jpeg.Options{Quality: 70}))
	path := writeTemp(t, "sample.jpg", buf.Bytes())

	fromFile, err := jpegquality.EstimateFile(path)
	require.NoError(t, err)

	fromBytes, err := jpegquality.Estimate(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, fromBytes, fromFile)
}

func TestEstimateFile_png(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradientImage(12, 12)))
	path := writeTemp(t, "sample.png", buf.Bytes())

	res, err := jpegquality.EstimateFile(path)
	require.NoError(t, err)
	assert.Equal(t, 98, res.Quality)
	assert.Equal(t, "png", res.Format)
}

func TestEstimateFile_missing(t *testing.T) {
	_, err := jpegquality.EstimateFile(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, jpegquality.ErrUnreadableImage)
}

func TestEstimateReader_stopsAtScan(t *testing.T) {
	// Everything after SOS is scan noise the reader must never reach.
	data := syntheticJPEG(dqtSegment(0, uniformTable(64, 4)))
	data = data[:len(data)-2] // drop EOI
	data = append(data, 0xff, 0xda, 0x00, 0x02)
	data = append(data, bytes.Repeat([]byte{0xa5}, 1<<16)...)

	res, err := jpegquality.EstimateReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 92, res.Quality)
}

func TestEstimateReader_truncatedAfterTables(t *testing.T) {
	// A stream cut off right after the header segments still scores the
	// tables read so far.
	data := syntheticJPEG(dqtSegment(0, annexKLuminance))
	data = data[:len(data)-2]

	res, err := jpegquality.EstimateReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Quality)
}

func TestEstimateReader_unreadable(t *testing.T) {
	_, err := jpegquality.EstimateReader(bytes.NewReader([]byte("plain text")))
	assert.ErrorIs(t, err, jpegquality.ErrUnreadableImage)

	_, err = jpegquality.EstimateReader(bytes.NewReader(nil))
	assert.ErrorIs(t, err, jpegquality.ErrUnreadableImage)
}
