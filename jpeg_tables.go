package jpegquality

import (
	"encoding/binary"
	"fmt"

	"github.com/vearutop/jpegquality/internal/jpegx"
)

// QuantTables extracts the quantization tables from a JPEG byte buffer,
// keyed by table id (0 is luminance by encoder convention). Entries are
// returned in natural row-major order. Both 8-bit and 16-bit precision
// tables are read; scanning stops at SOS, pixel data is never touched.
func QuantTables(data []byte) (map[int][]int, error) {
	if len(data) < 4 || data[0] != jpegx.MarkerStart || data[1] != jpegx.MarkerSOI {
		return nil, fmt.Errorf("%w: missing SOI marker", ErrUnreadableImage)
	}
	tables := map[int][]int{}
	pos := 2
	for pos+1 < len(data) {
		if data[pos] != jpegx.MarkerStart {
			pos++
			continue
		}
		for pos < len(data) && data[pos] == jpegx.MarkerStart {
			pos++
		}
		if pos >= len(data) {
			break
		}
		marker := data[pos]
		pos++
		if marker == jpegx.MarkerSOS || marker == jpegx.MarkerEOI {
			break
		}
		if marker >= jpegx.MarkerRST0 && marker <= jpegx.MarkerRST7 {
			continue
		}
		if pos+1 >= len(data) {
			return nil, fmt.Errorf("%w: truncated marker segment", ErrUnreadableImage)
		}
		segLen := int(binary.BigEndian.Uint16(data[pos:]))
		if segLen < 2 || pos+segLen > len(data) {
			return nil, fmt.Errorf("%w: invalid segment length", ErrUnreadableImage)
		}
		if marker == jpegx.MarkerDQT {
			if err := parseDQT(data[pos+2:pos+segLen], tables); err != nil {
				return nil, err
			}
		}
		pos += segLen
	}
	return tables, nil
}

// parseDQT walks the sub-tables of one DQT segment. Values arrive in zig-zag
// order and are stored in natural order via jpegx.Unzig.
func parseDQT(seg []byte, tables map[int][]int) error {
	pos := 0
	for pos < len(seg) {
		pq := seg[pos] >> 4
		tq := int(seg[pos] & 0x0f)
		pos++
		if pq > 1 {
			return fmt.Errorf("%w: invalid quantization table precision %d", ErrUnreadableImage, pq)
		}
		width := 1
		if pq == 1 {
			width = 2
		}
		if pos+jpegx.BlockSize*width > len(seg) {
			return fmt.Errorf("%w: truncated quantization table", ErrUnreadableImage)
		}
		table := make([]int, jpegx.BlockSize)
		for i := 0; i < jpegx.BlockSize; i++ {
			v := int(seg[pos+i])
			if pq == 1 {
				v = int(binary.BigEndian.Uint16(seg[pos+2*i:]))
			}
			table[jpegx.Unzig[i]] = v
		}
		tables[tq] = table
		pos += jpegx.BlockSize * width
	}
	return nil
}
