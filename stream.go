package jpegquality

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/vearutop/jpegquality/internal/jpegx"
)

// EstimateFile estimates quality for the image at path. JPEG input is
// streamed and reading stops at the start-of-scan marker, so pixel data of
// large files is never loaded.
func EstimateFile(path string, optFns ...func(*Options)) (Result, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	return EstimateReader(f, optFns...)
}

// EstimateReader is the streaming form of Estimate.
func EstimateReader(r io.Reader, optFns ...func(*Options)) (res Result, err error) {
	opt := defaultOptions()
	for _, fn := range optFns {
		fn(&opt)
	}
	defer recoverEstimate(&err)

	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if head[0] != jpegx.MarkerStart || head[1] != jpegx.MarkerSOI {
		_, format, err := image.DecodeConfig(br)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
		}
		return formatFallback(format), nil
	}
	tables, err := quantTablesFromReader(br)
	if err != nil {
		return Result{}, err
	}
	return resultFromTables(tables, opt.Logger), nil
}

// quantTablesFromReader walks marker segments up to SOS, collecting DQT
// payloads. A stream truncated after the header segments still yields the
// tables read so far.
func quantTablesFromReader(br *bufio.Reader) (map[int][]int, error) {
	if _, err := br.Discard(2); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	tables := map[int][]int{}
	for {
		marker, err := readMarker(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tables, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
		}
		switch {
		case marker == jpegx.MarkerSOS || marker == jpegx.MarkerEOI:
			return tables, nil
		case marker >= jpegx.MarkerRST0 && marker <= jpegx.MarkerRST7:
			continue
		case marker == jpegx.MarkerDQT:
			seg, err := readSegment(br)
			if err != nil {
				return nil, err
			}
			if err := parseDQT(seg, tables); err != nil {
				return nil, err
			}
		default:
			if err := discardSegment(br); err != nil {
				return nil, err
			}
		}
	}
}

func readMarker(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != jpegx.MarkerStart {
			continue
		}
		for {
			m, err := br.ReadByte()
			if err != nil {
				return 0, err
			}
			if m != jpegx.MarkerStart {
				return m, nil
			}
		}
	}
}

func readSegment(br *bufio.Reader) ([]byte, error) {
	length, err := readU16(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if length < 2 {
		return nil, fmt.Errorf("%w: invalid segment length", ErrUnreadableImage)
	}
	seg := make([]byte, length-2)
	if _, err := io.ReadFull(br, seg); err != nil {
		return nil, fmt.Errorf("%w: truncated segment", ErrUnreadableImage)
	}
	return seg, nil
}

func discardSegment(br *bufio.Reader) error {
	length, err := readU16(br)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if length < 2 {
		return fmt.Errorf("%w: invalid segment length", ErrUnreadableImage)
	}
	if _, err := io.CopyN(io.Discard, br, int64(length-2)); err != nil {
		return fmt.Errorf("%w: truncated segment", ErrUnreadableImage)
	}
	return nil
}

func readU16(br *bufio.Reader) (uint16, error) {
	hi, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
