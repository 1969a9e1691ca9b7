package jpegquality

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	// Registered so re-encoding accepts JPEG input as well.
	_ "image/jpeg"

	"github.com/gen2brain/jpegli"
	"github.com/nfnt/resize"
)

const defaultCompressQuality = 75

// CompressOptions controls Compress.
type CompressOptions struct {
	Quality           int // JPEG quality 1-100, default 75
	MaxWidth          int // bound output width, 0 keeps original
	MaxHeight         int // bound output height, 0 keeps original
	ChromaSubsampling image.YCbCrSubsampleRatio
}

// Compress re-encodes an image as JPEG at a target quality, optionally
// bounding its dimensions with an aspect-preserving downscale. The input may
// be any format Estimate recognizes.
func Compress(data []byte, optFns ...func(*CompressOptions)) ([]byte, error) {
	opt := CompressOptions{
		Quality:           defaultCompressQuality,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	}
	for _, fn := range optFns {
		fn(&opt)
	}
	if opt.Quality < 1 || opt.Quality > 100 {
		return nil, fmt.Errorf("invalid quality %d", opt.Quality)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if opt.MaxWidth > 0 || opt.MaxHeight > 0 {
		maxW, maxH := uint(math.MaxUint32), uint(math.MaxUint32)
		if opt.MaxWidth > 0 {
			maxW = uint(opt.MaxWidth)
		}
		if opt.MaxHeight > 0 {
			maxH = uint(opt.MaxHeight)
		}
		img = resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
	}
	var buf bytes.Buffer
	if err := jpegli.Encode(&buf, img, &jpegli.EncodingOptions{
		Quality:           opt.Quality,
		ChromaSubsampling: opt.ChromaSubsampling,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CompressFile reads inPath, re-encodes it and writes the JPEG to outPath.
func CompressFile(inPath, outPath string, optFns ...func(*CompressOptions)) error {
	data, err := os.ReadFile(filepath.Clean(inPath))
	if err != nil {
		return err
	}
	out, err := Compress(data, optFns...)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Clean(outPath), out, 0o644)
}
