package jpegquality

import (
	"bytes"
	"fmt"
	"image"

	// Registered for format sniffing of non-JPEG input.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/vearutop/jpegquality/internal/jpegx"
)

const (
	formatJPEG = "jpeg"
	formatPNG  = "png"
)

// sniffFormat identifies the container format of data. JPEG is matched by its
// SOI signature so that structurally damaged JPEGs still take the JPEG path;
// everything else goes through the registered image decoders.
func sniffFormat(data []byte) (string, error) {
	if len(data) >= 2 && data[0] == jpegx.MarkerStart && data[1] == jpegx.MarkerSOI {
		return formatJPEG, nil
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	return format, nil
}
