package jpegquality

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"github.com/vearutop/jpegquality/internal/jpegx"
)

var (
	// ErrUnreadableImage means the input bytes do not parse as any recognized
	// image container. Retrying with the same bytes cannot succeed.
	ErrUnreadableImage = errors.New("unreadable image")

	// ErrInternal reports an unexpected fault inside the estimator,
	// recovered so that it never takes down the host process.
	ErrInternal = errors.New("internal estimation error")
)

// Result is the outcome of a single estimation call.
type Result struct {
	Quality  int      `json:"quality"`
	Category Category `json:"category"`
	Format   string   `json:"format"`
}

// Options controls a single estimation call.
type Options struct {
	// Logger receives advisory events for recoverable fallbacks (missing or
	// non-standard quantization tables). Disabled by default; fallbacks are
	// policy branches, never errors.
	Logger zerolog.Logger
}

func defaultOptions() Options {
	return Options{Logger: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}

// Estimate derives the encoder quality setting of the image in data.
//
// JPEG input is scored from its luminance quantization table. Recognized
// non-JPEG formats carry no table to score and get a fixed policy value:
// 98 for PNG (lossless, no compression artifacts to estimate), 50 otherwise.
// ErrUnreadableImage is returned only when data parses as no recognized
// container at all.
func Estimate(data []byte, optFns ...func(*Options)) (res Result, err error) {
	opt := defaultOptions()
	for _, fn := range optFns {
		fn(&opt)
	}
	defer recoverEstimate(&err)

	format, err := sniffFormat(data)
	if err != nil {
		return Result{}, err
	}
	if format != formatJPEG {
		return formatFallback(format), nil
	}
	tables, err := QuantTables(data)
	if err != nil {
		return Result{}, err
	}
	return resultFromTables(tables, opt.Logger), nil
}

func recoverEstimate(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrInternal, r)
	}
}

func formatFallback(format string) Result {
	q := fallbackQuality
	if format == formatPNG {
		q = losslessQuality
	}
	return Result{Quality: q, Category: Classify(q), Format: format}
}

func resultFromTables(tables map[int][]int, logger zerolog.Logger) Result {
	table, ok := tables[0]
	if !ok {
		if len(tables) == 0 {
			logger.Warn().Msg("no quantization tables in image, using fallback quality")

			return Result{Quality: fallbackQuality, Category: Classify(fallbackQuality), Format: formatJPEG}
		}

		ids := make([]int, 0, len(tables))
		for id := range tables {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		table = tables[ids[0]]
		logger.Warn().Int("table", ids[0]).Msg("luminance quantization table missing, using lowest-index table")
	}
	if len(table) != jpegx.BlockSize {
		logger.Warn().Int("entries", len(table)).Int("expected", jpegx.BlockSize).
			Msg("quantization table size mismatch, using mean-based fallback")
	}

	q := QualityFromTable(table)

	return Result{Quality: q, Category: Classify(q), Format: formatJPEG}
}
