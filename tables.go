package jpegquality

import "math"

// referenceLuminanceTable is the standard luminance quantization table from
// ISO/IEC 10918-1 Annex K, the table most encoders scale for quality 50.
// Natural row-major 8x8 order, all values strictly positive.
var referenceLuminanceTable = [64]int{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

const (
	fallbackQuality = 50 // assumed when no usable quantization table exists
	losslessQuality = 98 // assumed for lossless containers (PNG)
)

// QualityFromTable maps a luminance quantization table to a quality score in
// [1,100]. Tables with exactly 64 entries go through the calibration curve;
// any other entry count falls back to a mean-based linear estimate, trading
// precision for robustness against non-standard encoders.
func QualityFromTable(table []int) int {
	if len(table) != len(referenceLuminanceTable) {
		return meanFallbackQuality(table)
	}
	var sum, n float64
	for i, v := range table {
		if referenceLuminanceTable[i] == 0 {
			// Never true for the Annex K table, guards a zero divisor
			// if the reference is ever swapped.
			continue
		}
		sum += float64(v)
		n++
	}
	if n == 0 {
		return fallbackQuality
	}
	return clampQuality(curveQuality(sum / n))
}

// curveQuality approximates the inverse of the IJG quality scaling formula
// with five linear segments. Low mean quantizer values mean little detail was
// discarded (high quality) and vice versa. The breakpoints are empirical
// calibration points, not an analytic inverse.
func curveQuality(avgQ float64) float64 {
	switch {
	case avgQ <= 10:
		return 95 - (avgQ - 1)
	case avgQ <= 20:
		return 90 - (avgQ-10)*1.5
	case avgQ <= 50:
		return 75 - (avgQ - 20)
	case avgQ <= 100:
		return 45 - (avgQ-50)*0.6
	default:
		return 15 - (avgQ-100)*0.1
	}
}

func meanFallbackQuality(table []int) int {
	if len(table) == 0 {
		return fallbackQuality
	}
	sum := 0
	for _, v := range table {
		sum += v
	}
	mean := float64(sum) / float64(len(table))
	return clampQuality(110 - mean/1.5)
}

func clampQuality(q float64) int {
	r := int(math.Round(q))
	if r < 1 {
		return 1
	}
	if r > 100 {
		return 100
	}
	return r
}
