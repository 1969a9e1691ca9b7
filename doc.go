// Package jpegquality estimates the encoder quality setting of a JPEG image
// from its embedded luminance quantization table.
//
// The estimate approximately reverses the libjpeg quality scaling: the mean of
// the extracted luminance table is mapped through a piecewise-linear curve
// calibrated against the standard Annex K reference table. It is a
// deterministic heuristic over container metadata; no pixel data is decoded
// for estimation and no perceptual model is involved.
package jpegquality
