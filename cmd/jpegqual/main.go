package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/vearutop/jpegquality"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "estimate":
		if err := runEstimate(os.Args[2:]); err != nil {
			fail(err)
		}
	case "compress":
		if err := runCompress(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: jpegqual <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  estimate -in input.jpg [-json] [-v]")
	fmt.Fprintln(os.Stderr, "  compress -in input.png -out output.jpg [-q 75] [-maxw 0] [-maxh 0]")
}

var categoryColors = map[jpegquality.Category]*color.Color{
	jpegquality.CategoryHigh:    color.New(color.FgGreen),
	jpegquality.CategoryMedium:  color.New(color.FgYellow),
	jpegquality.CategoryLow:     color.New(color.FgMagenta),
	jpegquality.CategoryVeryLow: color.New(color.FgRed),
}

func runEstimate(args []string) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	asJSON := fs.Bool("json", false, "print result as JSON")
	verbose := fs.Bool("v", false, "log advisory diagnostics to stderr")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	res, err := jpegquality.EstimateFile(*inPath, func(opt *jpegquality.Options) {
		if *verbose {
			opt.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		}
	})
	if err != nil {
		if errors.Is(err, jpegquality.ErrUnreadableImage) {
			// Distinct from a low score: the input could not be parsed at all.
			return fmt.Errorf("%s is not a readable image", *inPath)
		}
		return err
	}
	if *asJSON {
		payload, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(payload))
		return nil
	}
	fmt.Fprintf(os.Stdout, "quality: %d (%s)\n", res.Quality, categoryColors[res.Category].Sprint(res.Category))
	return nil
}

func runCompress(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output JPEG")
	q := fs.Int("q", 75, "target quality")
	maxw := fs.Int("maxw", 0, "bound output width")
	maxh := fs.Int("maxh", 0, "bound output height")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	return jpegquality.CompressFile(*inPath, *outPath, func(opt *jpegquality.CompressOptions) {
		opt.Quality = *q
		opt.MaxWidth = *maxw
		opt.MaxHeight = *maxh
	})
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
