// lsbsteg hides a file inside the low bits of an image and recovers it.
//
// Usage:
//
//	lsbsteg embed [-strict] [-ecc none|golay] <image> <payload> <output>
//	lsbsteg extract [-strict] [-ecc none|golay] <image> <output>
//	lsbsteg capacity [-ecc none|golay] <image>
//	lsbsteg analyze <image> [cover]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/yyyoichi/lsbsteg"
	"github.com/yyyoichi/lsbsteg/analysis"
	"github.com/yyyoichi/lsbsteg/imgio"
)

var errUsage = errors.New("usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("lsbsteg: ")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	switch args[0] {
	case "embed":
		return runEmbed(args[1:], stdout)
	case "extract":
		return runExtract(args[1:], stdout)
	case "capacity":
		return runCapacity(args[1:], stdout)
	case "analyze":
		return runAnalyze(args[1:], stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

type options struct {
	strict bool
	ecc    string
}

func parse(name string, args []string, withStrict bool, nargs ...int) (*options, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var o options
	if withStrict {
		fs.BoolVar(&o.strict, "strict", false, "Fail instead of truncating when the payload does not fit")
	}
	fs.StringVar(&o.ecc, "ecc", "none", "Error correction: none or golay")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	for _, n := range nargs {
		if fs.NArg() == n {
			return &o, fs.Args(), nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s: wrong number of arguments", errUsage, name)
}

func (o *options) steg() (*lsbsteg.Steg, error) {
	var opts []lsbsteg.Option
	if o.strict {
		opts = append(opts, lsbsteg.WithStrict())
	}
	switch o.ecc {
	case "none", "":
		opts = append(opts, lsbsteg.WithoutECC())
	case "golay":
		opts = append(opts, lsbsteg.WithGolay())
	default:
		return nil, fmt.Errorf("%w: unknown -ecc %q", errUsage, o.ecc)
	}
	return lsbsteg.New(opts...)
}

func runEmbed(args []string, stdout io.Writer) error {
	o, args, err := parse("embed", args, true, 3)
	if err != nil {
		return err
	}
	s, err := o.steg()
	if err != nil {
		return err
	}
	imagePath, payloadPath, outputPath := args[0], args[1], args[2]

	// Reject a lossy output before doing any work.
	format, err := imgio.FormatFromPath(outputPath)
	if err != nil {
		return err
	}
	if !imgio.Lossless(format) {
		return fmt.Errorf("%w: %s", imgio.ErrLossyFormat, outputPath)
	}

	grid, err := imgio.Load(imagePath)
	if err != nil {
		return err
	}
	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return err
	}
	n, err := s.Embed(grid, payload)
	if err != nil {
		return err
	}
	if c := s.Capacity(grid); len(payload) > c {
		log.Printf("warning: payload of %d bytes truncated to fit %s (capacity %d bytes)", len(payload), imagePath, c)
	}
	if err := imgio.Save(outputPath, grid); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "embedded %d bytes into %s\n", n, outputPath)
	return nil
}

func runExtract(args []string, stdout io.Writer) error {
	o, args, err := parse("extract", args, true, 2)
	if err != nil {
		return err
	}
	s, err := o.steg()
	if err != nil {
		return err
	}
	imagePath, outputPath := args[0], args[1]

	grid, err := imgio.Load(imagePath)
	if err != nil {
		return err
	}
	payload, err := s.Extract(grid)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "extracted %d bytes to %s\n", len(payload), outputPath)
	return nil
}

func runCapacity(args []string, stdout io.Writer) error {
	o, args, err := parse("capacity", args, false, 1)
	if err != nil {
		return err
	}
	s, err := o.steg()
	if err != nil {
		return err
	}
	grid, err := imgio.Load(args[0])
	if err != nil {
		return err
	}
	w, h := grid.Size()
	fmt.Fprintf(stdout, "%s: %dx%d, %d bytes\n", args[0], w, h, s.Capacity(grid))
	return nil
}

func runAnalyze(args []string, stdout io.Writer) error {
	_, args, err := parse("analyze", args, false, 1, 2)
	if err != nil {
		return err
	}
	grid, err := imgio.Load(args[0])
	if err != nil {
		return err
	}
	r, err := analysis.ChiSquare(grid)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "chi-square: %.2f (df %d), embedding probability %.4f\n", r.Statistic, r.DegreesOfFreedom, r.Probability)

	if len(args) == 2 {
		cover, err := imgio.Load(args[1])
		if err != nil {
			return err
		}
		psnr, err := analysis.PSNR(cover, grid)
		if err != nil {
			return err
		}
		if math.IsInf(psnr, 1) {
			fmt.Fprintln(stdout, "PSNR: identical")
		} else {
			fmt.Fprintf(stdout, "PSNR: %.2f dB\n", psnr)
		}
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `lsbsteg - hide a file in the low bits of an image

Usage:
  lsbsteg embed [-strict] [-ecc none|golay] <image> <payload> <output>
  lsbsteg extract [-strict] [-ecc none|golay] <image> <output>
  lsbsteg capacity [-ecc none|golay] <image>
  lsbsteg analyze <image> [cover]

Output images must be PNG or TIFF. Other formats destroy the payload.

Flags:
  -strict   fail instead of truncating a payload that does not fit
  -ecc      error correction applied to the payload: none (default) or golay
`)
}
