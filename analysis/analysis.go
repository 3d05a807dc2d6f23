// Package analysis measures how visible an embedded payload is.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/yyyoichi/lsbsteg"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrSizeMismatch = errors.New("grids differ in size")

// Result is the outcome of the pairs-of-values chi-square test.
type Result struct {
	Statistic        float64
	DegreesOfFreedom int
	// Probability that the low bits were overwritten with uniformly distributed data.
	Probability float64
}

// ChiSquare runs the Westfeld-Pfitzmann pairs-of-values test over the R, G and B channels of g.
//
// Replacing low bits with random data equalizes the counts of each value pair (2i, 2i+1).
// The statistic compares the count of every even value against the pair mean;
// a value close to zero, and so a probability close to one, points to embedded data.
// Pairs that never occur are skipped. With fewer than two occurring pairs the result is zero.
func ChiSquare(g lsbsteg.Grid) (Result, error) {
	var hist [256]float64
	err := each(g, func(p lsbsteg.Pixel) {
		hist[p[lsbsteg.ChannelR]]++
		hist[p[lsbsteg.ChannelG]]++
		hist[p[lsbsteg.ChannelB]]++
	})
	if err != nil {
		return Result{}, err
	}

	obs := make([]float64, 0, 128)
	exp := make([]float64, 0, 128)
	for i := 0; i < len(hist); i += 2 {
		mean := (hist[i] + hist[i+1]) / 2
		if mean == 0 {
			continue
		}
		obs = append(obs, hist[i])
		exp = append(exp, mean)
	}
	if len(obs) < 2 {
		return Result{}, nil
	}

	r := Result{
		Statistic:        stat.ChiSquare(obs, exp),
		DegreesOfFreedom: len(obs) - 1,
	}
	r.Probability = distuv.ChiSquared{K: float64(r.DegreesOfFreedom)}.Survival(r.Statistic)
	return r, nil
}

// PSNR returns the peak signal-to-noise ratio in decibels between cover and stego over all four channels.
// Identical grids give +Inf.
func PSNR(cover, stego lsbsteg.Grid) (float64, error) {
	cw, ch := cover.Size()
	sw, sh := stego.Size()
	if cw != sw || ch != sh {
		return 0, fmt.Errorf("%w: %dx%d and %dx%d", ErrSizeMismatch, cw, ch, sw, sh)
	}
	a, err := channels(cover)
	if err != nil {
		return 0, err
	}
	b, err := channels(stego)
	if err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return math.Inf(1), nil
	}

	floats.Sub(a, b)
	mse := floats.Dot(a, a) / float64(len(a))
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(255*255/mse), nil
}

func channels(g lsbsteg.Grid) ([]float64, error) {
	w, h := g.Size()
	out := make([]float64, 0, max(w*h, 0)*4)
	err := each(g, func(p lsbsteg.Pixel) {
		for _, v := range p {
			out = append(out, float64(v))
		}
	})
	return out, err
}

func each(g lsbsteg.Grid, fn func(lsbsteg.Pixel)) error {
	w, h := g.Size()
	for y := range h {
		for x := range w {
			p, err := g.At(x, y)
			if err != nil {
				return err
			}
			fn(p)
		}
	}
	return nil
}
