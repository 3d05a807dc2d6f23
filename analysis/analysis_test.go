package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/lsbsteg"
)

func newGrid(t *testing.T, width, height int, fill func(i int) byte) *lsbsteg.Buffer {
	t.Helper()
	b, err := lsbsteg.NewBuffer(width, height)
	require.NoError(t, err)
	pix := b.Image().Pix
	for i := range pix {
		pix[i] = fill(i)
	}
	return b
}

func TestChiSquare(t *testing.T) {
	t.Run("even values only", func(t *testing.T) {
		g := newGrid(t, 64, 64, func(i int) byte { return byte(i*6) &^ 1 })
		r, err := ChiSquare(g)
		require.NoError(t, err)
		assert.Greater(t, r.Statistic, 0.)
		assert.Greater(t, r.DegreesOfFreedom, 1)
		assert.Less(t, r.Probability, 1e-6)
	})
	t.Run("balanced pairs", func(t *testing.T) {
		// every channel of pixel j holds j mod 256
		g := newGrid(t, 64, 64, func(i int) byte { return byte(i / 4) })
		r, err := ChiSquare(g)
		require.NoError(t, err)
		assert.Zero(t, r.Statistic)
		assert.Equal(t, 127, r.DegreesOfFreedom)
		assert.InDelta(t, 1., r.Probability, 1e-9)
	})
	t.Run("flat image", func(t *testing.T) {
		g := newGrid(t, 8, 8, func(int) byte { return 0x80 })
		r, err := ChiSquare(g)
		require.NoError(t, err)
		assert.Equal(t, Result{}, r)
	})
}

func TestChiSquareDetectsEmbedding(t *testing.T) {
	cover := newGrid(t, 64, 64, func(i int) byte { return byte(i*6) &^ 1 })
	stego := cover.Clone()

	s, err := lsbsteg.New()
	require.NoError(t, err)
	payload := make([]byte, s.Capacity(stego))
	_, _ = rand.New(rand.NewSource(1)).Read(payload)
	_, err = s.Embed(stego, payload)
	require.NoError(t, err)

	before, err := ChiSquare(cover)
	require.NoError(t, err)
	after, err := ChiSquare(stego)
	require.NoError(t, err)
	assert.Less(t, after.Statistic, before.Statistic)
	assert.Greater(t, after.Probability, before.Probability)
}

func TestPSNR(t *testing.T) {
	a := newGrid(t, 1, 1, func(int) byte { return 100 })
	b := a.Clone()

	got, err := PSNR(a, b)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	require.NoError(t, b.Set(0, 0, lsbsteg.Pixel{100, 101, 100, 100}))
	got, err = PSNR(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 10*math.Log10(255*255*4), got, 1e-9)

	_, err = PSNR(a, newGrid(t, 2, 1, func(int) byte { return 0 }))
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestPSNRAfterEmbed(t *testing.T) {
	cover := newGrid(t, 32, 32, func(i int) byte { return byte(i * 7) })
	stego := cover.Clone()
	_, err := lsbsteg.Embed(stego, []byte("payload"))
	require.NoError(t, err)

	got, err := PSNR(cover, stego)
	require.NoError(t, err)
	// at most 3 per channel in 11 of 1024 pixels
	assert.Greater(t, got, 40.)
	assert.False(t, math.IsInf(got, 1))
}
