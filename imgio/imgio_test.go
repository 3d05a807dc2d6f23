package imgio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/lsbsteg"
	"golang.org/x/image/bmp"
)

func newCover(t *testing.T) *lsbsteg.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 16))
	for y := range 16 {
		for x := range 24 {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 10), uint8(y * 15), uint8(x + y), 255})
		}
	}
	b, err := lsbsteg.FromImage(img)
	require.NoError(t, err)
	return b
}

func TestFormatFromPath(t *testing.T) {
	test := []struct {
		path string
		exp  string
	}{
		{path: "a.png", exp: PNG},
		{path: "dir/A.PNG", exp: PNG},
		{path: "a.bmp", exp: "bmp"},
		{path: "a.tif", exp: TIFF},
		{path: "a.tiff", exp: TIFF},
		{path: "a.jpg", exp: "jpg"},
		{path: "a.gif", exp: "gif"},
	}
	for _, tt := range test {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.exp, got)
	}
	_, err := FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"out.png", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			cover := newCover(t)
			payload := []byte("file round trip")
			_, err := lsbsteg.Embed(cover, payload, lsbsteg.WithStrict())
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, cover))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cover.Image().Pix, loaded.Image().Pix)

			got, err := lsbsteg.Extract(loaded)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestSaveBMPRejected(t *testing.T) {
	cover := newCover(t)
	_, err := lsbsteg.Embed(cover, []byte("bmp round trip payload"), lsbsteg.WithStrict())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.bmp")
	assert.ErrorIs(t, Save(path, cover), ErrLossyFormat)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, cover.Image(), "bmp"), ErrLossyFormat)
}

func TestLoadBMPCover(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, newCover(t).Image()))
	path := filepath.Join(t.TempDir(), "cover.bmp")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	grid, err := Load(path)
	require.NoError(t, err)
	w, h := grid.Size()
	assert.Equal(t, 24, w)
	assert.Equal(t, 16, h)

	// an opaque cover decoded from BMP still carries a payload once saved as PNG
	payload := []byte("from bmp cover")
	_, err = lsbsteg.Embed(grid, payload, lsbsteg.WithStrict())
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "stego.png")
	require.NoError(t, Save(out, grid))
	loaded, err := Load(out)
	require.NoError(t, err)
	got, err := lsbsteg.Extract(loaded)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSaveLossy(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.jpg", "out.gif"} {
		path := filepath.Join(dir, name)
		err := Save(path, newCover(t))
		assert.ErrorIs(t, err, ErrLossyFormat)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	}
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), "jpeg"), ErrLossyFormat)
}

func TestLoadJPEGCover(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, newCover(t).Image(), nil))
	path := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	grid, err := Load(path)
	require.NoError(t, err)
	w, h := grid.Size()
	assert.Equal(t, 24, w)
	assert.Equal(t, 16, h)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestLossless(t *testing.T) {
	for _, f := range []string{PNG, TIFF} {
		assert.True(t, Lossless(f))
	}
	for _, f := range []string{"jpeg", "jpg", "gif", "webp", "bmp", ""} {
		assert.False(t, Lossless(f))
	}
}
