package engine

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadStimuli(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "triangle.png"), 4, 3, color.Black)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cross.txt"), []byte("+"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	stim, err := LoadStimuli(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"cross", "triangle"}, stim.Names())

	tri, err := stim.Lookup("triangle")
	require.NoError(t, err)
	assert.Equal(t, StimImage, tri.Type)
	assert.Equal(t, image.Pt(4, 3), tri.Image.Bounds().Size())

	cross, err := stim.Lookup("cross")
	require.NoError(t, err)
	assert.Equal(t, StimText, cross.Type)
	assert.Equal(t, "+", cross.Text)
	assert.Equal(t, TextStimHeight, cross.Height)
	assert.Equal(t, TextStimWrapWidth, cross.WrapWidth)

	_, err = stim.Lookup("circle")
	assert.ErrorIs(t, err, ErrUnknownStimulus)
	assert.False(t, stim.Has("notes"))
}

func TestLoadStimuli_Bitmap(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "7.bmp"))
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, 5, 5))))
	require.NoError(t, f.Close())

	stim, err := LoadStimuli(dir)
	require.NoError(t, err)
	s, err := stim.Lookup("7")
	require.NoError(t, err)
	assert.Equal(t, StimImage, s.Type)
}

func TestLoadStimuli_Errors(t *testing.T) {
	_, err := LoadStimuli(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0o644))
	_, err = LoadStimuli(dir)
	assert.ErrorContains(t, err, "broken.png")
}

func TestLoadFontData(t *testing.T) {
	_, err := LoadFontData(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(path, []byte("ttf"), 0o644))
	data, err := LoadFontData(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("ttf"), data)
}
