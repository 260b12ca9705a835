package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidFrames(n, w, h int) []image.Image {
	frames := make([]image.Image, n)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		c := color.RGBA{uint8(i * 60), 0, 0, 255}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		frames[i] = img
	}
	return frames
}

func TestGIFEncoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.gif")
	enc := GIFEncoder{Path: path, FPS: 2}
	require.NoError(t, enc.Encode(context.Background(), solidFrames(3, 20, 10)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)

	assert.Len(t, anim.Image, 3)
	assert.Equal(t, []int{50, 50, 50}, anim.Delay)
	assert.Equal(t, 0, anim.LoopCount, "loops forever")
	assert.Equal(t, image.Rect(0, 0, 20, 10), anim.Image[0].Bounds())
}

func TestGIFEncoder_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := GIFEncoder{Path: filepath.Join(t.TempDir(), "x.gif")}
	assert.ErrorIs(t, enc.Encode(ctx, solidFrames(2, 4, 4)), context.Canceled)
}

type encoderFunc func(ctx context.Context, frames []image.Image) error

func (f encoderFunc) Encode(ctx context.Context, frames []image.Image) error { return f(ctx, frames) }

func TestEncodeAll(t *testing.T) {
	frames := solidFrames(2, 4, 4)

	assert.ErrorIs(t, EncodeAll(context.Background(), nil), ErrNoFrames)

	var got [2]int
	err := EncodeAll(context.Background(), frames,
		encoderFunc(func(_ context.Context, f []image.Image) error { got[0] = len(f); return nil }),
		encoderFunc(func(_ context.Context, f []image.Image) error { got[1] = len(f); return nil }),
	)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 2}, got)

	boom := errors.New("boom")
	err = EncodeAll(context.Background(), frames,
		encoderFunc(func(context.Context, []image.Image) error { return boom }),
		encoderFunc(func(ctx context.Context, _ []image.Image) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	assert.ErrorIs(t, err, boom)
}

func TestWriteRawRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})
	img.SetRGBA(1, 0, color.RGBA{4, 5, 6, 255})

	var buf bytes.Buffer
	require.NoError(t, writeRawRGB(&buf, img, make([]byte, 6)))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf.Bytes())

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.Pix[0] = 9
	buf.Reset()
	require.NoError(t, writeRawRGB(&buf, gray, make([]byte, 3)))
	assert.Equal(t, []byte{9, 9, 9}, buf.Bytes())
}

func TestVideoEncoderArgs(t *testing.T) {
	args := VideoEncoder{Path: "block.mp4", FPS: 2}.args(1300, 740)
	assert.Contains(t, args, "1300x740")
	assert.Contains(t, args, "rgb24")
	assert.Equal(t, "block.mp4", args[len(args)-1])
	assert.Subset(t, args, []string{"-framerate", "2"})
}

func TestVideoEncoder_Errors(t *testing.T) {
	ctx := context.Background()
	enc := VideoEncoder{Path: filepath.Join(t.TempDir(), "x.mp4"), FFmpeg: filepath.Join(t.TempDir(), "no-ffmpeg")}

	assert.ErrorIs(t, enc.Encode(ctx, nil), ErrNoFrames)

	mixed := append(solidFrames(1, 4, 4), solidFrames(1, 6, 6)...)
	assert.ErrorContains(t, enc.Encode(ctx, mixed), "frame 1")

	assert.Error(t, enc.Encode(ctx, solidFrames(2, 4, 4)))
}

func TestVideoEncoder_FFmpeg(t *testing.T) {
	if os.Getenv("RETROSPECT_FFMPEG_TEST") == "" {
		t.Skip("set RETROSPECT_FFMPEG_TEST=1 to run against a real ffmpeg")
	}
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not installed")
	}
	path := filepath.Join(t.TempDir(), "block.mp4")
	enc := VideoEncoder{Path: path, FPS: 2, FFmpeg: bin}
	require.NoError(t, enc.Encode(context.Background(), solidFrames(4, 64, 32)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
