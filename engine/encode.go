package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const DefaultFPS = 2

var ErrNoFrames = errors.New("no frames to encode")

// Encoder turns the captured frames of a run into an output file.
type Encoder interface {
	Encode(ctx context.Context, frames []image.Image) error
}

// EncodeAll runs every encoder over the same frames. Encoders only read the
// frames, so they run in parallel; the first failure cancels the rest.
func EncodeAll(ctx context.Context, frames []image.Image, encoders ...Encoder) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, enc := range encoders {
		g.Go(func() error {
			return enc.Encode(ctx, frames)
		})
	}
	return g.Wait()
}

// GIFEncoder writes an endlessly looping animated GIF.
type GIFEncoder struct {
	Path string
	FPS  int
}

func (e GIFEncoder) Encode(ctx context.Context, frames []image.Image) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	fps := e.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	delay := 100 / fps

	anim := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := frame.Bounds()
		p := image.NewPaletted(b, palette.Plan9)
		draw.FloydSteinberg.Draw(p, b, frame, b.Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(e.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode %s: %w", e.Path, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// VideoEncoder pipes raw RGB frames into ffmpeg and lets it produce an
// H.264 file.
type VideoEncoder struct {
	Path   string
	FPS    int
	FFmpeg string
}

func (e VideoEncoder) args(w, h int) []string {
	fps := e.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", strconv.Itoa(fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		e.Path,
	}
}

func (e VideoEncoder) Encode(ctx context.Context, frames []image.Image) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	size := frames[0].Bounds().Size()
	for i, f := range frames {
		if f.Bounds().Size() != size {
			return fmt.Errorf("frame %d is %v, want %v", i, f.Bounds().Size(), size)
		}
	}

	bin := e.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, e.args(size.X, size.Y)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", bin, err)
	}

	buf := make([]byte, size.X*size.Y*3)
	var werr error
	for _, f := range frames {
		if werr = writeRawRGB(stdin, f, buf); werr != nil {
			break
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, lastLine(stderr.String()))
	}
	return werr
}

func writeRawRGB(w io.Writer, img image.Image, buf []byte) error {
	b := img.Bounds()
	i := 0
	if rgba, ok := img.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				buf[i], buf[i+1], buf[i+2] = row[x*4], row[x*4+1], row[x*4+2]
				i += 3
			}
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				buf[i], buf[i+1], buf[i+2] = byte(r>>8), byte(g>>8), byte(bl>>8)
				i += 3
			}
		}
	}
	_, err := w.Write(buf)
	return err
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
