package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

type CanvasOptions struct {
	Width, Height int
	Background    color.Color
	Foreground    color.Color
	// FontData is a TTF file. Empty means the bundled Go font.
	FontData []byte
}

// Canvas is a software Display rendering into RGBA buffers. It needs no
// window, so it is what headless runs and tests present on.
type Canvas struct {
	vp    Viewport
	bg    *image.Uniform
	fg    color.Color
	back  *image.RGBA
	front *image.RGBA
	ttf   *truetype.Font
	faces map[int]font.Face
}

func NewCanvas(opts CanvasOptions) (*Canvas, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}
	data := opts.FontData
	if len(data) == 0 {
		data = goregular.TTF
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	bg, fg := opts.Background, opts.Foreground
	if bg == nil {
		bg = color.White
	}
	if fg == nil {
		fg = color.Black
	}

	c := &Canvas{
		vp:    Viewport{W: opts.Width, H: opts.Height},
		bg:    image.NewUniform(bg),
		fg:    fg,
		back:  image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		front: image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		ttf:   f,
		faces: make(map[int]font.Face),
	}
	c.clear(c.back)
	c.clear(c.front)
	return c, nil
}

func (c *Canvas) Viewport() Viewport { return c.vp }

func (c *Canvas) clear(img *image.RGBA) {
	draw.Draw(img, img.Bounds(), c.bg, image.Point{}, draw.Src)
}

func (c *Canvas) DrawStimulus(s Stimulus, at Placement) error {
	switch s.Type {
	case StimImage:
		return c.drawImage(s.Image, at)
	case StimText:
		return c.drawText(s, at)
	case StimBox:
		c.drawBox(s, at)
		return nil
	}
	return fmt.Errorf("cannot draw %v stimulus", s.Type)
}

func (c *Canvas) drawImage(src image.Image, at Placement) error {
	if src == nil {
		return fmt.Errorf("image stimulus has no pixels")
	}
	var dst image.Rectangle
	if at.Size == (Point{}) {
		cx, cy := c.vp.ToPixel(at.Pos)
		b := src.Bounds()
		tl := image.Pt(int(math.Round(cx))-b.Dx()/2, int(math.Round(cy))-b.Dy()/2)
		dst = image.Rectangle{Min: tl, Max: tl.Add(b.Size())}
	} else {
		dst = c.vp.Rect(at.Pos, at.Size)
	}
	xdraw.CatmullRom.Scale(c.back, dst, src, src.Bounds(), xdraw.Over, nil)
	return nil
}

func (c *Canvas) drawBox(s Stimulus, at Placement) {
	col := s.Color
	if col == nil {
		col = c.fg
	}
	src := image.NewUniform(col)
	r := c.vp.Rect(at.Pos, at.Size)
	lw := int(math.Round(s.LineWidth))
	if lw < 1 {
		lw = 1
	}
	in, out := lw/2, lw-lw/2
	edges := []image.Rectangle{
		image.Rect(r.Min.X-out, r.Min.Y-out, r.Max.X+out, r.Min.Y+in),
		image.Rect(r.Min.X-out, r.Max.Y-in, r.Max.X+out, r.Max.Y+out),
		image.Rect(r.Min.X-out, r.Min.Y-out, r.Min.X+in, r.Max.Y+out),
		image.Rect(r.Max.X-in, r.Min.Y-out, r.Max.X+out, r.Max.Y+out),
	}
	for _, e := range edges {
		draw.Draw(c.back, e, src, image.Point{}, draw.Over)
	}
}

func (c *Canvas) face(px int) font.Face {
	if f, ok := c.faces[px]; ok {
		return f
	}
	f := truetype.NewFace(c.ttf, &truetype.Options{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[px] = f
	return f
}

func (c *Canvas) drawText(s Stimulus, at Placement) error {
	height := s.Height
	if at.Size.Y > 0 {
		height = at.Size.Y
	}
	px := int(math.Round(c.vp.ScaleY(height)))
	if px < 1 {
		return fmt.Errorf("text height %.3f is below one pixel", height)
	}
	col := s.Color
	if col == nil {
		col = c.fg
	}
	d := &font.Drawer{
		Dst:  c.back,
		Src:  image.NewUniform(col),
		Face: c.face(px),
	}

	lines := wrapLines(d, s.Text, c.vp.ScaleX(s.WrapWidth))
	m := d.Face.Metrics()
	lineH := m.Height.Ceil()
	ascent := m.Ascent.Ceil()
	cx, cy := c.vp.ToPixel(at.Pos)
	y := int(math.Round(cy)) - lineH*len(lines)/2 + ascent
	for _, line := range lines {
		w := d.MeasureString(line).Ceil()
		d.Dot = freetype.Pt(int(math.Round(cx))-w/2, y)
		d.DrawString(line)
		y += lineH
	}
	return nil
}

// wrapLines splits text on newlines and then greedily on spaces so no line is
// wider than maxW pixels. maxW <= 0 disables wrapping.
func wrapLines(d *font.Drawer, text string, maxW float64) []string {
	var out []string
	for _, para := range strings.Split(strings.TrimRight(text, "\r\n"), "\n") {
		para = strings.TrimRight(para, "\r")
		words := strings.Fields(para)
		if maxW <= 0 || len(words) == 0 {
			out = append(out, para)
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			next := line + " " + w
			if float64(d.MeasureString(next).Ceil()) > maxW {
				out = append(out, line)
				line = w
				continue
			}
			line = next
		}
		out = append(out, line)
	}
	return out
}

func (c *Canvas) Flip() error {
	c.front, c.back = c.back, c.front
	c.clear(c.back)
	return nil
}

func (c *Canvas) CaptureFrame() (image.Image, error) {
	frame := image.NewRGBA(c.front.Bounds())
	copy(frame.Pix, c.front.Pix)
	return frame, nil
}

// Front exposes the visible buffer without copying.
func (c *Canvas) Front() *image.RGBA { return c.front }

func (c *Canvas) Close() error {
	for _, f := range c.faces {
		f.Close()
	}
	c.faces = make(map[int]font.Face)
	return nil
}
