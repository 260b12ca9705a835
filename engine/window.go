package engine

import (
	"errors"
	"fmt"

	"github.com/Zyko0/go-sdl3/sdl"
)

var ErrAborted = errors.New("aborted by user")

// Window shows every flipped frame of a Canvas in an SDL window. Drawing
// and capture stay on the Canvas, so a windowed run records exactly what a
// headless one would.
type Window struct {
	*Canvas
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

func OpenWindow(canvas *Canvas, fullscreen, vsync bool) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init: %w", err)
	}

	windowFlags := sdl.WINDOW_RESIZABLE
	if fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}

	vp := canvas.Viewport()
	window, renderer, err := sdl.CreateWindowAndRenderer("RetrospectTheory", vp.W, vp.H, windowFlags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("CreateWindowAndRenderer: %w", err)
	}

	if vsync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}

	// ABGR8888 is R,G,B,A byte order on little-endian hosts, matching
	// image.RGBA.
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, vp.W, vp.H)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("CreateTexture: %w", err)
	}

	return &Window{Canvas: canvas, window: window, renderer: renderer, texture: texture}, nil
}

func (w *Window) Flip() error {
	if err := w.Canvas.Flip(); err != nil {
		return err
	}

	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		switch ev.Type {
		case sdl.EVENT_QUIT:
			return ErrAborted
		case sdl.EVENT_KEY_DOWN:
			if ev.KeyboardEvent().Key == sdl.K_ESCAPE {
				return ErrAborted
			}
		}
	}

	front := w.Canvas.Front()
	if err := w.texture.Update(nil, front.Pix, int32(front.Stride)); err != nil {
		return fmt.Errorf("update texture: %w", err)
	}
	w.renderer.SetDrawColor(0, 0, 0, 255)
	w.renderer.Clear()
	w.renderer.RenderTexture(w.texture, nil, nil)
	w.renderer.Present()
	return nil
}

func (w *Window) Close() error {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
	return w.Canvas.Close()
}
