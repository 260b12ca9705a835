package engine

import (
	"fmt"
	"os"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"golang.org/x/image/font/gofont/goregular"
)

type resOption struct {
	W, H  int
	Label string
}

var resOptions = []resOption{
	{800, 600, "800x600 (SVGA)"},
	{1024, 768, "1024x768 (XGA)"},
	{1300, 740, "1300x740 (experiment window)"},
	{1920, 1080, "1920x1080 (FHD)"},
	{2560, 1440, "2560x1440 (QHD)"},
}

type checkOption struct {
	Label string
	Value *bool
}

type setupForm struct {
	renderer *sdl.Renderer
	font     *ttf.Font
	fields   [3]string
	focus    int
	res      int
	checks   []checkOption
	showWin  bool
}

var (
	black = sdl.Color{R: 0, G: 0, B: 0, A: 255}
	white = sdl.Color{R: 255, G: 255, B: 255, A: 255}
)

// guiFontPath returns a TTF usable by SDL_ttf, writing the bundled Go font
// to a temp file when the system has none.
func guiFontPath() (path string, cleanup func(), err error) {
	if p := GetDefaultFontPath(); p != "" {
		return p, func() {}, nil
	}
	f, err := os.CreateTemp("", "retrospect-*.ttf")
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	if _, err := f.Write(goregular.TTF); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

// RunGuiSetup shows a form for the data CSV, the symbols directory, the
// output directory, the window size and the run options. It reports
// whether the user pressed START.
func RunGuiSetup(cfg *Config) (bool, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return false, fmt.Errorf("SDL_Init: %w", err)
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return false, fmt.Errorf("TTF_Init: %w", err)
	}
	defer ttf.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer("RetrospectTheory setup", 800, 700, 0)
	if err != nil {
		return false, fmt.Errorf("CreateWindowAndRenderer: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	fontPath, cleanup, err := guiFontPath()
	if err != nil {
		return false, err
	}
	defer cleanup()
	guiFont, err := ttf.OpenFont(fontPath, 18)
	if err != nil {
		return false, fmt.Errorf("open GUI font: %w", err)
	}
	defer guiFont.Close()

	form := &setupForm{
		renderer: renderer,
		font:     guiFont,
		focus:    -1,
		res:      2,
		showWin:  !cfg.Headless,
	}
	if cfg.Stem != "" {
		form.fields[0] = cfg.CSVPath()
	}
	form.fields[1] = cfg.StimuliDir
	form.fields[2] = cfg.OutputDir
	form.checks = []checkOption{
		{"Show window while rendering", &form.showWin},
		{"Fixation frame before each trial", &cfg.UseFixation},
		{"Write MP4 video (needs ffmpeg)", &cfg.WriteVideo},
	}
	for i, res := range resOptions {
		if cfg.ScreenWidth == res.W && cfg.ScreenHeight == res.H {
			form.res = i
			break
		}
	}

	window.StartTextInput()
	defer window.StopTextInput()

	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return false, nil
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				if form.click(window, me.X, me.Y) {
					cfg.SetCSVPath(form.fields[0])
					cfg.StimuliDir = form.fields[1]
					cfg.OutputDir = form.fields[2]
					cfg.ScreenWidth = resOptions[form.res].W
					cfg.ScreenHeight = resOptions[form.res].H
					cfg.Headless = !form.showWin
					return true, nil
				}
			case sdl.EVENT_TEXT_INPUT:
				if form.focus != -1 {
					form.fields[form.focus] += e.TextInputEvent().Text
				}
			case sdl.EVENT_KEY_DOWN:
				if form.focus != -1 && e.KeyboardEvent().Key == sdl.K_BACKSPACE {
					if f := form.fields[form.focus]; len(f) > 0 {
						form.fields[form.focus] = f[:len(f)-1]
					}
				}
			}
		}

		form.draw()
		renderer.Present()
		sdl.Delay(10)
	}
}

func inside(x, y, x0, y0, x1, y1 float32) bool {
	return x >= x0 && x <= x1 && y >= y0 && y <= y1
}

// click handles a mouse press and reports whether START was accepted.
func (f *setupForm) click(window *sdl.Window, mx, my float32) bool {
	f.focus = -1
	for i := range f.fields {
		y := float32(50 + i*70)
		if inside(mx, my, 50, y, 700, y+30) {
			f.focus = i
		}
		if inside(mx, my, 710, y, 780, y+30) {
			f.openDialog(window, i)
		}
	}
	for i := range resOptions {
		y := float32(260 + i*40)
		if inside(mx, my, 50, y, 400, y+30) {
			f.res = i
		}
	}
	for i, c := range f.checks {
		y := float32(480 + i*40)
		if inside(mx, my, 50, y, 400, y+30) {
			*c.Value = !*c.Value
		}
	}
	if inside(mx, my, 350, 620, 450, 660) {
		if _, err := os.Stat(f.fields[0]); err == nil {
			return true
		}
	}
	return false
}

func (f *setupForm) openDialog(window *sdl.Window, field int) {
	target := &f.fields[field]
	cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
		if len(fileList) > 0 {
			*target = fileList[0]
		}
	})
	if field == 0 {
		filters := []sdl.DialogFileFilter{{Name: "CSV Files", Pattern: "csv"}}
		sdl.ShowOpenFileDialog(cb, window, filters, "", false)
		return
	}
	sdl.ShowOpenFolderDialog(cb, window, "", false)
}

func (f *setupForm) text(s string, x, y float32, c sdl.Color) {
	if s == "" {
		return
	}
	surf, err := f.font.RenderTextBlended(s, c)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()
	tex, err := f.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	defer tex.Destroy()
	r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
	f.renderer.RenderTexture(tex, nil, &r)
}

func (f *setupForm) checkbox(label string, y float32, checked bool) {
	r := f.renderer
	r.SetDrawColor(255, 255, 255, 255)
	box := sdl.FRect{X: 50, Y: y, W: 20, H: 20}
	r.RenderFillRect(&box)
	r.SetDrawColor(0, 0, 0, 255)
	r.RenderRect(&box)
	if checked {
		mark := sdl.FRect{X: 54, Y: y + 4, W: 12, H: 12}
		r.SetDrawColor(0, 150, 0, 255)
		r.RenderFillRect(&mark)
	}
	f.text(label, 80, y, black)
}

func (f *setupForm) draw() {
	r := f.renderer
	r.SetDrawColor(240, 240, 240, 255)
	r.Clear()

	labels := []string{"Trial data CSV:", "Symbols directory:", "Output directory:"}
	for i, label := range labels {
		y := float32(50 + i*70)
		f.text(label, 50, y-30, black)

		r.SetDrawColor(255, 255, 255, 255)
		box := sdl.FRect{X: 50, Y: y, W: 650, H: 30}
		r.RenderFillRect(&box)
		if f.focus == i {
			r.SetDrawColor(0, 120, 255, 255)
		} else {
			r.SetDrawColor(180, 180, 180, 255)
		}
		r.RenderRect(&box)
		f.text(f.fields[i], 55, y+5, black)

		r.SetDrawColor(200, 200, 200, 255)
		btn := sdl.FRect{X: 710, Y: y, W: 70, H: 30}
		r.RenderFillRect(&btn)
		r.SetDrawColor(0, 0, 0, 255)
		r.RenderRect(&btn)
		f.text("...", 735, y+5, black)
	}

	for i, opt := range resOptions {
		f.checkbox(opt.Label, float32(260+i*40), f.res == i)
	}
	for i, c := range f.checks {
		f.checkbox(c.Label, float32(480+i*40), *c.Value)
	}

	r.SetDrawColor(0, 150, 0, 255)
	start := sdl.FRect{X: 350, Y: 620, W: 100, H: 40}
	r.RenderFillRect(&start)
	f.text("START", 375, 630, white)
}
