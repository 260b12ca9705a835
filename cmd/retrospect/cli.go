package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/bsgarcia/ChoiceHistoryGIF/engine"
	"github.com/spf13/cobra"
)

func init() {
	// SDL3 requires the main thread for some operations.
	runtime.LockOSThread()
}

type options struct {
	configFile string
	verbose    bool
	window     bool
	noVSync    bool
	noVideo    bool
	noGIF      bool
	noFrameLog bool
	bgColor    string
	textColor  string

	// flags holds the values bound to flags; only the ones set on the
	// command line are copied over the loaded config.
	flags *engine.Config
}

// overrides copies one flag's value from the flag-bound config onto the
// effective one.
var overrides = map[string]func(dst *engine.Config, o *options) error{
	"data-dir":    func(dst *engine.Config, o *options) error { dst.DataDir = o.flags.DataDir; return nil },
	"stimuli-dir": func(dst *engine.Config, o *options) error { dst.StimuliDir = o.flags.StimuliDir; return nil },
	"output-dir":  func(dst *engine.Config, o *options) error { dst.OutputDir = o.flags.OutputDir; return nil },
	"font":        func(dst *engine.Config, o *options) error { dst.FontFile = o.flags.FontFile; return nil },
	"dlp":         func(dst *engine.Config, o *options) error { dst.DLPDevice = o.flags.DLPDevice; return nil },
	"ffmpeg":      func(dst *engine.Config, o *options) error { dst.FFmpeg = o.flags.FFmpeg; return nil },
	"width":       func(dst *engine.Config, o *options) error { dst.ScreenWidth = o.flags.ScreenWidth; return nil },
	"height":      func(dst *engine.Config, o *options) error { dst.ScreenHeight = o.flags.ScreenHeight; return nil },
	"fps":         func(dst *engine.Config, o *options) error { dst.FPS = o.flags.FPS; return nil },
	"fullscreen":  func(dst *engine.Config, o *options) error { dst.Fullscreen = o.flags.Fullscreen; return nil },
	"fixation":    func(dst *engine.Config, o *options) error { dst.UseFixation = o.flags.UseFixation; return nil },
	"welcome":     func(dst *engine.Config, o *options) error { dst.ShowWelcome = o.flags.ShowWelcome; return nil },
	"end":         func(dst *engine.Config, o *options) error { dst.ShowEnd = o.flags.ShowEnd; return nil },
	"window":      func(dst *engine.Config, o *options) error { dst.Headless = !o.window; return nil },
	"no-vsync":    func(dst *engine.Config, o *options) error { dst.VSync = !o.noVSync; return nil },
	"no-video":    func(dst *engine.Config, o *options) error { dst.WriteVideo = !o.noVideo; return nil },
	"no-gif":      func(dst *engine.Config, o *options) error { dst.WriteGIF = !o.noGIF; return nil },
	"no-frame-log": func(dst *engine.Config, o *options) error {
		dst.WriteFrameLog = !o.noFrameLog
		return nil
	},
	"bg-color": func(dst *engine.Config, o *options) error {
		c, err := engine.ParseColor(o.bgColor)
		dst.BGColor = c
		return err
	},
	"text-color": func(dst *engine.Config, o *options) error {
		c, err := engine.ParseColor(o.textColor)
		dst.TextColor = c
		return err
	},
}

func newRootCmd() *cobra.Command {
	o := &options{flags: engine.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "retrospect [stem]",
		Short: "render a RetrospectTheory block to video and gif",
		Long: `Replays the recorded choices of <data-dir>/<stem>.csv as stimulus frames
(symbol pair, selection, outcomes) and writes <stem>.mp4, <stem>.gif and
<stem>_frames.csv.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd, args)
			if err != nil {
				return err
			}

			logger, err := engine.NewLogger(o.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.Headless {
				defer binsdl.Load().Unload()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return engine.Run(ctx, cfg, logger)
		},
	}

	o.bind(cmd)
	return cmd
}

func (o *options) bind(cmd *cobra.Command) {
	fc := o.flags
	f := cmd.Flags()
	f.StringVar(&o.configFile, "config", "", "config file path (yaml)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
	f.StringVar(&fc.DataDir, "data-dir", fc.DataDir, "directory holding <stem>.csv")
	f.StringVar(&fc.StimuliDir, "stimuli-dir", fc.StimuliDir, "directory containing symbol stimuli")
	f.StringVar(&fc.OutputDir, "output-dir", fc.OutputDir, "directory for the outputs")
	f.StringVar(&fc.FontFile, "font", fc.FontFile, "TTF font file")
	f.StringVar(&fc.DLPDevice, "dlp", fc.DLPDevice, "DLP-IO8-G device")
	f.StringVar(&fc.FFmpeg, "ffmpeg", fc.FFmpeg, "ffmpeg binary")
	f.IntVar(&fc.ScreenWidth, "width", fc.ScreenWidth, "screen width")
	f.IntVar(&fc.ScreenHeight, "height", fc.ScreenHeight, "screen height")
	f.IntVar(&fc.FPS, "fps", fc.FPS, "frames per second of the outputs")
	f.BoolVar(&o.window, "window", false, "show frames in a window while rendering")
	f.BoolVar(&fc.Fullscreen, "fullscreen", fc.Fullscreen, "fullscreen window")
	f.BoolVar(&o.noVSync, "no-vsync", false, "disable VSync")
	f.BoolVar(&fc.UseFixation, "fixation", fc.UseFixation, "fixation frame before each trial")
	f.BoolVar(&fc.ShowWelcome, "welcome", fc.ShowWelcome, "welcome frame before the first trial")
	f.BoolVar(&fc.ShowEnd, "end", fc.ShowEnd, "end frame after the last trial")
	f.BoolVar(&o.noVideo, "no-video", false, "skip the mp4 output")
	f.BoolVar(&o.noGIF, "no-gif", false, "skip the gif output")
	f.BoolVar(&o.noFrameLog, "no-frame-log", false, "skip the frame log csv")
	f.StringVar(&o.bgColor, "bg-color", fc.BGColor.String(), "background color (R,G,B,A)")
	f.StringVar(&o.textColor, "text-color", fc.TextColor.String(), "text color (R,G,B,A)")
}

// config builds the effective config: defaults, then the config file, then
// the flags given on the command line, then the stem argument.
func (o *options) config(cmd *cobra.Command, args []string) (*engine.Config, error) {
	cfg := engine.DefaultConfig()
	if o.configFile != "" {
		loaded, err := engine.LoadConfig(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	for name, apply := range overrides {
		if !cmd.Flags().Changed(name) {
			continue
		}
		if err := apply(cfg, o); err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
	}
	if len(args) == 1 {
		cfg.Stem = args[0]
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
