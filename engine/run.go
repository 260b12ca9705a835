package engine

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Run renders the trials of cfg.CSVPath() and writes the configured
// outputs. Any failure aborts the whole run.
func Run(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	trials, err := LoadTrials(cfg.CSVPath())
	if err != nil {
		return fmt.Errorf("load trials: %w", err)
	}
	logger.Info("trials loaded", zap.String("csv", cfg.CSVPath()), zap.Int("trials", len(trials)))

	stimuli, err := LoadStimuli(cfg.StimuliDir)
	if err != nil {
		return fmt.Errorf("load stimuli: %w", err)
	}
	logger.Info("stimuli loaded", zap.String("dir", cfg.StimuliDir), zap.Strings("names", stimuli.Names()))

	display, err := OpenDisplay(cfg)
	if err != nil {
		return err
	}

	var trigger Trigger
	if cfg.DLPDevice != "" {
		dlp, err := NewDLPIO8G(cfg.DLPDevice, cfg.DLPPulseWidth)
		if err != nil {
			display.Close()
			return fmt.Errorf("trigger: %w", err)
		}
		trigger = dlp
	}

	session := NewSession(display, stimuli, SessionOptions{
		Welcome:  cfg.ShowWelcome,
		Fixation: cfg.UseFixation,
		End:      cfg.ShowEnd,
		Trigger:  trigger,
		Logger:   logger,
	})
	err = session.Present(trials)
	if cerr := session.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("present: %w", err)
	}
	frames := session.Frames()
	logger.Info("presentation done", zap.Int("frames", len(frames)))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	if cfg.WriteFrameLog {
		if err := session.FrameLog().Save(cfg.FrameLogPath()); err != nil {
			return fmt.Errorf("save frame log: %w", err)
		}
		logger.Info("frame log saved", zap.String("path", cfg.FrameLogPath()))
	}

	var encoders []Encoder
	if cfg.WriteVideo {
		encoders = append(encoders, VideoEncoder{Path: cfg.VideoPath(), FPS: cfg.FPS, FFmpeg: cfg.FFmpeg})
	}
	if cfg.WriteGIF {
		encoders = append(encoders, GIFEncoder{Path: cfg.GIFPath(), FPS: cfg.FPS})
	}
	if len(encoders) == 0 {
		return nil
	}
	if err := EncodeAll(ctx, frames, encoders...); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	logger.Info("outputs written",
		zap.Bool("video", cfg.WriteVideo), zap.String("video_path", cfg.VideoPath()),
		zap.Bool("gif", cfg.WriteGIF), zap.String("gif_path", cfg.GIFPath()))
	return nil
}

// OpenDisplay creates the Canvas, and the window around it unless the run
// is headless.
func OpenDisplay(cfg *Config) (Display, error) {
	fontData, err := LoadFontData(cfg.FontFile)
	if err != nil {
		return nil, err
	}
	canvas, err := NewCanvas(CanvasOptions{
		Width:      cfg.ScreenWidth,
		Height:     cfg.ScreenHeight,
		Background: cfg.BGColor,
		Foreground: cfg.TextColor,
		FontData:   fontData,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Headless {
		return canvas, nil
	}
	w, err := OpenWindow(canvas, cfg.Fullscreen, cfg.VSync)
	if err != nil {
		canvas.Close()
		return nil, err
	}
	return w, nil
}
