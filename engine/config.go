package engine

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Color is an RGBA color written as "R,G,B" or "R,G,B,A" in config files.
type Color color.RGBA

func (c Color) RGBA() (r, g, b, a uint32) { return color.RGBA(c).RGBA() }

func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalYAML() (any, error) { return c.String(), nil }

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseColor(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// ParseColor reads "R,G,B" or "R,G,B,A". Alpha defaults to opaque.
func ParseColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("color %q: want R,G,B[,A]", s)
	}
	v := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &n); err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("color %q: component %d out of range", s, i+1)
		}
		v[i] = uint8(n)
	}
	return Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

type Config struct {
	Stem       string `yaml:"stem"`
	DataDir    string `yaml:"data_dir"`
	StimuliDir string `yaml:"stimuli_dir"`
	OutputDir  string `yaml:"output_dir"`
	FontFile   string `yaml:"font_file"`

	ScreenWidth  int  `yaml:"screen_w"`
	ScreenHeight int  `yaml:"screen_h"`
	FPS          int  `yaml:"fps"`
	Headless     bool `yaml:"headless"`
	Fullscreen   bool `yaml:"fullscreen"`
	VSync        bool `yaml:"vsync"`

	ShowWelcome bool `yaml:"show_welcome"`
	UseFixation bool `yaml:"use_fixation"`
	ShowEnd     bool `yaml:"show_end"`

	WriteVideo    bool   `yaml:"write_video"`
	WriteGIF      bool   `yaml:"write_gif"`
	WriteFrameLog bool   `yaml:"write_frame_log"`
	FFmpeg        string `yaml:"ffmpeg"`

	DLPDevice     string        `yaml:"dlp_device"`
	DLPPulseWidth time.Duration `yaml:"dlp_pulse_width"`

	BGColor   Color `yaml:"bg_color"`
	TextColor Color `yaml:"text_color"`
}

func DefaultConfig() *Config {
	return &Config{
		Stem:          "block",
		DataDir:       "data",
		StimuliDir:    filepath.Join("resources", "symbols"),
		OutputDir:     ".",
		ScreenWidth:   1300,
		ScreenHeight:  740,
		FPS:           DefaultFPS,
		Headless:      true,
		VSync:         true,
		WriteVideo:    true,
		WriteGIF:      true,
		WriteFrameLog: true,
		FFmpeg:        "ffmpeg",
		DLPPulseWidth: 5 * time.Millisecond,
		BGColor:       Color{R: 255, G: 255, B: 255, A: 255},
		TextColor:     Color{R: 0, G: 0, B: 0, A: 255},
	}
}

// LoadConfig overlays the YAML file at path on the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	if cfg.Stem == "" {
		return fmt.Errorf("stem is required")
	}
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	// yuv420p needs even dimensions.
	if cfg.WriteVideo && (cfg.ScreenWidth%2 != 0 || cfg.ScreenHeight%2 != 0) {
		return fmt.Errorf("video needs even screen size, got %dx%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if cfg.FPS <= 0 || cfg.FPS > 100 {
		return fmt.Errorf("fps must be in 1..100, got %d", cfg.FPS)
	}
	return nil
}

func (cfg *Config) CSVPath() string {
	return filepath.Join(cfg.DataDir, cfg.Stem+".csv")
}

// SetCSVPath points the config at an existing CSV file; its name becomes
// the output stem.
func (cfg *Config) SetCSVPath(path string) {
	cfg.DataDir = filepath.Dir(path)
	cfg.Stem = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (cfg *Config) VideoPath() string {
	return filepath.Join(cfg.OutputDir, cfg.Stem+".mp4")
}

func (cfg *Config) GIFPath() string {
	return filepath.Join(cfg.OutputDir, cfg.Stem+".gif")
}

func (cfg *Config) FrameLogPath() string {
	return filepath.Join(cfg.OutputDir, cfg.Stem+"_frames.csv")
}

const CacheFile = ".retrospect_cache.yaml"

func (cfg *Config) SaveCache(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadCache restores settings saved by SaveCache. A missing cache is not
// an error.
func (cfg *Config) LoadCache(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
