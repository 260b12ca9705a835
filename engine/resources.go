package engine

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	_ "golang.org/x/image/bmp"
)

const (
	TextStimHeight    = 0.20
	TextStimWrapWidth = 1.2
)

func GetDefaultFontPath() string {
	// Check local fonts directory
	entries, err := os.ReadDir("fonts")
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext == ".ttf" {
					return filepath.Join("fonts", entry.Name())
				}
			}
		}
	}

	// System paths
	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{"C:\\Windows\\Fonts\\arial.ttf"}
	case "darwin":
		paths = []string{"/Library/Fonts/Arial.ttf", "/System/Library/Fonts/Supplemental/Arial.ttf"}
	default:
		paths = []string{
			"/usr/share/fonts/truetype/msttcorefonts/Arial.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// LoadFontData reads the TTF at path, or the default font when path is
// empty. A nil result with no error means no font was found and the caller
// should use its built-in one.
func LoadFontData(path string) ([]byte, error) {
	if path == "" {
		path = GetDefaultFontPath()
		if path == "" {
			return nil, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return data, nil
}

// LoadStimuli builds the stimulus table from the files at the top level of
// dir. Images and .txt files are keyed by their name without extension;
// anything else is ignored.
func LoadStimuli(dir string) (StimulusTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	table := make(StimulusTable)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		ext := strings.ToLower(filepath.Ext(filename))
		name := strings.TrimSuffix(filename, filepath.Ext(filename))
		fullPath := filepath.Join(dir, filename)

		switch ext {
		case ".bmp", ".jpg", ".png", ".gif":
			img, err := loadImage(fullPath)
			if err != nil {
				return nil, err
			}
			table[name] = Stimulus{Type: StimImage, Image: img}
		case ".txt":
			data, err := os.ReadFile(fullPath)
			if err != nil {
				return nil, err
			}
			table[name] = Stimulus{
				Type:      StimText,
				Text:      string(data),
				Height:    TextStimHeight,
				WrapWidth: TextStimWrapWidth,
			}
		}
	}
	return table, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
