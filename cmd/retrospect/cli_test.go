package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bsgarcia/ChoiceHistoryGIF/engine"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, argv ...string) (*engine.Config, error) {
	t.Helper()
	o := &options{flags: engine.DefaultConfig()}
	cmd := &cobra.Command{Use: "retrospect"}
	o.bind(cmd)
	require.NoError(t, cmd.ParseFlags(argv))
	return o.config(cmd, cmd.Flags().Args())
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(), cfg)
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stem: fromfile\nfps: 4\noutput_dir: out\nwrite_gif: false\n"), 0o644))

	cfg, err := parse(t, "--config", path, "--fps", "10", "--no-video")
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Stem)
	assert.Equal(t, 10, cfg.FPS, "flags beat the file")
	assert.Equal(t, "out", cfg.OutputDir, "unset flags keep the file value")
	assert.False(t, cfg.WriteGIF)
	assert.False(t, cfg.WriteVideo)

	cfg, err = parse(t, "--config", path, "block7")
	require.NoError(t, err)
	assert.Equal(t, "block7", cfg.Stem, "stem argument wins")
}

func TestConfigFlags(t *testing.T) {
	cfg, err := parse(t, "--window", "--fixation", "--bg-color", "0,0,0", "--width", "640", "--height", "480")
	require.NoError(t, err)
	assert.False(t, cfg.Headless)
	assert.True(t, cfg.UseFixation)
	assert.Equal(t, engine.Color{A: 255}, cfg.BGColor)
	assert.Equal(t, 640, cfg.ScreenWidth)
	assert.Equal(t, 480, cfg.ScreenHeight)
}

func TestConfigErrors(t *testing.T) {
	_, err := parse(t, "--text-color", "black")
	assert.ErrorContains(t, err, "--text-color")

	_, err = parse(t, "--width", "641")
	assert.Error(t, err, "odd width with video on")

	_, err = parse(t, "--width", "641", "--no-video")
	assert.NoError(t, err)

	_, err = parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
