package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"github.com/bsgarcia/ChoiceHistoryGIF/engine"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer binsdl.Load().Unload()
	defer binttf.Load().Unload()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := engine.DefaultConfig()
	if err := cfg.LoadCache(engine.CacheFile); err != nil {
		return err
	}

	ok, err := engine.RunGuiSetup(cfg)
	if err != nil || !ok {
		return err
	}
	if err := cfg.SaveCache(engine.CacheFile); err != nil {
		return err
	}

	logger, err := engine.NewLogger(false)
	if err != nil {
		return err
	}
	defer logger.Sync()
	return engine.Run(context.Background(), cfg, logger)
}
