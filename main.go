// Command ChoiceHistoryGIF renders data/block.csv with the default settings
// and writes block.mp4, block.gif and block_frames.csv to the working
// directory. Use cmd/retrospect for anything else.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bsgarcia/ChoiceHistoryGIF/engine"
	"go.uber.org/zap"
)

const filename = "block"

func main() {
	cfg := engine.DefaultConfig()
	cfg.Stem = filename

	logger, err := engine.NewLogger(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := engine.Run(context.Background(), cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
