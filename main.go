package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/saveblush/reraw-search/cli"
	"github.com/saveblush/reraw-search/core/utils/logger"
)

func main() {
	// Init logger
	logger.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
